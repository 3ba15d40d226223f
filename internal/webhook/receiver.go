package webhook

import (
	"context"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v79"
	stripewebhook "github.com/stripe/stripe-go/v79/webhook"

	"github.com/aithaytham/Webkaru/internal/domain"
)

// Recognized event types. Everything else is logged and acknowledged.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventPaymentIntentSucceeded   = "payment_intent.succeeded"
	EventPaymentIntentFailed      = "payment_intent.payment_failed"
)

type Handler func(ctx context.Context, event stripe.Event) error

type Ack struct {
	Received bool `json:"received"`
}

// Receiver verifies event authenticity and dispatches by type. Signature
// verification is the authenticity boundary: nothing runs before it passes.
type Receiver struct {
	secret   string
	ledger   EventLedger
	handlers map[string]Handler
}

func NewReceiver(secret string, ledger EventLedger) *Receiver {
	return &Receiver{
		secret:   secret,
		ledger:   ledger,
		handlers: make(map[string]Handler),
	}
}

// Handle registers a handler for an event type. Not safe to call once
// events are flowing; register everything at startup.
func (r *Receiver) Handle(eventType string, h Handler) {
	r.handlers[eventType] = h
}

// HandleEvent verifies the signature over the raw body, de-duplicates by
// event ID, then dispatches. Once the signature verifies, the event is
// always acknowledged: handler failures are logged, never surfaced, so
// Stripe does not retry indefinitely.
func (r *Receiver) HandleEvent(ctx context.Context, rawBody []byte, signatureHeader string) (*Ack, error) {
	if r.secret == "" {
		return nil, domain.ErrWebhookNotConfigured
	}

	event, err := stripewebhook.ConstructEventWithOptions(rawBody, signatureHeader, r.secret,
		stripewebhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	first, err := r.ledger.MarkProcessed(event.ID)
	if err != nil {
		// A broken ledger must not drop events; handlers are idempotent by
		// contract, so dispatch anyway.
		log.Printf("event ledger error for %s: %v", event.ID, err)
		first = true
	}
	if !first {
		log.Printf("duplicate delivery of event %s (%s), skipping handlers", event.ID, event.Type)
		return &Ack{Received: true}, nil
	}

	handler, ok := r.handlers[string(event.Type)]
	if !ok {
		log.Printf("unhandled event type: %s", event.Type)
		return &Ack{Received: true}, nil
	}

	if err := handler(ctx, event); err != nil {
		log.Printf("handler for %s (%s) failed: %v", event.Type, event.ID, err)
	}

	return &Ack{Received: true}, nil
}
