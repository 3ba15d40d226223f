package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v79"

	"github.com/aithaytham/Webkaru/internal/domain"
)

// SessionRetriever re-fetches the sanitized session so the completed-order
// handler sees final amounts and customer contact fields.
type SessionRetriever interface {
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*domain.SanitizedSession, error)
}

// CompletedSessionHandler processes checkout.session.completed. Order
// persistence, confirmation email and inventory updates are external
// integrations that do not exist yet; until they do this logs the order
// data it would hand them. Must stay idempotent: it only reads.
func CompletedSessionHandler(retriever SessionRetriever) Handler {
	return func(ctx context.Context, event stripe.Event) error {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("decode checkout session: %w", err)
		}

		log.Printf("payment succeeded: session=%s", sess.ID)

		full, err := retriever.RetrieveCheckoutSession(ctx, sess.ID)
		if err != nil {
			return fmt.Errorf("retrieve session %s: %w", sess.ID, err)
		}

		email := ""
		if full.CustomerDetails != nil {
			email = full.CustomerDetails.Email
		}
		log.Printf("order processed: session=%s email=%s amount=%d %s cart=%q",
			full.ID, email, full.AmountTotal, full.Currency, full.Metadata["cart_items"])
		return nil
	}
}

// SucceededPaymentHandler processes payment_intent.succeeded. The
// completed-session handler carries the order data; this only confirms the
// intent settled.
func SucceededPaymentHandler() Handler {
	return func(_ context.Context, event stripe.Event) error {
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("decode payment intent: %w", err)
		}

		log.Printf("payment intent succeeded: intent=%s amount=%d %s",
			intent.ID, intent.Amount, intent.Currency)
		return nil
	}
}

// FailedPaymentHandler processes payment_intent.payment_failed. The failure
// is asynchronous and invisible to the shopper; Stripe handles retries, so
// this only records what happened.
func FailedPaymentHandler() Handler {
	return func(_ context.Context, event stripe.Event) error {
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("decode payment intent: %w", err)
		}

		reason := ""
		if intent.LastPaymentError != nil {
			reason = intent.LastPaymentError.Msg
		}
		log.Printf("payment failed: intent=%s amount=%d %s reason=%q",
			intent.ID, intent.Amount, intent.Currency, reason)
		return nil
	}
}
