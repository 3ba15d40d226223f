package domain

// CheckoutMode mirrors the Stripe Checkout session modes we accept.
type CheckoutMode string

const (
	ModePayment      CheckoutMode = "payment"
	ModeSubscription CheckoutMode = "subscription"
	ModeSetup        CheckoutMode = "setup"
)

func (m CheckoutMode) Valid() bool {
	switch m {
	case ModePayment, ModeSubscription, ModeSetup:
		return true
	}
	return false
}

// LineItem is the outbound (price identifier, quantity) pair. It is derived
// per checkout attempt and never persisted.
type LineItem struct {
	PriceID  string `json:"price"`
	Quantity int64  `json:"quantity"`
}

// CheckoutRequest is the JSON body of POST /api/create-checkout-session.
// SuccessURL may contain the {CHECKOUT_SESSION_ID} placeholder that Stripe
// substitutes on redirect.
type CheckoutRequest struct {
	LineItems      []LineItem        `json:"line_items"`
	Mode           CheckoutMode      `json:"mode,omitempty"`
	SuccessURL     string            `json:"success_url,omitempty"`
	CancelURL      string            `json:"cancel_url,omitempty"`
	CustomerEmail  string            `json:"customer_email,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
}

// SessionResult is the opaque handle Stripe returns, relayed to the caller
// unchanged.
type SessionResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SanitizedSession is the reduced projection of a checkout session returned
// to the browser. Never the full provider object.
type SanitizedSession struct {
	ID              string            `json:"id"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	CustomerDetails *CustomerDetails  `json:"customer_details,omitempty"`
	PaymentStatus   string            `json:"payment_status"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Created         int64             `json:"created"`
}

type CustomerDetails struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}
