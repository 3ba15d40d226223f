// Package payment is the single translation boundary to Stripe. Nothing
// outside this package imports stripe-go types; provider failures are mapped
// onto the closed error set in internal/domain before they escape.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/aithaytham/Webkaru/internal/domain"
)

// Policy holds the fixed session options applied server-side to every
// checkout: shipping, billing, locale and invoicing. Clients never control
// these.
type Policy struct {
	Locale                 string
	ShippingCountries      []string
	BillingAddressRequired bool
	CollectPhoneNumber     bool
	AllowPromotionCodes    bool
	PaymentMethodTypes     []string
	InvoiceDescription     string
	InvoiceFooter          string
}

func DefaultPolicy() Policy {
	return Policy{
		Locale:                 "fr",
		ShippingCountries:      []string{"FR", "BE", "CH", "LU", "MC", "DE", "IT", "ES", "NL"},
		BillingAddressRequired: true,
		CollectPhoneNumber:     true,
		AllowPromotionCodes:    true,
		PaymentMethodTypes:     []string{"card"},
		InvoiceDescription:     "Précommande Karu Deck - KARU MELO",
		InvoiceFooter:          "Merci pour votre précommande ! Support: contact@karumelo.com",
	}
}

type StripeGateway struct {
	client *client.API
	cb     *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
	policy Policy
}

func NewStripeGateway(apiKey string, policy Policy) *StripeGateway {
	sc := &client.API{}
	sc.Init(apiKey, nil)

	cb := gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](gobreaker.Settings{
		Name:    "stripe-checkout",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &StripeGateway{client: sc, cb: cb, policy: policy}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req *domain.CheckoutRequest) (*domain.SessionResult, error) {
	params := g.sessionParams(req)
	params.Context = ctx

	sess, err := g.cb.Execute(func() (*stripe.CheckoutSession, error) {
		return g.client.CheckoutSessions.New(params)
	})
	if err != nil {
		return nil, mapStripeError(err)
	}

	return &domain.SessionResult{ID: sess.ID, URL: sess.URL}, nil
}

func (g *StripeGateway) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*domain.SanitizedSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")
	params.AddExpand("customer")
	params.AddExpand("payment_intent")

	sess, err := g.cb.Execute(func() (*stripe.CheckoutSession, error) {
		return g.client.CheckoutSessions.Get(sessionID, params)
	})
	if err != nil {
		return nil, mapStripeError(err)
	}

	return sanitizeSession(sess), nil
}

func (g *StripeGateway) sessionParams(req *domain.CheckoutRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(req.Mode)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}

	for _, item := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(item.PriceID),
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}

	// Fixed server-side policy.
	if len(g.policy.ShippingCountries) > 0 {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(g.policy.ShippingCountries),
		}
	}
	if g.policy.BillingAddressRequired {
		params.BillingAddressCollection = stripe.String("required")
	}
	if g.policy.CollectPhoneNumber {
		params.PhoneNumberCollection = &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		}
	}
	if g.policy.Locale != "" {
		params.Locale = stripe.String(g.policy.Locale)
	}
	if g.policy.AllowPromotionCodes {
		params.AllowPromotionCodes = stripe.Bool(true)
	}
	if len(g.policy.PaymentMethodTypes) > 0 {
		params.PaymentMethodTypes = stripe.StringSlice(g.policy.PaymentMethodTypes)
	}
	params.AutomaticTax = &stripe.CheckoutSessionAutomaticTaxParams{Enabled: stripe.Bool(false)}
	params.InvoiceCreation = &stripe.CheckoutSessionInvoiceCreationParams{
		Enabled: stripe.Bool(true),
		InvoiceData: &stripe.CheckoutSessionInvoiceCreationInvoiceDataParams{
			Description: stripe.String(g.policy.InvoiceDescription),
			Footer:      stripe.String(g.policy.InvoiceFooter),
			Metadata:    map[string]string{"order_type": "preorder"},
		},
	}

	return params
}

// mapStripeError converts provider and breaker errors into domain errors so
// stripe-go vocabulary never leaks upwards.
func mapStripeError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: provider temporarily unavailable", domain.ErrUpstream)
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeCard:
			return fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, stripeErr.Msg)
		case stripe.ErrorTypeInvalidRequest:
			return fmt.Errorf("%w: %s", domain.ErrUpstreamInvalid, stripeErr.Msg)
		}
		if stripeErr.HTTPStatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%w: provider outage", domain.ErrUpstream)
		}
		return fmt.Errorf("%w: %s", domain.ErrUpstream, stripeErr.Msg)
	}

	return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
}

func sanitizeSession(sess *stripe.CheckoutSession) *domain.SanitizedSession {
	out := &domain.SanitizedSession{
		ID:            sess.ID,
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		PaymentStatus: string(sess.PaymentStatus),
		Metadata:      sess.Metadata,
		Created:       sess.Created,
	}
	if sess.CustomerDetails != nil {
		out.CustomerDetails = &domain.CustomerDetails{
			Email: sess.CustomerDetails.Email,
			Name:  sess.CustomerDetails.Name,
			Phone: sess.CustomerDetails.Phone,
		}
	}
	return out
}
