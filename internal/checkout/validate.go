package checkout

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/aithaytham/Webkaru/internal/domain"
)

// SessionIDPlaceholder is substituted by Stripe into the success URL on
// redirect; validation swaps it for a dummy value before parsing.
const SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

const (
	minQuantity = 1
	maxQuantity = 100
)

var priceIDPattern = regexp.MustCompile(`^price_[a-zA-Z0-9]+$`)

// ValidateRequest runs every local check and returns an itemized error, or
// nil when the request is clean. It performs no I/O.
func ValidateRequest(req *domain.CheckoutRequest) *domain.ValidationError {
	verr := &domain.ValidationError{}

	if len(req.LineItems) == 0 {
		verr.Add("line_items", "line_items must be non-empty")
	}
	for i, item := range req.LineItems {
		if !priceIDPattern.MatchString(item.PriceID) {
			verr.Add(fmt.Sprintf("line_items[%d].price", i), "invalid price ID format")
		}
		if item.Quantity < minQuantity || item.Quantity > maxQuantity {
			verr.Add(fmt.Sprintf("line_items[%d].quantity", i),
				fmt.Sprintf("quantity must be between %d and %d", minQuantity, maxQuantity))
		}
	}

	if !req.Mode.Valid() {
		verr.Add("mode", "mode must be payment, subscription, or setup")
	}

	if req.SuccessURL != "" && !validRedirectURL(req.SuccessURL) {
		verr.Add("success_url", "success_url must be a valid URL")
	}
	if req.CancelURL != "" && !validRedirectURL(req.CancelURL) {
		verr.Add("cancel_url", "cancel_url must be a valid URL")
	}

	if req.CustomerEmail != "" {
		if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
			verr.Add("customer_email", "customer_email must be a valid email address")
		}
	}

	if !verr.HasErrors() {
		return nil
	}
	return verr
}

func validRedirectURL(raw string) bool {
	raw = strings.ReplaceAll(raw, SessionIDPlaceholder, "test_session_id")
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
