package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Provider-side failure categories. The payment gateway is the only place
// allowed to translate Stripe errors into these; everything above it works
// with this closed set.
var (
	ErrPaymentDeclined  = errors.New("card was declined")
	ErrUpstreamInvalid  = errors.New("invalid request to payment provider")
	ErrUpstream         = errors.New("payment provider error")
	ErrInvalidSignature = errors.New("webhook signature verification failed")

	// ErrWebhookNotConfigured means the shared webhook secret is missing, so
	// no delivery can ever verify. A server-side gap, not a bad request.
	ErrWebhookNotConfigured = errors.New("webhook secret not configured")
)

// FieldError is one entry of an itemized validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failed field of a request. It is always
// produced locally, before any provider call.
type ValidationError struct {
	Fields []FieldError `json:"details"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// PriceNotAllowedError is the security rejection for price identifiers that
// are syntactically fine but not in the server-side allowlist.
type PriceNotAllowedError struct {
	Rejected []string
	Allowed  []string
}

func (e *PriceNotAllowedError) Error() string {
	return "price identifier not allowed: " + strings.Join(e.Rejected, ", ")
}

// ConfigurationError reports a product key with no usable price mapping.
// This is a local misconfiguration, fatal for the request it hits.
type ConfigurationError struct {
	ProductKey string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("product %q is not configured for checkout", e.ProductKey)
}
