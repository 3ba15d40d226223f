package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/aithaytham/Webkaru/internal/domain"
)

// Gateway is what the service needs from the payment provider. The Stripe
// implementation lives in internal/payment; tests use fakes.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req *domain.CheckoutRequest) (*domain.SessionResult, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*domain.SanitizedSession, error)
}

const sessionIDPrefix = "cs_"

// Service validates checkout requests, enforces the price allowlist and
// delegates to the gateway. All checks run locally before any network call.
type Service struct {
	gateway     Gateway
	allowed     AllowedPriceSet
	frontendURL string
	sfg         singleflight.Group
}

func NewService(gateway Gateway, allowed AllowedPriceSet, frontendURL string) *Service {
	return &Service{
		gateway:     gateway,
		allowed:     allowed,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (s *Service) CreateSession(ctx context.Context, req *domain.CheckoutRequest) (*domain.SessionResult, error) {
	if req.Mode == "" {
		req.Mode = domain.ModePayment
	}

	if verr := ValidateRequest(req); verr != nil {
		return nil, verr
	}

	// Security boundary: identifiers must resolve server-side. A price ID
	// that is well-formed but unknown fails the whole request.
	var rejected []string
	for _, item := range req.LineItems {
		if !s.allowed.Contains(item.PriceID) {
			rejected = append(rejected, item.PriceID)
		}
	}
	if len(rejected) > 0 {
		return nil, &domain.PriceNotAllowedError{
			Rejected: rejected,
			Allowed:  s.allowed.Values(),
		}
	}

	s.applyDefaults(req)

	return s.gateway.CreateCheckoutSession(ctx, req)
}

func (s *Service) RetrieveSession(ctx context.Context, sessionID string) (*domain.SanitizedSession, error) {
	if !strings.HasPrefix(sessionID, sessionIDPrefix) {
		return nil, domain.NewValidationError("session_id", "invalid session ID format")
	}

	// The success page can fire several retrievals for the same session in
	// quick succession; collapse them into one provider call. The shared call
	// must not die with whichever caller arrived first, so it runs on a
	// context detached from that caller's cancellation.
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		return s.gateway.RetrieveCheckoutSession(context.WithoutCancel(ctx), sessionID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.SanitizedSession), nil
}

func (s *Service) applyDefaults(req *domain.CheckoutRequest) {
	if req.SuccessURL == "" {
		req.SuccessURL = s.frontendURL + "/success.html?session_id=" + SessionIDPlaceholder
	}
	if req.CancelURL == "" {
		req.CancelURL = s.frontendURL + "/cancel.html"
	}

	if req.Metadata == nil {
		req.Metadata = make(map[string]string, 2)
	}
	if req.Metadata["source"] == "" {
		req.Metadata["source"] = "karu_web_preorder"
	}
	req.Metadata["created_at"] = time.Now().UTC().Format(time.RFC3339)

	// One cart, one provider session: a double-submitted form reuses the
	// same key and Stripe returns the original session.
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	}
}
