package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aithaytham/Webkaru/internal/domain"
)

type CheckoutService interface {
	CreateSession(ctx context.Context, req *domain.CheckoutRequest) (*domain.SessionResult, error)
	RetrieveSession(ctx context.Context, sessionID string) (*domain.SanitizedSession, error)
}

type CheckoutHandler struct {
	service CheckoutService
	timeout time.Duration
	devMode bool
}

func NewCheckoutHandler(service CheckoutService, timeout time.Duration, devMode bool) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		timeout: timeout,
		devMode: devMode,
	}
}

type ErrorResponse struct {
	Error         string              `json:"error"`
	Details       []domain.FieldError `json:"details,omitempty"`
	AllowedPrices []string            `json:"allowed_prices,omitempty"`
	Message       string              `json:"message,omitempty"`
}

// POST /api/create-checkout-session
func (h *CheckoutHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	result, err := h.service.CreateSession(ctx, &req)
	if err != nil {
		respondServiceError(w, err, h.devMode)
		return
	}

	log.Printf("session created: %s (request %s)", result.ID, getRequestID(r.Context()))
	respondJSON(w, http.StatusOK, result)
}

// GET /api/checkout-session/{sessionID}
func (h *CheckoutHandler) GetCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.service.RetrieveSession(ctx, sessionID)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid session ID format"})
			return
		}
		log.Printf("error retrieving checkout session %s: %v", sessionID, err)
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve checkout session"})
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// respondServiceError maps the closed error taxonomy onto HTTP statuses.
// Provider detail is surfaced only in development mode.
func respondServiceError(w http.ResponseWriter, err error, devMode bool) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Details: verr.Fields,
		})
		return
	}

	var perr *domain.PriceNotAllowedError
	if errors.As(err, &perr) {
		log.Printf("rejected price IDs: %v", perr.Rejected)
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:         "Invalid price ID",
			AllowedPrices: perr.Allowed,
		})
		return
	}

	var cerr *domain.ConfigurationError
	if errors.As(err, &cerr) {
		log.Printf("configuration error: %v", cerr)
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal server error",
			Message: devDetail(cerr.Error(), devMode),
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrPaymentDeclined):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Card was declined"})
	case errors.Is(err, domain.ErrUpstreamInvalid):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request to Stripe",
			Message: devDetail(err.Error(), devMode),
		})
	default:
		log.Printf("error creating checkout session: %v", err)
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal server error",
			Message: devDetail(err.Error(), devMode),
		})
	}
}

func devDetail(detail string, devMode bool) string {
	if devMode {
		return detail
	}
	return ""
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
