package http

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/aithaytham/Webkaru/internal/domain"
	"github.com/aithaytham/Webkaru/internal/webhook"
)

type WebhookReceiver interface {
	HandleEvent(ctx context.Context, rawBody []byte, signatureHeader string) (*webhook.Ack, error)
}

type WebhookHandler struct {
	receiver    WebhookReceiver
	maxBodySize int64
}

func NewWebhookHandler(receiver WebhookReceiver, maxBodySize int64) *WebhookHandler {
	return &WebhookHandler{receiver: receiver, maxBodySize: maxBodySize}
}

// POST /webhook. The signature is computed over the raw bytes, so the body
// must reach the receiver untouched.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "could not read request body"})
		return
	}

	ack, err := h.receiver.HandleEvent(r.Context(), body, r.Header.Get("Stripe-Signature"))
	if errors.Is(err, domain.ErrWebhookNotConfigured) {
		log.Printf("webhook rejected: %v", err)
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Webhook secret not configured"})
		return
	}
	if err != nil {
		log.Printf("webhook signature verification failed: %v", err)
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Webhook signature verification failed"})
		return
	}

	respondJSON(w, http.StatusOK, ack)
}
