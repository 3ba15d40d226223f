package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aithaytham/Webkaru/internal/catalog"
	"github.com/aithaytham/Webkaru/internal/checkout"
	"github.com/aithaytham/Webkaru/internal/domain"
)

type CartService interface {
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, productKey string, qty int64) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, cartID, productKey string, qty int64) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID, productKey string) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) (*domain.Cart, error)
}

type CartHandler struct {
	carts    CartService
	sessions CheckoutService
	catalog  *catalog.Catalog
	timeout  time.Duration
	devMode  bool
}

func NewCartHandler(carts CartService, sessions CheckoutService, cat *catalog.Catalog, timeout time.Duration, devMode bool) *CartHandler {
	return &CartHandler{
		carts:    carts,
		sessions: sessions,
		catalog:  cat,
		timeout:  timeout,
		devMode:  devMode,
	}
}

type AddItemRequestDTO struct {
	ProductKey string `json:"product_key"`
	Quantity   int64  `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int64 `json:"quantity"`
}

const maxCartIDLength = 64

func cartID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "cartID")
	return id, id != "" && len(id) <= maxCartIDLength
}

// GET /api/cart/{cartID}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := cartID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid cart ID"})
		return
	}

	cart, err := h.carts.Get(ctx, id)
	if err != nil {
		h.respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// POST /api/cart/{cartID}/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := cartID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid cart ID"})
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}
	if req.ProductKey == "" {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "product_key is required"})
		return
	}

	cart, err := h.carts.AddItem(ctx, id, req.ProductKey, req.Quantity)
	if err != nil {
		h.respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cart)
}

// PUT /api/cart/{cartID}/items/{productKey}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := cartID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid cart ID"})
		return
	}
	productKey := chi.URLParam(r, "productKey")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	cart, err := h.carts.UpdateQuantity(ctx, id, productKey, req.Quantity)
	if err != nil {
		h.respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// DELETE /api/cart/{cartID}/items/{productKey}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := cartID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid cart ID"})
		return
	}

	cart, err := h.carts.RemoveItem(ctx, id, chi.URLParam(r, "productKey"))
	if err != nil {
		h.respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// DELETE /api/cart/{cartID}
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := cartID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid cart ID"})
		return
	}

	cart, err := h.carts.Clear(ctx, id)
	if err != nil {
		h.respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// POST /api/cart/{cartID}/checkout
//
// Builds a checkout request from the persisted cart and opens a session for
// it. The cart survives: it is cleared only once payment is confirmed.
func (h *CartHandler) CheckoutCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := cartID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid cart ID"})
		return
	}

	cart, err := h.carts.Get(ctx, id)
	if err != nil {
		h.respondCartError(w, err)
		return
	}

	req, err := checkout.BuildRequest(cart, h.catalog)
	if err != nil {
		respondServiceError(w, err, h.devMode)
		return
	}

	result, err := h.sessions.CreateSession(ctx, req)
	if err != nil {
		respondServiceError(w, err, h.devMode)
		return
	}

	log.Printf("session created from cart %s: %s (request %s)", id, result.ID, getRequestID(r.Context()))
	respondJSON(w, http.StatusOK, result)
}

// respondCartError maps cart-level failures. A ConfigurationError here means
// the client asked for a product key the catalog cannot sell, which is the
// client's mistake, unlike the same error surfacing during a checkout build.
func (h *CartHandler) respondCartError(w http.ResponseWriter, err error) {
	var cerr *domain.ConfigurationError
	if errors.As(err, &cerr) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Unknown or unavailable product"})
		return
	}

	log.Printf("cart error: %v", err)
	respondJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal server error",
		Message: devDetail(err.Error(), h.devMode),
	})
}
