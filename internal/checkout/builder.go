package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/aithaytham/Webkaru/internal/catalog"
	"github.com/aithaytham/Webkaru/internal/domain"
)

// MetadataSource tags every session created from a cart so webhook events
// can be reconciled without a database.
const MetadataSource = "karu_web_preorder_cart"

// BuildRequest converts the cart into a provider-agnostic checkout request.
// Pure transform: no partial request is ever produced. The first item that
// cannot resolve to a configured price identifier fails the whole build.
func BuildRequest(cart *domain.Cart, cat *catalog.Catalog) (*domain.CheckoutRequest, error) {
	if cart.IsEmpty() {
		return nil, domain.NewValidationError("line_items", "line_items must be non-empty")
	}

	lineItems := make([]domain.LineItem, 0, len(cart.Items))
	summary := make([]string, 0, len(cart.Items))

	for _, item := range cart.Items {
		priceID := item.PriceID
		if priceID == "" {
			product, ok := cat.Lookup(item.ProductKey)
			if !ok || !product.Configured() {
				return nil, &domain.ConfigurationError{ProductKey: item.ProductKey}
			}
			priceID = product.PriceID
		}

		lineItems = append(lineItems, domain.LineItem{
			PriceID:  priceID,
			Quantity: item.Quantity,
		})
		summary = append(summary, fmt.Sprintf("%s:%d", item.ProductKey, item.Quantity))
	}

	return &domain.CheckoutRequest{
		LineItems: lineItems,
		Mode:      domain.ModePayment,
		Metadata: map[string]string{
			"source":     MetadataSource,
			"cart_items": strings.Join(summary, ","),
			"cart_total": cart.Total().StringFixed(2),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
