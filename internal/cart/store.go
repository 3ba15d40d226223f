package cart

import (
	"context"
	"errors"

	"github.com/aithaytham/Webkaru/internal/domain"
)

// Store is the explicit save/load boundary for cart state. The browser keeps
// its own copy under a fixed localStorage key; server-side the same shape is
// persisted per cart ID on every mutation.
type Store interface {
	Load(ctx context.Context, cartID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, cartID string) error
}

var ErrCartNotFound = errors.New("cart not found")
