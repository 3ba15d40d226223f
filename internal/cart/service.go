package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aithaytham/Webkaru/internal/catalog"
	"github.com/aithaytham/Webkaru/internal/domain"
)

// Service is the single controller owning cart mutations. Every operation
// loads the aggregate, applies one mutation through the log, and saves,
// so the stored cart never lags a mutation.
type Service struct {
	store   Store
	catalog *catalog.Catalog
}

func NewService(store Store, cat *catalog.Catalog) *Service {
	return &Service{store: store, catalog: cat}
}

// Get returns the cart, or a fresh empty one when nothing is stored yet.
func (s *Service) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.store.Load(ctx, cartID)
	if errors.Is(err, ErrCartNotFound) {
		return domain.NewCart(cartID), nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem resolves the product key against the catalog and adds one unit
// (or qty units). Unconfigured products are rejected before they can ever
// reach a checkout request.
func (s *Service) AddItem(ctx context.Context, cartID, productKey string, qty int64) (*domain.Cart, error) {
	if qty <= 0 {
		qty = 1
	}

	product, ok := s.catalog.Lookup(productKey)
	if !ok || !product.Configured() {
		return nil, &domain.ConfigurationError{ProductKey: productKey}
	}

	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cart.Apply(domain.Mutation{
		Kind: domain.MutationAdd,
		Item: &domain.CartItem{
			ProductKey: product.Key,
			PriceID:    product.PriceID,
			Title:      product.Title,
			UnitPrice:  product.Price(),
			Quantity:   qty,
		},
	})

	return cart, s.save(ctx, cart)
}

// UpdateQuantity sets the absolute quantity of an item. Zero or negative
// removes it, so a stored quantity is never 0.
func (s *Service) UpdateQuantity(ctx context.Context, cartID, productKey string, qty int64) (*domain.Cart, error) {
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cart.Apply(domain.Mutation{
		Kind:       domain.MutationUpdate,
		ProductKey: productKey,
		Quantity:   qty,
	})

	return cart, s.save(ctx, cart)
}

func (s *Service) RemoveItem(ctx context.Context, cartID, productKey string) (*domain.Cart, error) {
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cart.Apply(domain.Mutation{
		Kind:       domain.MutationRemove,
		ProductKey: productKey,
	})

	return cart, s.save(ctx, cart)
}

// Clear empties the cart. Called after a confirmed payment.
func (s *Service) Clear(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cart.Apply(domain.Mutation{Kind: domain.MutationClear, At: time.Now().UTC()})

	return cart, s.save(ctx, cart)
}

func (s *Service) save(ctx context.Context, cart *domain.Cart) error {
	if err := s.store.Save(ctx, cart); err != nil {
		return fmt.Errorf("persist cart %s: %w", cart.ID, err)
	}
	return nil
}
