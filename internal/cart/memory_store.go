package cart

import (
	"context"
	"sync"

	"github.com/aithaytham/Webkaru/internal/domain"
)

// MemoryStore is the no-Redis fallback. Carts are copied on the way in and
// out so callers cannot mutate stored state behind the lock.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*domain.Cart)}
}

func (s *MemoryStore) Load(_ context.Context, cartID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (s *MemoryStore) Save(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cart.ID] = copyCart(cart)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}

func copyCart(c *domain.Cart) *domain.Cart {
	cp := *c
	cp.Items = append([]domain.CartItem(nil), c.Items...)
	cp.Log = append([]domain.Mutation(nil), c.Log...)
	return &cp
}
