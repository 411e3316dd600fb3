package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/minicart/fulfillment/internal/domain/order"
)

type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]*order.Order
	// ids preserves insertion order so List can return newest first.
	ids []string
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[string]*order.Order),
	}
}

func (s *OrderStore) Insert(ctx context.Context, o *order.Order) error {
	_ = ctx
	if o == nil || o.ID == "" {
		return fmt.Errorf("order store: id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID]; exists {
		return order.ErrConflict
	}
	s.orders[o.ID] = o.Clone()
	s.ids = append(s.ids, o.ID)
	return nil
}

func (s *OrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o.Clone(), nil
}

func (s *OrderStore) List(ctx context.Context) ([]*order.Order, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*order.Order, 0, len(s.ids))
	for i := len(s.ids) - 1; i >= 0; i-- {
		out = append(out, s.orders[s.ids[i]].Clone())
	}
	return out, nil
}

var _ order.Repository = (*OrderStore)(nil)
