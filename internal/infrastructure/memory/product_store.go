package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/minicart/fulfillment/internal/domain/product"
)

type ProductStore struct {
	mu       sync.RWMutex
	products map[string]*product.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{
		products: make(map[string]*product.Product),
	}
}

func (s *ProductStore) Insert(ctx context.Context, p *product.Product) error {
	_ = ctx
	if p == nil || p.ID == "" {
		return product.ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; exists {
		return product.ErrConflict
	}
	s.products[p.ID] = cloneProduct(p)
	return nil
}

func (s *ProductStore) Update(ctx context.Context, p *product.Product) error {
	_ = ctx
	if p == nil || p.ID == "" {
		return product.ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; !exists {
		return product.ErrNotFound
	}
	s.products[p.ID] = cloneProduct(p)
	return nil
}

func (s *ProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (s *ProductStore) List(ctx context.Context) ([]*product.Product, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*product.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneProduct(p *product.Product) *product.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

var _ product.Repository = (*ProductStore)(nil)
