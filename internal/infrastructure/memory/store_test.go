package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/minicart/fulfillment/internal/domain/order"
	"github.com/minicart/fulfillment/internal/domain/product"
)

func mustProduct(t *testing.T, id string, qty int) *product.Product {
	t.Helper()
	p, err := product.New(id, "name-"+id, "", 1.50, qty)
	if err != nil {
		t.Fatalf("product.New: %v", err)
	}
	return p
}

func TestProductStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()

	if err := s.Insert(ctx, mustProduct(t, "p1", 10)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(ctx, mustProduct(t, "p1", 10)); !errors.Is(err, product.ErrConflict) {
		t.Errorf("duplicate Insert = %v, want ErrConflict", err)
	}

	p, err := s.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", p.Quantity)
	}

	p.Decrement(4)
	if err := s.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := s.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got.Quantity != 6 {
		t.Errorf("quantity after update = %d, want 6", got.Quantity)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, product.ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
	if err := s.Update(ctx, mustProduct(t, "missing", 1)); !errors.Is(err, product.ErrNotFound) {
		t.Errorf("Update(missing) = %v, want ErrNotFound", err)
	}
}

func TestProductStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	if err := s.Insert(ctx, mustProduct(t, "p1", 10)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	p, _ := s.Get(ctx, "p1")
	p.Decrement(10)

	stored, _ := s.Get(ctx, "p1")
	if stored.Quantity != 10 {
		t.Errorf("store mutated through returned copy: quantity = %d", stored.Quantity)
	}
}

func TestOrderStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()

	for _, id := range []string{"ord-1", "ord-2", "ord-3"} {
		o, err := order.New(id, []order.Item{{ProductID: "p1", Quantity: 1}})
		if err != nil {
			t.Fatalf("order.New: %v", err)
		}
		if err := s.Insert(ctx, o); err != nil {
			t.Fatalf("Insert(%s): %v", id, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"ord-3", "ord-2", "ord-1"}
	if len(list) != len(want) {
		t.Fatalf("len = %d, want %d", len(list), len(want))
	}
	for i, o := range list {
		if o.ID != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, o.ID, want[i])
		}
	}
}

func TestOrderStoreGetAndConflict(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()

	o, err := order.New("ord-1", []order.Item{{ProductID: "p1", Quantity: 2}})
	if err != nil {
		t.Fatalf("order.New: %v", err)
	}
	if err := s.Insert(ctx, o); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(ctx, o); !errors.Is(err, order.ErrConflict) {
		t.Errorf("duplicate Insert = %v, want ErrConflict", err)
	}

	got, err := s.Get(ctx, "ord-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "ord-1" || len(got.Items) != 1 || got.Items[0].ProductID != "p1" {
		t.Errorf("unexpected order: %+v", got)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, order.ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
}
