package order

import "context"

// Repository owns order persistence. Insert must store the order and its
// items as a single atomic unit; that guarantee is local to the ledger and
// does not span the availability check or the later event publish.
type Repository interface {
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	// List returns all orders, most recently created first.
	List(ctx context.Context) ([]*Order, error)
}
