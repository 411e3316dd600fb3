package product

import "context"

// Repository owns product records. Products are never deleted; mutation
// happens through administrative updates or reconciler decrements.
type Repository interface {
	Insert(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
}
