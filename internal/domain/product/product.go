package product

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("product: not found")
	ErrConflict        = errors.New("product: already exists")
	ErrMissingID       = errors.New("product: id is required")
	ErrInvalidQuantity = errors.New("product: quantity must be zero or greater")
	ErrInvalidPrice    = errors.New("product: price must be zero or greater")
)

type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Quantity    int
	UpdatedAt   time.Time
}

func New(id, name, description string, price float64, quantity int) (*Product, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Quantity:    quantity,
		UpdatedAt:   time.Now().UTC(),
	}, nil
}

// Decrement subtracts qty from the on-hand quantity, clamping at zero: a
// decrement larger than the current stock leaves zero, never a negative
// value. Non-positive qty is a no-op.
func (p *Product) Decrement(qty int) {
	if qty <= 0 {
		return
	}
	p.Quantity -= qty
	if p.Quantity < 0 {
		p.Quantity = 0
	}
	p.touch()
}

// Availability reports whether qty units can currently be satisfied, along
// with the on-hand quantity. The answer is advisory: no hold is taken.
func (p *Product) Availability(qty int) (available bool, current int) {
	return p.Quantity >= qty, p.Quantity
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now().UTC()
}
