package order

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("order: not found")
	ErrConflict        = errors.New("order: already exists")
	ErrEmptyItems      = errors.New("order: at least one item is required")
	ErrInvalidQuantity = errors.New("order: item quantity must be greater than zero")
	ErrMissingProduct  = errors.New("order: item product id is required")
)

type Status string

// StatusConfirmed is the only status the fulfillment workflow produces;
// orders are immutable after creation.
const StatusConfirmed Status = "Confirmed"

type Item struct {
	ProductID string
	Quantity  int
	OrderID   string
}

type Order struct {
	ID        string
	CreatedAt time.Time
	Status    Status
	Items     []Item
}

// New builds a confirmed order from the given line items. Item order is
// preserved; each item is stamped with the owning order id.
func New(id string, items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, it := range items {
		if it.ProductID == "" {
			return nil, ErrMissingProduct
		}
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	o := &Order{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Status:    StatusConfirmed,
		Items:     make([]Item, len(items)),
	}
	for i, it := range items {
		it.OrderID = id
		o.Items[i] = it
	}
	return o, nil
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	return &clone
}
