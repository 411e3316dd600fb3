package product

import (
	"errors"
	"testing"
)

func TestDecrementClampsAtZero(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		qty     int
		want    int
	}{
		{"normal decrement", 10, 5, 5},
		{"exact stock", 10, 10, 0},
		{"over stock clamps", 10, 11, 0},
		{"huge decrement clamps", 3, 1 << 30, 0},
		{"zero qty is no-op", 7, 0, 7},
		{"negative qty is no-op", 7, -5, 7},
		{"already zero stays zero", 0, 4, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := New("p1", "widget", "", 9.99, tc.start)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			p.Decrement(tc.qty)
			if p.Quantity != tc.want {
				t.Errorf("quantity = %d, want %d", p.Quantity, tc.want)
			}
			if p.Quantity < 0 {
				t.Errorf("quantity went negative: %d", p.Quantity)
			}
		})
	}
}

func TestDecrementSequenceNeverNegative(t *testing.T) {
	p, err := New("p1", "widget", "", 1, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, qty := range []int{3, 3, 3, 3, 100, 1} {
		p.Decrement(qty)
		if p.Quantity < 0 {
			t.Fatalf("quantity went negative after decrement %d: %d", qty, p.Quantity)
		}
	}
	if p.Quantity != 0 {
		t.Errorf("quantity = %d, want 0", p.Quantity)
	}
}

func TestAvailability(t *testing.T) {
	p, err := New("p1", "widget", "", 1, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ok, current := p.Availability(10); !ok || current != 10 {
		t.Errorf("Availability(10) = %v, %d; want true, 10", ok, current)
	}
	if ok, current := p.Availability(11); ok || current != 10 {
		t.Errorf("Availability(11) = %v, %d; want false, 10", ok, current)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("", "widget", "", 1, 1); !errors.Is(err, ErrMissingID) {
		t.Errorf("missing id: got %v", err)
	}
	if _, err := New("p1", "widget", "", 1, -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("negative quantity: got %v", err)
	}
	if _, err := New("p1", "widget", "", -1, 1); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("negative price: got %v", err)
	}
}
