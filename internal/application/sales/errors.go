package sales

import "fmt"

// ValidationError rejects an order creation attempt, naming the first line
// item that failed the availability check and the quantity known to be on
// hand (zero when the product is unknown).
type ValidationError struct {
	ProductID string
	Current   int
	NotFound  bool
}

func (e *ValidationError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("product %s not found", e.ProductID)
	}
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}
