package sales

import (
	"context"
	"errors"
)

// Availability is the inventory service's answer to a stock query: advisory
// only, valid at the instant of the check. No hold is taken.
type Availability struct {
	Available bool
	Current   int
}

var (
	// ErrProductNotFound reports that the inventory service does not know
	// the product.
	ErrProductNotFound = errors.New("sales: product not found")
	// ErrUpstreamUnavailable reports that the availability check itself
	// could not be completed.
	ErrUpstreamUnavailable = errors.New("sales: inventory service unavailable")
)

// AvailabilityChecker is the synchronous cross-service stock query used
// during order validation.
type AvailabilityChecker interface {
	Check(ctx context.Context, productID string, qty int) (Availability, error)
}

// Publisher hands a stock change payload to the message channel.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}
