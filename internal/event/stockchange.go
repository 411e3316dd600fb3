// Package event defines the wire schema of messages crossing the stock
// change queue.
package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SchemaVersion is the only stock change schema this build understands.
const SchemaVersion = 1

// ErrSerialization marks a payload that does not deserialize into a valid
// stock change event. Consumers log and drop such messages.
var ErrSerialization = errors.New("event: malformed stock change payload")

type ItemChange struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// StockChange describes quantities to subtract from stock after an order
// commits. It is transient: it exists only on the queue between publish and
// consumption, and is never persisted.
type StockChange struct {
	SchemaVersion int          `json:"schemaVersion"`
	EventID       string       `json:"eventId"`
	Items         []ItemChange `json:"items"`
}

func NewStockChange(items []ItemChange) StockChange {
	return StockChange{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.NewString(),
		Items:         items,
	}
}

func (e StockChange) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeStockChange parses and validates a stock change payload. Unknown
// fields, a missing or unsupported schema version, a missing event id, an
// empty item list, or a non-positive quantity all yield ErrSerialization:
// malformed input is rejected deterministically rather than silently decoded
// into an empty event.
func DecodeStockChange(payload []byte) (StockChange, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()

	var e StockChange
	if err := dec.Decode(&e); err != nil {
		return StockChange{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if dec.More() {
		return StockChange{}, fmt.Errorf("%w: trailing data", ErrSerialization)
	}
	if e.SchemaVersion != SchemaVersion {
		return StockChange{}, fmt.Errorf("%w: unsupported schema version %d", ErrSerialization, e.SchemaVersion)
	}
	if e.EventID == "" {
		return StockChange{}, fmt.Errorf("%w: missing event id", ErrSerialization)
	}
	if len(e.Items) == 0 {
		return StockChange{}, fmt.Errorf("%w: empty item list", ErrSerialization)
	}
	for i, it := range e.Items {
		if it.ProductID == "" {
			return StockChange{}, fmt.Errorf("%w: item %d missing product id", ErrSerialization, i)
		}
		if it.Quantity <= 0 {
			return StockChange{}, fmt.Errorf("%w: item %d has non-positive quantity", ErrSerialization, i)
		}
	}
	return e, nil
}
