package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/minicart/fulfillment/internal/domain/order"
	"github.com/minicart/fulfillment/internal/event"
	"github.com/minicart/fulfillment/internal/pkg/logging"
)

const (
	tracerName     = "sales-workflow"
	publishTimeout = 300 * time.Millisecond
)

type ItemInput struct {
	ProductID string
	Quantity  int
}

type CreateOrderInput struct {
	Items []ItemInput
}

// Workflow orchestrates order fulfillment: validate stock availability
// across the service boundary, commit the order to the ledger, then publish
// the stock change event. Each request walks the states
// validating → committing → publishing → done; validation can terminate in
// a rejection, and nothing after a successful commit can unwind it.
type Workflow struct {
	ledger    order.Repository
	stock     AvailabilityChecker
	publisher Publisher

	log             *zap.Logger
	publishFailures prometheus.Counter
}

func NewWorkflow(ledger order.Repository, stock AvailabilityChecker, publisher Publisher, logger *zap.Logger, publishFailures prometheus.Counter) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		ledger:          ledger,
		stock:           stock,
		publisher:       publisher,
		log:             logger.With(zap.String("component", "fulfillment_workflow")),
		publishFailures: publishFailures,
	}
}

// CreateOrder runs the fulfillment workflow for one order creation request.
// Items are checked strictly in request order; the first unknown or
// insufficient item rejects the whole attempt. Availability is not a
// reservation: concurrent requests for the same product are not coordinated,
// so both may pass validation against the same stock (the reconciler's
// clamped decrement is the only backstop).
func (w *Workflow) CreateOrder(ctx context.Context, in CreateOrderInput) (_ *order.Order, err error) {
	logger := logging.FromContext(ctx).With(zap.String("use_case", "sales.create_order"))

	ctx, span := otel.Tracer(tracerName).Start(ctx, "CreateOrder",
		trace.WithAttributes(attribute.Int("order.item_count", len(in.Items))),
	)
	defer span.End()

	items := make([]order.Item, len(in.Items))
	for i, it := range in.Items {
		items[i] = order.Item{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	// Validating: reject malformed input before any cross-service call.
	entity, err := order.New(uuid.NewString(), items)
	if err != nil {
		span.SetStatus(codes.Error, "rejected")
		return nil, err
	}

	// Validating: advisory availability check, one item at a time, in
	// request order. Aborting on the first failure leaves no state behind:
	// nothing was reserved for the items already checked.
	for _, it := range entity.Items {
		avail, checkErr := w.stock.Check(ctx, it.ProductID, it.Quantity)
		switch {
		case errors.Is(checkErr, ErrProductNotFound):
			span.SetStatus(codes.Error, "rejected")
			return nil, &ValidationError{ProductID: it.ProductID, Current: 0, NotFound: true}
		case checkErr != nil:
			span.RecordError(checkErr)
			span.SetStatus(codes.Error, "upstream unavailable")
			return nil, checkErr
		case !avail.Available:
			span.SetStatus(codes.Error, "rejected")
			return nil, &ValidationError{ProductID: it.ProductID, Current: avail.Current}
		}
	}

	// Committing: atomic within the ledger only.
	if err := w.ledger.Insert(ctx, entity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return nil, fmt.Errorf("sales: commit order: %w", err)
	}
	span.AddEvent("order.committed", trace.WithAttributes(attribute.String("order.id", entity.ID)))

	// Publishing: fire and forget. A failure here is logged and counted but
	// never unwinds the commit and never reaches the caller; the ledger and
	// the stock state are allowed to diverge.
	w.publishStockChange(ctx, logger, entity)

	logger.Info("order_created",
		zap.String("order_id", entity.ID),
		zap.Int("items", len(entity.Items)),
	)
	return entity, nil
}

func (w *Workflow) publishStockChange(ctx context.Context, logger *zap.Logger, o *order.Order) {
	changes := make([]event.ItemChange, len(o.Items))
	for i, it := range o.Items {
		changes[i] = event.ItemChange{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	ev := event.NewStockChange(changes)

	payload, err := ev.Encode()
	if err != nil {
		w.countPublishFailure()
		logger.Error("stock_event_encode_failed",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := w.publisher.Publish(pubCtx, payload); err != nil {
		w.countPublishFailure()
		logger.Error("stock_event_publish_failed",
			zap.String("order_id", o.ID),
			zap.String("event_id", ev.EventID),
			zap.Error(err),
		)
		return
	}

	logger.Info("stock_event_published",
		zap.String("order_id", o.ID),
		zap.String("event_id", ev.EventID),
	)
}

func (w *Workflow) countPublishFailure() {
	if w.publishFailures != nil {
		w.publishFailures.Inc()
	}
}

// GetOrder returns a committed order from the ledger.
func (w *Workflow) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	return w.ledger.Get(ctx, id)
}

// ListOrders returns all committed orders, most recent first.
func (w *Workflow) ListOrders(ctx context.Context) ([]*order.Order, error) {
	return w.ledger.List(ctx)
}
