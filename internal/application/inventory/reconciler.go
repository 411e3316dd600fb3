package inventory

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/minicart/fulfillment/internal/channel"
	"github.com/minicart/fulfillment/internal/domain/product"
	"github.com/minicart/fulfillment/internal/event"
)

const tracerName = "stock-reconciler"

// Reconciler consumes stock change events from the message channel and
// applies the decrements to the stock store. Messages are acknowledged at
// receipt, so everything here is best effort: a malformed message is logged
// and dropped, a missing product is skipped, and a persistence failure
// abandons the rest of the event; there is no redelivery to finish it.
type Reconciler struct {
	queue    channel.Queue
	products product.Repository

	log     *zap.Logger
	applied prometheus.Counter
	dropped prometheus.Counter
}

func NewReconciler(queue channel.Queue, products product.Repository, logger *zap.Logger, applied, dropped prometheus.Counter) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		queue:    queue,
		products: products,
		log:      logger.With(zap.String("component", "stock_reconciler")),
		applied:  applied,
		dropped:  dropped,
	}
}

// Run consumes events until ctx is done. It blocks; run it in its own
// goroutine. An event already received but not fully applied at shutdown is
// permanently lost.
func (r *Reconciler) Run(ctx context.Context) error {
	r.log.Info("reconciler_started")
	err := r.queue.Consume(ctx, r.handle)
	r.log.Info("reconciler_stopped", zap.Error(err))
	return err
}

func (r *Reconciler) handle(ctx context.Context, payload []byte) {
	ev, err := event.DecodeStockChange(payload)
	if err != nil {
		// Malformed payloads are dropped; the next message is unaffected.
		r.countDropped()
		r.log.Warn("stock_event_rejected", zap.Error(err))
		return
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "ApplyStockChange",
		trace.WithAttributes(
			attribute.String("event.id", ev.EventID),
			attribute.Int("event.item_count", len(ev.Items)),
		),
	)
	defer span.End()

	logger := r.log.With(zap.String("event_id", ev.EventID))

	for _, it := range ev.Items {
		p, err := r.products.Get(ctx, it.ProductID)
		if errors.Is(err, product.ErrNotFound) {
			// The product may have been removed after the order was placed;
			// the order itself stays valid, the decrement is simply skipped.
			logger.Debug("stock_item_skipped", zap.String("product_id", it.ProductID))
			continue
		}
		if err != nil {
			span.RecordError(err)
			logger.Error("stock_lookup_failed",
				zap.String("product_id", it.ProductID),
				zap.Error(err),
			)
			// The event is already acknowledged: items applied so far stand,
			// the remainder is lost.
			return
		}

		p.Decrement(it.Quantity)
		if err := r.products.Update(ctx, p); err != nil {
			span.RecordError(err)
			logger.Error("stock_update_failed",
				zap.String("product_id", it.ProductID),
				zap.Error(err),
			)
			return
		}

		logger.Info("stock_decremented",
			zap.String("product_id", it.ProductID),
			zap.Int("decrement", it.Quantity),
			zap.Int("remaining", p.Quantity),
		)
	}

	r.countApplied()
}

func (r *Reconciler) countApplied() {
	if r.applied != nil {
		r.applied.Inc()
	}
}

func (r *Reconciler) countDropped() {
	if r.dropped != nil {
		r.dropped.Inc()
	}
}
