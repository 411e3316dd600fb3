// Package channel provides the message channel connecting the sales and
// inventory services: a single named, non-durable queue with at-most-once
// delivery.
package channel

import "context"

// Handler processes one delivered message. By the time the handler runs the
// message is already acknowledged; a crash or failure inside the handler
// permanently loses it. Handlers therefore return nothing; there is no
// redelivery to negotiate.
type Handler func(ctx context.Context, payload []byte)

// Queue is the transport port between the event publisher and the stock
// reconciler. FIFO holds for a single producer/consumer pair; no ordering is
// guaranteed once multiple producers or consumers are introduced.
type Queue interface {
	// Publish enqueues a payload. Failure means the message was never
	// accepted; callers decide whether that is fatal (for the fulfillment
	// workflow it is logged and ignored).
	Publish(ctx context.Context, payload []byte) error
	// Consume delivers messages one at a time to handler until ctx is done.
	// It blocks; run it in its own goroutine.
	Consume(ctx context.Context, handler Handler) error
}
