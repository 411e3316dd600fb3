package channel

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrQueueClosed = errors.New("channel: queue closed")

// Memory is an in-process queue backed by a buffered Go channel. Receiving
// from the channel removes the message before the handler runs, which makes
// ack-at-receipt the only possible behavior: delivery is at most once by
// construction. It is the default transport for tests and the single-process
// demo.
type Memory struct {
	queue     chan []byte
	closeOnce sync.Once
	log       *zap.Logger
}

func NewMemory(size int, logger *zap.Logger) *Memory {
	if size <= 0 {
		size = 1024
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memory{
		queue: make(chan []byte, size),
		log:   logger.With(zap.String("component", "memory_channel")),
	}
}

func (m *Memory) Publish(ctx context.Context, payload []byte) error {
	msg := append([]byte(nil), payload...)
	select {
	case m.queue <- msg:
		m.log.Debug("message_enqueued", zap.Int("bytes", len(msg)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Memory) Consume(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-m.queue:
			if !ok {
				return ErrQueueClosed
			}
			handler(ctx, payload)
		}
	}
}

// Close releases the queue. Buffered but unconsumed messages are lost, which
// mirrors the non-durable broker this adapter stands in for.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() { close(m.queue) })
	return nil
}

var _ Queue = (*Memory)(nil)
