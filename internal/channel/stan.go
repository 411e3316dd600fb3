package channel

import (
	"context"
	"fmt"
	"time"

	stan "github.com/nats-io/stan.go"
	"go.uber.org/zap"
)

const handleTimeout = 5 * time.Second

// Stan carries the queue over NATS Streaming. Subscriptions run without
// manual ack mode, so the server considers a message acknowledged on
// delivery: a consumer crash mid-processing loses that message, matching the
// documented at-most-once contract of the channel.
type Stan struct {
	conn    stan.Conn
	subject string
	group   string
	log     *zap.Logger
}

type StanConfig struct {
	ClusterID string
	ClientID  string
	URL       string
	Subject   string
	// Group names the queue group consumers join; one in-flight consumer per
	// group keeps decrement order aligned with publish order.
	Group string
}

func DialStan(cfg StanConfig, logger *zap.Logger) (*Stan, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("fulfillment-%d", time.Now().UnixNano())
	}
	group := cfg.Group
	if group == "" {
		group = "stock-reconcilers"
	}
	conn, err := stan.Connect(cfg.ClusterID, clientID, stan.NatsURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("channel: stan connect: %w", err)
	}
	return &Stan{
		conn:    conn,
		subject: cfg.Subject,
		group:   group,
		log:     logger.With(zap.String("component", "stan_channel"), zap.String("subject", cfg.Subject)),
	}, nil
}

func (s *Stan) Publish(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.conn.Publish(s.subject, payload); err != nil {
		return fmt.Errorf("channel: stan publish: %w", err)
	}
	return nil
}

func (s *Stan) Consume(ctx context.Context, handler Handler) error {
	sub, err := s.conn.QueueSubscribe(s.subject, s.group, func(m *stan.Msg) {
		hCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handleTimeout)
		defer cancel()
		handler(hCtx, m.Data)
	})
	if err != nil {
		return fmt.Errorf("channel: stan subscribe: %w", err)
	}
	s.log.Info("consumer_started", zap.String("group", s.group))

	<-ctx.Done()
	if err := sub.Close(); err != nil {
		s.log.Warn("subscription_close_failed", zap.Error(err))
	}
	return ctx.Err()
}

func (s *Stan) Close() error {
	return s.conn.Close()
}

var _ Queue = (*Stan)(nil)
