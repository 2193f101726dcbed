// Package events publishes order status changes to Kafka. Publishing is
// best effort: a broker failure is logged and never fails the operation
// that produced the event.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/neecogreen/checkout-service/internal/config"
	"github.com/neecogreen/checkout-service/internal/entities"

	"github.com/segmentio/kafka-go"
)

type StatusEvent struct {
	OrderID    string               `json:"order_id"`
	Waybill    string               `json:"waybill,omitempty"`
	Status     entities.OrderStatus `json:"status"`
	OccurredAt time.Time            `json:"occurred_at"`
}

type Publisher struct {
	logger *slog.Logger
	writer *kafka.Writer
	topic  string
}

// NewPublisher returns a disabled publisher when no brokers are configured.
func NewPublisher(logger *slog.Logger, cfg config.Kafka) *Publisher {
	p := &Publisher{
		logger: logger.With(slog.String("component", "events")),
		topic:  cfg.Topic,
	}

	if len(cfg.Brokers) == 0 {
		return p
	}

	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: cfg.BatchTimeout,
	}
	return p
}

func (p *Publisher) PublishStatusChange(ctx context.Context, ev StatusEvent) {
	if p.writer == nil {
		return
	}

	value, err := json.Marshal(ev)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal status event", slog.Any("error", err))
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: value,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish status event",
			slog.Any("error", err), slog.String("order_id", ev.OrderID))
	}
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
