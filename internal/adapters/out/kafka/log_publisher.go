package kafka

import (
	"context"
	"log/slog"

	"compliance/internal/core/domain/model/kernel"
)

// LogPublisher stands in for Kafka when no brokers are configured. It writes one log line per
// event.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With("component", "event-log")}
}

func (p *LogPublisher) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	for _, e := range events {
		p.logger.InfoContext(ctx, "domain event",
			"event", e.EventName(),
			"order_id", e.AggregateID().String(),
			"event_id", e.EventID().String(),
			"occurred_at", e.OccurredAt(),
		)
	}
	return nil
}
