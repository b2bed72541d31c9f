// Package kafka publishes order domain events to a Kafka topic. Messages are keyed by order id,
// so every consumer sees one order's events in the order they were raised.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/propagation"
)

const (
	headerEventName   = "event-name"
	headerTraceparent = "traceparent"

	defaultWriteTimeout = 10 * time.Second
)

var _ ports.EventPublisher = &Publisher{}

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer  messageWriter
	timeout time.Duration
}

// NewPublisher writes to topic on the given brokers, e.g. "kafka:9092,kafka-2:9092".
func NewPublisher(brokers, topic string) (*Publisher, error) {
	addrs := splitBrokers(brokers)
	if len(addrs) == 0 {
		return nil, fmt.Errorf("kafka publisher: no brokers configured")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("kafka publisher: topic is required")
	}

	return newPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}), nil
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{writer: w, timeout: defaultWriteTimeout}
}

// Publish writes all events in one batch. The caller's trace context travels in the
// traceparent header.
func (p *Publisher) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	headers := traceHeaders(ctx)
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", e.EventName(), err)
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(e.AggregateID().String()),
			Value:   value,
			Time:    e.OccurredAt(),
			Headers: append([]kafka.Header{{Key: headerEventName, Value: []byte(e.EventName())}}, headers...),
		})
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write %d messages: %w", len(msgs), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func traceHeaders(ctx context.Context) []kafka.Header {
	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)

	traceparent, ok := carrier[headerTraceparent]
	if !ok {
		return nil
	}
	return []kafka.Header{{Key: headerTraceparent, Value: []byte(traceparent)}}
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
