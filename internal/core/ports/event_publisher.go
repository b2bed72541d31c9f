package ports

import (
	"context"

	"compliance/internal/core/domain/model/kernel"
)

// EventPublisher delivers domain events after their transaction committed.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.DomainEvent) error
}
