package ports

import (
	"context"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/payment"
)

// PaymentRepository persists payment records keyed by provider order id.
type PaymentRepository interface {
	Add(ctx context.Context, record *payment.Record) error
	Update(ctx context.Context, record *payment.Record) error

	// Get returns ObjectNotFoundError when no record has the provider order id.
	Get(ctx context.Context, providerOrderID string) (*payment.Record, error)

	// ListByOrder returns the order's records, newest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*payment.Record, error)

	// FindConfirmed returns the order's CONFIRMED record, or nil when there is none.
	FindConfirmed(ctx context.Context, orderID kernel.UUID) (*payment.Record, error)

	// ListOpen returns CREATED records created before the given instant, oldest first.
	ListOpen(ctx context.Context, createdBefore time.Time, limit int) ([]*payment.Record, error)
}
