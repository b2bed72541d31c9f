// Package ports defines the contracts between the application core and its adapters:
// repositories and the unit of work for persistence, plus the blob store, payment provider,
// event publisher and invoice renderer.
package ports

import (
	"context"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
)

// OrderFilter narrows List. A zero filter matches every order.
type OrderFilter struct {
	CustomerEmail string
}

// OrderRepository persists Order aggregates.
type OrderRepository interface {
	// Add persists a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get reads an order without locking. Returns ObjectNotFoundError when absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate reads an order and takes its row lock for the rest of the transaction.
	// Every mutation of an order and of the records keyed by it starts here, which
	// linearizes concurrent writers of the same order.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns matching orders, newest first.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
