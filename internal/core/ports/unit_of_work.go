package ports

import (
	"context"
)

// UnitOfWorkFactory creates a new UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained after Begin take part in
// the transaction; repositories obtained without Begin read committed state lock-free.
// Domain events of aggregates written through its repositories are published after Commit.
type UnitOfWork interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and publishes collected domain events.
	Commit(ctx context.Context) error

	// Rollback discards the current transaction. It is safe to call after Commit.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	DocumentRepository() DocumentRepository
	PaymentRepository() PaymentRepository
	WorkflowRepository() WorkflowRepository
	EmployeeRepository() EmployeeRepository
}
