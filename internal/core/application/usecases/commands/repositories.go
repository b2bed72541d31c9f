// Package commands contains the operations that modify an order, its documents, its payment
// records, its workflow and the employee registry.
//
// Every handler follows the same shape: validate the command, check the actor's capability,
// do blob and provider I/O outside the transaction, then lock the order row, re-check the
// state, write, recompute the order status and commit.
package commands

import (
	"context"

	"compliance/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DocumentRepoFactory interface {
		DocumentRepository() ports.DocumentRepository
	}

	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	WorkflowRepoFactory interface {
		WorkflowRepository() ports.WorkflowRepository
	}

	EmployeeRepoFactory interface {
		EmployeeRepository() ports.EmployeeRepository
	}

	// OrderUoW manages transactions for operations touching only the orders table.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// EmployeeUoW manages transactions for the employee registry.
	EmployeeUoW interface {
		TxManager
		EmployeeRepoFactory
	}

	EmployeeUoWFactory interface {
		Create() EmployeeUoW
	}

	// UoW spans an order and every record keyed by it. Status recomputation needs all of them.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   // ... mutate, recompute
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		DocumentRepoFactory
		PaymentRepoFactory
		WorkflowRepoFactory
		EmployeeRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
