package memory

import (
	"context"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/ports"
)

var _ ports.UnitOfWork = &UnitOfWork{}

// UnitOfWork holds the store's writer lock between Begin and Commit or Rollback. Without Begin
// its repositories read the last committed snapshot.
type UnitOfWork struct {
	store   *Store
	tx      *snapshot
	tracked []*order.Order
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTransactionAlreadyStarted
	}
	if err := u.store.lock(ctx); err != nil {
		return err
	}
	u.tx = u.store.committed().clone()
	u.tracked = nil
	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return ErrTransactionNotStarted
	}
	u.store.state.Store(u.tx)
	u.tx = nil
	u.store.unlock()

	u.publishDomainEvents(ctx)
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil {
		return nil
	}
	u.tx = nil
	u.tracked = nil
	u.store.unlock()
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return orderRepository{uow: u}
}

func (u *UnitOfWork) DocumentRepository() ports.DocumentRepository {
	return documentRepository{uow: u}
}

func (u *UnitOfWork) PaymentRepository() ports.PaymentRepository {
	return paymentRepository{uow: u}
}

func (u *UnitOfWork) WorkflowRepository() ports.WorkflowRepository {
	return workflowRepository{uow: u}
}

func (u *UnitOfWork) EmployeeRepository() ports.EmployeeRepository {
	return employeeRepository{uow: u}
}

// view is the snapshot reads go to.
func (u *UnitOfWork) view() *snapshot {
	if u.tx != nil {
		return u.tx
	}
	return u.store.committed()
}

// writable is the snapshot writes go to. Writes need a transaction.
func (u *UnitOfWork) writable() (*snapshot, error) {
	if u.tx == nil {
		return nil, ErrTransactionNotStarted
	}
	return u.tx, nil
}

func (u *UnitOfWork) track(o *order.Order) {
	for _, t := range u.tracked {
		if t == o {
			return
		}
	}
	u.tracked = append(u.tracked, o)
}

func (u *UnitOfWork) publishDomainEvents(ctx context.Context) {
	tracked := u.tracked
	u.tracked = nil

	var events []kernel.DomainEvent
	for _, o := range tracked {
		events = append(events, o.DomainEvents()...)
		o.ClearDomainEvents()
	}
	if len(events) == 0 || u.store.publisher == nil {
		return
	}
	if err := u.store.publisher.Publish(ctx, events...); err != nil {
		u.store.logger.Error("failed to publish domain events", "count", len(events), "error", err)
	}
}
