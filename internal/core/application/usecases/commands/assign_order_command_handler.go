package commands

import (
	"context"

	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/model/workflow"
)

// AssignOrderCommandHandler assigns or re-assigns an order. Every change of assignee is kept
// as an ASSIGNED timeline event; the first assignment also moves the order to ASSIGNED.
type AssignOrderCommandHandler struct {
	uowFactory UoWFactory
}

func NewAssignOrderCommandHandler(uowFactory UoWFactory) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{uowFactory: uowFactory}
}

func (h *AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := policy.CanAssignOrders(cmd.Actor()); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := lockOrder(ctx, uow, cmd.Actor(), cmd.OrderID())
	if err != nil {
		return nil, err
	}
	emp, err := uow.EmployeeRepository().Get(ctx, cmd.Assignee())
	if err != nil {
		return nil, err
	}

	at := now()
	changed, previous, err := assigner.Assign(o, emp, at)
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}

	err = uow.WorkflowRepository().Append(ctx,
		workflow.NewAssignedEvent(o.ID(), emp.Email().String(), previous, cmd.Actor().Email(), at))
	if err != nil {
		return nil, err
	}
	if _, err = recomputeStatus(ctx, uow, o, cmd.Actor(), at); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
