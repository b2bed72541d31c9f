package commands

import (
	"context"

	"compliance/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels orders. A second cancellation fails with AlreadyTerminal.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
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

	at := now()
	if err = o.Cancel(cmd.Reason(), at); err != nil {
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
