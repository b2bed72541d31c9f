package commands

import (
	"context"

	"compliance/internal/core/domain/model/order"
)

// CreateOrderCommandHandler persists new orders in CREATED status.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{uowFactory: uowFactory}
}

// Handle creates the order. Customers may only create orders for their own email.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := policy.CanCreateOrderFor(cmd.Actor(), cmd.CustomerEmail()); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.ServiceName(), cmd.CustomerEmail(), cmd.Total(), now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
