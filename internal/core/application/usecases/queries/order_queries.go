// Package queries contains the read operations of the order service. Handlers read committed
// state without taking locks and check the actor's capability before returning anything.
package queries

import (
	"context"
	"errors"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/services"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/guard"
)

var ErrOrderQueryIsNotConstructed = errors.New(
	"order query must be created via its constructor",
)

var policy = services.NewAccessPolicy()

// orderRef addresses one order on behalf of an actor.
type orderRef struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func newOrderRef(actor kernel.Actor, orderID kernel.UUID) (orderRef, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return orderRef{}, err
	}
	return orderRef{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (r orderRef) Validate() error {
	return r.guard.Validate(ErrOrderQueryIsNotConstructed)
}

func (r orderRef) Actor() kernel.Actor  { return r.actor }
func (r orderRef) OrderID() kernel.UUID { return r.orderID }

// readOrder loads the order and checks the actor may see it.
func readOrder(ctx context.Context, uow ports.UnitOfWork, ref orderRef) (*order.Order, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	o, err := uow.OrderRepository().Get(ctx, ref.OrderID())
	if err != nil {
		return nil, err
	}
	if err = policy.CanAccessOrder(ref.Actor(), o); err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrderQuery reads one order.
//
// Example:
//
//	query, err := NewGetOrderQuery(actor, orderID)
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderRef
}

func NewGetOrderQuery(actor kernel.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	ref, err := newOrderRef(actor, orderID)
	if err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderRef: ref}, nil
}

type GetOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetOrderQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{uowFactory: uowFactory}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	return readOrder(ctx, h.uowFactory.Create(), query.orderRef)
}

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists orders of one customer, or every order when CustomerEmail is empty.
// Customers always see only their own orders; listing everything is for admins.
type ListOrdersQuery struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	customerEmail string

	guard guard.ConstructorGuard
}

// NewListOrdersQuery validates the filter. A customer without a filter lists their own orders.
func NewListOrdersQuery(actor kernel.Actor, customerEmail string) (ListOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	if customerEmail != "" {
		email, err := kernel.NewEmail(customerEmail)
		if err != nil {
			return ListOrdersQuery{}, err
		}
		customerEmail = email.String()
	} else if actor.IsCustomer() {
		customerEmail = actor.Email()
	}

	return ListOrdersQuery{actor: actor, customerEmail: customerEmail, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Actor() kernel.Actor   { return q.actor }
func (q ListOrdersQuery) CustomerEmail() string { return q.customerEmail }

type ListOrdersQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListOrdersQueryHandler(uowFactory ports.UnitOfWorkFactory) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{uowFactory: uowFactory}
}

// Handle returns the matching orders, newest first.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := policy.CanListOrders(query.Actor(), query.CustomerEmail()); err != nil {
		return nil, err
	}

	return h.uowFactory.Create().OrderRepository().List(ctx, ports.OrderFilter{CustomerEmail: query.CustomerEmail()})
}
