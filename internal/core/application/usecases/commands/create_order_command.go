package commands

import (
	"errors"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"
	"compliance/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a customer's request for a compliance service.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(actor, kernel.NewUUID(), "GST Registration", "c@x.com",
//	    decimal.RequireFromString("499.00"), "INR")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	orderID       kernel.UUID
	serviceName   string
	customerEmail kernel.Email
	total         kernel.Money

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request. An empty currency falls back to
// kernel.DefaultCurrency.
func NewCreateOrderCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	serviceName, customerEmail string,
	totalAmount decimal.Decimal,
	currency string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		actor:       actor,
		serviceName: serviceName,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		actor.Validate(),
		cmd.setOrderID(orderID),
		cmd.setServiceName(serviceName),
		cmd.setCustomerEmail(customerEmail),
		cmd.setTotal(totalAmount, currency),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() kernel.Actor         { return c.actor }
func (c CreateOrderCommand) OrderID() kernel.UUID        { return c.orderID }
func (c CreateOrderCommand) ServiceName() string         { return c.serviceName }
func (c CreateOrderCommand) CustomerEmail() kernel.Email { return c.customerEmail }
func (c CreateOrderCommand) Total() kernel.Money         { return c.total }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setServiceName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("serviceName")
	}
	c.serviceName = name
	return nil
}

func (c *CreateOrderCommand) setCustomerEmail(email string) error {
	parsed, err := kernel.NewEmail(email)
	if err != nil {
		return err
	}
	c.customerEmail = parsed
	return nil
}

func (c *CreateOrderCommand) setTotal(amount decimal.Decimal, currency string) error {
	if currency == "" {
		currency = kernel.DefaultCurrency
	}
	total, err := kernel.NewMoney(amount, currency)
	if err != nil {
		return err
	}
	if !total.IsPositive() {
		return errs.NewValueIsInvalidError("totalAmount must be greater than 0")
	}
	c.total = total
	return nil
}
