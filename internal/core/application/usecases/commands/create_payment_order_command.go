package commands

import (
	"errors"
	"fmt"
	"strings"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"
	"compliance/internal/pkg/guard"
)

var ErrCreatePaymentOrderCommandIsNotConstructed = errors.New(
	"CreatePaymentOrderCommand must be created via NewCreatePaymentOrderCommand constructor",
)

// CreatePaymentOrderCommand opens a checkout at the payment provider for an order.
// Amount is in minor units of currency.
type CreatePaymentOrderCommand struct { //nolint:recvcheck //using for validation
	actor       kernel.Actor
	orderID     kernel.UUID
	amount      int64
	currency    string
	description string

	guard guard.ConstructorGuard
}

// NewCreatePaymentOrderCommand validates the request. An empty currency means the order's
// currency.
func NewCreatePaymentOrderCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	amount int64,
	currency, description string,
) (CreatePaymentOrderCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return CreatePaymentOrderCommand{}, err
	}
	if amount <= 0 {
		return CreatePaymentOrderCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"amount", fmt.Errorf("%d is not greater than 0", amount),
		)
	}
	if currency = strings.TrimSpace(currency); currency != "" {
		code, err := kernel.NormalizeCurrency(currency)
		if err != nil {
			return CreatePaymentOrderCommand{}, err
		}
		currency = code
	}

	return CreatePaymentOrderCommand{
		actor:       actor,
		orderID:     orderID,
		amount:      amount,
		currency:    currency,
		description: strings.TrimSpace(description),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CreatePaymentOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreatePaymentOrderCommandIsNotConstructed)
}

func (c CreatePaymentOrderCommand) Actor() kernel.Actor  { return c.actor }
func (c CreatePaymentOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c CreatePaymentOrderCommand) Amount() int64        { return c.amount }
func (c CreatePaymentOrderCommand) Currency() string     { return c.currency }
func (c CreatePaymentOrderCommand) Description() string  { return c.description }
