package commands

import (
	"errors"
	"strings"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"
	"compliance/internal/pkg/guard"
)

var ErrPayOrderCommandIsNotConstructed = errors.New(
	"PayOrderCommand must be created via NewPayOrderCommand constructor",
)

// PayOrderCommand is the order-centric form of a payment confirmation. providerOrderID may be
// empty, in which case the order's open payment record is used.
type PayOrderCommand struct { //nolint:recvcheck //using for validation
	actor           kernel.Actor
	orderID         kernel.UUID
	paymentID       string
	providerOrderID string

	guard guard.ConstructorGuard
}

func NewPayOrderCommand(actor kernel.Actor, orderID kernel.UUID, paymentID, providerOrderID string) (PayOrderCommand, error) {
	paymentID = strings.TrimSpace(paymentID)
	var required error
	if paymentID == "" {
		required = errs.NewValueIsRequiredError("paymentId")
	}
	if err := errors.Join(actor.Validate(), orderID.Validate(), required); err != nil {
		return PayOrderCommand{}, err
	}

	return PayOrderCommand{
		actor:           actor,
		orderID:         orderID,
		paymentID:       paymentID,
		providerOrderID: strings.TrimSpace(providerOrderID),
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c PayOrderCommand) Validate() error {
	return c.guard.Validate(ErrPayOrderCommandIsNotConstructed)
}

func (c PayOrderCommand) Actor() kernel.Actor     { return c.actor }
func (c PayOrderCommand) OrderID() kernel.UUID    { return c.orderID }
func (c PayOrderCommand) PaymentID() string       { return c.paymentID }
func (c PayOrderCommand) ProviderOrderID() string { return c.providerOrderID }
