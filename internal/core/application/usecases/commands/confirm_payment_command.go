package commands

import (
	"errors"
	"strings"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"
	"compliance/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand reports a completed checkout.
type ConfirmPaymentCommand struct { //nolint:recvcheck //using for validation
	actor           kernel.Actor
	providerOrderID string
	paymentID       string
	signature       string
	orderID         *kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmPaymentCommand validates the request. signature and orderID are optional; a nil
// orderID skips the ownership check.
func NewConfirmPaymentCommand(
	actor kernel.Actor,
	providerOrderID, paymentID, signature string,
	orderID *kernel.UUID,
) (ConfirmPaymentCommand, error) {
	cmd := ConfirmPaymentCommand{
		actor:           actor,
		providerOrderID: strings.TrimSpace(providerOrderID),
		paymentID:       strings.TrimSpace(paymentID),
		signature:       strings.TrimSpace(signature),
		guard:           guard.NewConstructorGuard(),
	}

	var errList []error
	errList = append(errList, actor.Validate())
	if cmd.providerOrderID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("providerOrderId"))
	}
	if cmd.paymentID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("paymentId"))
	}
	if orderID != nil {
		errList = append(errList, orderID.Validate())
		id := *orderID
		cmd.orderID = &id
	}
	if err := errors.Join(errList...); err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return cmd, nil
}

func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

func (c ConfirmPaymentCommand) Actor() kernel.Actor     { return c.actor }
func (c ConfirmPaymentCommand) ProviderOrderID() string { return c.providerOrderID }
func (c ConfirmPaymentCommand) PaymentID() string       { return c.paymentID }
func (c ConfirmPaymentCommand) Signature() string       { return c.signature }
func (c ConfirmPaymentCommand) OrderID() *kernel.UUID   { return c.orderID }
