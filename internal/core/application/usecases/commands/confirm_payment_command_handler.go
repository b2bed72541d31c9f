package commands

import (
	"context"

	"compliance/internal/core/domain/model/payment"
	"compliance/internal/core/ports"
)

// ConfirmPaymentCommandHandler confirms a payment record. A repeat with the same payment id
// returns the confirmed record without changes; webhook deliveries use the same handler with
// the system actor and no signature.
type ConfirmPaymentCommandHandler struct {
	confirmer paymentConfirmer
}

func NewConfirmPaymentCommandHandler(uowFactory UoWFactory, provider ports.PaymentProvider) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{confirmer: paymentConfirmer{uowFactory: uowFactory, provider: provider}}
}

func (h *ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*payment.Record, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	record, _, err := h.confirmer.confirm(ctx, confirmation{
		actor:           cmd.Actor(),
		providerOrderID: cmd.ProviderOrderID(),
		paymentID:       cmd.PaymentID(),
		signature:       cmd.Signature(),
		expectedOrderID: cmd.OrderID(),
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
