package commands

import (
	"context"

	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/model/payment"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"
)

type PayOrderCommandHandler struct {
	uowFactory UoWFactory
	confirmer  paymentConfirmer
}

func NewPayOrderCommandHandler(uowFactory UoWFactory, provider ports.PaymentProvider) PayOrderCommandHandler {
	return PayOrderCommandHandler{
		uowFactory: uowFactory,
		confirmer:  paymentConfirmer{uowFactory: uowFactory, provider: provider},
	}
}

// Handle confirms the payment and returns the order as it stands afterwards.
func (h *PayOrderCommandHandler) Handle(ctx context.Context, cmd PayOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	providerOrderID := cmd.ProviderOrderID()
	if providerOrderID == "" {
		resolved, err := h.resolveRecord(ctx, cmd)
		if err != nil {
			return nil, err
		}
		providerOrderID = resolved
	}

	orderID := cmd.OrderID()
	_, o, err := h.confirmer.confirm(ctx, confirmation{
		actor:           cmd.Actor(),
		providerOrderID: providerOrderID,
		paymentID:       cmd.PaymentID(),
		expectedOrderID: &orderID,
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// resolveRecord picks the order's confirmed record, so repeats stay idempotent, or else its
// newest CREATED record.
func (h *PayOrderCommandHandler) resolveRecord(ctx context.Context, cmd PayOrderCommand) (string, error) {
	reader := h.uowFactory.Create()
	o, err := reader.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}
	if err = policy.CanAccessOrder(cmd.Actor(), o); err != nil {
		return "", err
	}

	records, err := reader.PaymentRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return "", err
	}
	var open *payment.Record
	for _, r := range records {
		if r.IsConfirmed() {
			return r.ProviderOrderID(), nil
		}
		if open == nil && r.Status() == payment.StatusCreated {
			open = r
		}
	}
	if open == nil {
		return "", errs.NewInvalidStateError("order "+o.ID().String(), "no payment order has been created")
	}
	return open.ProviderOrderID(), nil
}
