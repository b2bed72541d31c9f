package commands

import (
	"context"
	"fmt"

	"compliance/internal/core/domain/model/payment"
	"compliance/internal/core/ports"
)

// CreatePaymentOrderCommandHandler registers a provider order and records it as CREATED.
// The provider call happens between two checks of the order: a lock-free one that rejects
// early, and one under the order lock before the record is written.
type CreatePaymentOrderCommandHandler struct {
	uowFactory UoWFactory
	provider   ports.PaymentProvider
}

func NewCreatePaymentOrderCommandHandler(
	uowFactory UoWFactory,
	provider ports.PaymentProvider,
) CreatePaymentOrderCommandHandler {
	return CreatePaymentOrderCommandHandler{uowFactory: uowFactory, provider: provider}
}

func (h *CreatePaymentOrderCommandHandler) Handle(ctx context.Context, cmd CreatePaymentOrderCommand) (*payment.Record, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	reader := h.uowFactory.Create()
	current, err := reader.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = policy.CanAccessOrder(cmd.Actor(), current); err != nil {
		return nil, err
	}
	currency := cmd.Currency()
	if currency == "" {
		currency = current.TotalAmount().Currency()
	}
	if err = ensurePayable(ctx, reader, current); err != nil {
		return nil, err
	}
	if err = ensureAmountMatches(current, cmd.Amount(), currency); err != nil {
		return nil, err
	}

	providerOrder, err := h.provider.CreateOrder(ctx, cmd.Amount(), currency, current.ID().String())
	if err != nil {
		return nil, fmt.Errorf("create provider order: %w", err)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := lockOrder(ctx, uow, cmd.Actor(), cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = ensurePayable(ctx, uow, o); err != nil {
		return nil, err
	}
	// the provider's amount is authoritative from here on
	if err = ensureAmountMatches(o, providerOrder.Amount, currency); err != nil {
		return nil, err
	}

	record, err := payment.NewRecord(providerOrder.ID, o.ID(), providerOrder.Amount, currency, cmd.Description(), now())
	if err != nil {
		return nil, err
	}
	if err = uow.PaymentRepository().Add(ctx, record); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return record, nil
}
