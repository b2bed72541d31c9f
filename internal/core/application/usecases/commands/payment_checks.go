package commands

import (
	"context"
	"fmt"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/pkg/errs"
)

// ensurePayable checks that the order is ready to be paid: not terminal, documents verified,
// no confirmed payment yet.
func ensurePayable(ctx context.Context, uow UoW, o *order.Order) error {
	if err := o.EnsureNotTerminal(); err != nil {
		return err
	}
	if o.Status() != order.DocumentsVerified {
		return errs.NewInvalidStateError(
			"order "+o.ID().String(),
			fmt.Sprintf("payment requires %s, order is %s", order.DocumentsVerified, o.Status()),
		)
	}

	docs, err := uow.DocumentRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return err
	}
	if _, allVerified := document.Summarize(docs); !allVerified {
		return errs.NewInvalidStateError("order "+o.ID().String(), "not every document is verified")
	}

	confirmed, err := uow.PaymentRepository().FindConfirmed(ctx, o.ID())
	if err != nil {
		return err
	}
	if confirmed != nil {
		return errs.NewPaymentMismatchError("orderId", "an unpaid order", "order paid by "+confirmed.ProviderOrderID())
	}
	return nil
}

// ensureAmountMatches compares minor units and currency against the order total.
func ensureAmountMatches(o *order.Order, amount int64, currency string) error {
	total := o.TotalAmount()
	if currency != total.Currency() {
		return errs.NewPaymentMismatchError("currency", total.Currency(), currency)
	}
	if amount != total.MinorUnits() {
		return errs.NewPaymentMismatchError("amount", total.MinorUnits(), amount)
	}
	return nil
}
