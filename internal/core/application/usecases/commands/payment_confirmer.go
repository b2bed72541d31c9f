package commands

import (
	"context"
	"errors"
	"fmt"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/model/payment"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"
)

// confirmation is one attempt to mark a payment record CONFIRMED.
type confirmation struct {
	actor           kernel.Actor
	providerOrderID string
	paymentID       string
	// signature is the checkout callback signature; empty when the caller already
	// authenticated the request (webhook, reconciliation).
	signature string
	// expectedOrderID, when set, must own the record.
	expectedOrderID *kernel.UUID
	// captured is the provider's payment when the caller fetched it already.
	captured *ports.ProviderPayment
}

// paymentConfirmer is the one routine every confirmation path goes through: the checkout
// callback, the legacy pay endpoint, the provider webhook and the reconciliation job.
// Provider checks run outside the order lock; the record and the order are re-read and
// re-checked under it. Any provider failure leaves the record CREATED.
type paymentConfirmer struct {
	uowFactory UoWFactory
	provider   ports.PaymentProvider
}

func (c paymentConfirmer) confirm(ctx context.Context, req confirmation) (*payment.Record, *order.Order, error) {
	reader := c.uowFactory.Create()
	record, err := reader.PaymentRepository().Get(ctx, req.providerOrderID)
	if err != nil {
		return nil, nil, err
	}
	if req.expectedOrderID != nil && !record.OrderID().IsEqual(*req.expectedOrderID) {
		return nil, nil, errs.NewPaymentMismatchError("orderId", record.OrderID().String(), req.expectedOrderID.String())
	}
	current, err := reader.OrderRepository().Get(ctx, record.OrderID())
	if err != nil {
		return nil, nil, err
	}
	if err = policy.CanAccessOrder(req.actor, current); err != nil {
		return nil, nil, err
	}
	if duplicate, err := record.CheckDuplicate(req.paymentID); duplicate || err != nil {
		return record, current, err
	}
	if record.Status() == payment.StatusFailed {
		return nil, nil, errs.NewInvalidStateError("payment record "+record.ProviderOrderID(), "record is "+record.Status().String())
	}

	if err = c.checkWithProvider(ctx, record, req); err != nil {
		return nil, nil, err
	}

	return c.apply(ctx, req)
}

func (c paymentConfirmer) checkWithProvider(ctx context.Context, record *payment.Record, req confirmation) error {
	if req.signature != "" && !c.provider.VerifyPaymentSignature(record.ProviderOrderID(), req.paymentID, req.signature) {
		return errs.NewPaymentMismatchError("signature", "a valid checkout signature", "an invalid one")
	}

	var p ports.ProviderPayment
	if req.captured != nil {
		p = *req.captured
	} else {
		fetched, err := c.provider.FetchPayment(ctx, req.paymentID)
		if err != nil {
			if errors.Is(err, ports.ErrProviderUnavailable) {
				return err
			}
			return fmt.Errorf("%w: fetch payment %s: %w", ports.ErrProviderUnavailable, req.paymentID, err)
		}
		p = fetched
	}

	switch {
	case p.ID != req.paymentID:
		return errs.NewPaymentMismatchError("paymentId", req.paymentID, p.ID)
	case p.OrderID != record.ProviderOrderID():
		return errs.NewPaymentMismatchError("providerOrderId", record.ProviderOrderID(), p.OrderID)
	case p.Amount != record.Amount():
		return errs.NewPaymentMismatchError("amount", record.Amount(), p.Amount)
	case p.Currency != record.Currency():
		return errs.NewPaymentMismatchError("currency", record.Currency(), p.Currency)
	case !p.IsCaptured():
		return errs.NewPaymentMismatchError("status", ports.PaymentCaptured, p.Status)
	}
	return nil
}

func (c paymentConfirmer) apply(ctx context.Context, req confirmation) (*payment.Record, *order.Order, error) {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	payments := uow.PaymentRepository()
	record, err := payments.Get(ctx, req.providerOrderID)
	if err != nil {
		return nil, nil, err
	}
	o, err := lockOrder(ctx, uow, req.actor, record.OrderID())
	if err != nil {
		return nil, nil, err
	}
	// re-read under the lock: a concurrent confirmation may have won
	if record, err = payments.Get(ctx, req.providerOrderID); err != nil {
		return nil, nil, err
	}
	if duplicate, err := record.CheckDuplicate(req.paymentID); duplicate || err != nil {
		return record, o, err
	}
	// a document uploaded after the provider order was created reopens verification
	if err = ensurePayable(ctx, uow, o); err != nil {
		return nil, nil, err
	}
	if err = ensureAmountMatches(o, record.Amount(), record.Currency()); err != nil {
		return nil, nil, err
	}

	at := now()
	if _, err = record.Confirm(req.paymentID, at); err != nil {
		return nil, nil, err
	}
	if err = payments.Update(ctx, record); err != nil {
		return nil, nil, err
	}
	if _, err = recomputeStatus(ctx, uow, o, req.actor, at); err != nil {
		return nil, nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return record, o, nil
}
