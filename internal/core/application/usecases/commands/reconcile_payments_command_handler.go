package commands

import (
	"context"
	"errors"
	"fmt"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/payment"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"
)

// ReconcileResult summarizes one reconciliation run.
type ReconcileResult struct {
	Checked   int
	Confirmed int
	Failed    int
}

// ReconcilePaymentsCommandHandler catches confirmations that never reached the service, e.g.
// a closed browser tab or a lost webhook. Captured payments go through the regular
// confirmation routine as the system actor.
type ReconcilePaymentsCommandHandler struct {
	uowFactory UoWFactory
	provider   ports.PaymentProvider
	confirmer  paymentConfirmer
}

func NewReconcilePaymentsCommandHandler(uowFactory UoWFactory, provider ports.PaymentProvider) ReconcilePaymentsCommandHandler {
	return ReconcilePaymentsCommandHandler{
		uowFactory: uowFactory,
		provider:   provider,
		confirmer:  paymentConfirmer{uowFactory: uowFactory, provider: provider},
	}
}

// Handle processes every open record and keeps going past per-record failures; those are
// returned joined.
func (h *ReconcilePaymentsCommandHandler) Handle(ctx context.Context, cmd ReconcilePaymentsCommand) (ReconcileResult, error) {
	var result ReconcileResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	records, err := h.uowFactory.Create().PaymentRepository().ListOpen(ctx, cmd.Now().Add(-cmd.Grace()), cmd.Limit())
	if err != nil {
		return result, err
	}

	var errList []error
	for _, record := range records {
		if ctx.Err() != nil {
			errList = append(errList, ctx.Err())
			break
		}
		result.Checked++

		outcome, err := h.reconcile(ctx, cmd, record)
		if err != nil {
			errList = append(errList, fmt.Errorf("reconcile %s: %w", record.ProviderOrderID(), err))
			continue
		}
		switch outcome {
		case payment.StatusConfirmed:
			result.Confirmed++
		case payment.StatusFailed:
			result.Failed++
		}
	}

	return result, errors.Join(errList...)
}

func (h *ReconcilePaymentsCommandHandler) reconcile(
	ctx context.Context,
	cmd ReconcilePaymentsCommand,
	record *payment.Record,
) (payment.Status, error) {
	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, record.OrderID())
	if err != nil {
		return payment.StatusUnknown, err
	}
	payments, err := h.provider.FetchOrderPayments(ctx, record.ProviderOrderID())
	if err != nil {
		return payment.StatusUnknown, err
	}
	if captured := firstCaptured(payments); captured != nil {
		return h.confirmCaptured(ctx, record, *captured)
	}

	var reason string
	switch {
	case o.Status().IsTerminal():
		reason = "order is " + o.Status().String()
	case record.CreatedAt().After(cmd.Now().Add(-cmd.Expiry())):
		return payment.StatusCreated, nil
	default:
		reason = "expired without a captured payment"
	}

	status, late, err := h.close(ctx, record.ProviderOrderID(), reason, true)
	if err != nil || late == nil {
		return status, err
	}
	return h.confirmCaptured(ctx, record, *late)
}

// confirmCaptured applies a captured payment. A payment that can never be applied, because
// the order is terminal or paid by another record, closes the record so the next run skips it;
// the reason names the payment for the refund.
func (h *ReconcilePaymentsCommandHandler) confirmCaptured(
	ctx context.Context,
	record *payment.Record,
	captured ports.ProviderPayment,
) (payment.Status, error) {
	_, _, err := h.confirmer.confirm(ctx, confirmation{
		actor:           kernel.SystemActor(),
		providerOrderID: record.ProviderOrderID(),
		paymentID:       captured.ID,
		captured:        &captured,
	})
	switch errs.KindOf(err) {
	case "":
		return payment.StatusConfirmed, nil
	case errs.KindAlreadyTerminal, errs.KindPaymentMismatch:
		reason := fmt.Sprintf("captured payment %s cannot be applied: %v", captured.ID, err)
		status, _, closeErr := h.close(ctx, record.ProviderOrderID(), reason, false)
		return status, closeErr
	default:
		return payment.StatusUnknown, err
	}
}

// close fails a still CREATED record under the order lock. With recheck it asks the provider
// once more first and, when a payment was captured meanwhile, returns it instead of failing.
func (h *ReconcilePaymentsCommandHandler) close(
	ctx context.Context,
	providerOrderID, reason string,
	recheck bool,
) (payment.Status, *ports.ProviderPayment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return payment.StatusUnknown, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	payments := uow.PaymentRepository()
	record, err := payments.Get(ctx, providerOrderID)
	if err != nil {
		return payment.StatusUnknown, nil, err
	}
	// lock the order so a confirmation racing this run serializes with it
	if _, err = uow.OrderRepository().GetForUpdate(ctx, record.OrderID()); err != nil {
		return payment.StatusUnknown, nil, err
	}
	if record, err = payments.Get(ctx, providerOrderID); err != nil {
		return payment.StatusUnknown, nil, err
	}
	if record.Status() != payment.StatusCreated {
		return record.Status(), nil, nil
	}

	if recheck {
		latest, err := h.provider.FetchOrderPayments(ctx, providerOrderID)
		if err != nil {
			return payment.StatusUnknown, nil, err
		}
		if captured := firstCaptured(latest); captured != nil {
			return payment.StatusCreated, captured, nil
		}
	}

	if err = record.Fail(reason); err != nil {
		return payment.StatusUnknown, nil, err
	}
	if err = payments.Update(ctx, record); err != nil {
		return payment.StatusUnknown, nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return payment.StatusUnknown, nil, err
	}
	return payment.StatusFailed, nil, nil
}

func firstCaptured(payments []ports.ProviderPayment) *ports.ProviderPayment {
	for i := range payments {
		if payments[i].IsCaptured() {
			return &payments[i]
		}
	}
	return nil
}
