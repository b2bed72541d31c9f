package commands_test

import (
	"sync"
	"testing"

	"compliance/internal/core/application/usecases/commands"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/model/payment"
	"compliance/internal/core/domain/model/workflow"
	"compliance/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timelineOf(t *testing.T, f *fixture, orderID kernel.UUID) []*workflow.Event {
	t.Helper()
	events, err := f.store.Create().WorkflowRepository().Timeline(t.Context(), orderID)
	require.NoError(t, err)
	return events
}

func statusChanges(events []*workflow.Event) []string {
	var out []string
	for _, e := range events {
		if e.Kind() == workflow.KindStatusChanged {
			out = append(out, e.Details())
		}
	}
	return out
}

func TestLifecycle_ScenarioA(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	o := f.newOrder("499.00")
	assert.Equal(t, order.Created, o.Status())

	doc := f.uploadDocument(o.ID())
	assert.Equal(t, order.DocumentsPending, f.reload(o.ID()).Status())

	_, err := f.verifyAs(f.employee, o.ID(), doc.ID())
	require.NoError(t, err)
	assert.Equal(t, order.DocumentsVerified, f.reload(o.ID()).Status())

	record, err := f.createPaymentOrder(o.ID(), 49900)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCreated, record.Status())
	assert.Equal(t, int64(49900), record.Amount())

	paymentID, signature, err := f.provider.Capture(record.ProviderOrderID())
	require.NoError(t, err)
	orderID := o.ID()
	confirmed, err := f.confirm(record.ProviderOrderID(), paymentID, signature, &orderID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusConfirmed, confirmed.Status())
	assert.Equal(t, order.PaymentCompleted, f.reload(o.ID()).Status())

	pipeline, err := f.store.Create().WorkflowRepository().FindPipeline(ctx, o.ID())
	require.NoError(t, err)
	require.NotNil(t, pipeline)
	current, ok := pipeline.Current()
	require.True(t, ok)
	assert.Equal(t, workflow.ApplicationReceived, current)

	f.registerEmp("emp@x.com")
	assigned, err := f.assignTo(o.ID(), "emp@x.com")
	require.NoError(t, err)
	assert.Equal(t, order.Assigned, assigned.Status())
	require.NotNil(t, assigned.Assignee())
	assert.Equal(t, "emp@x.com", assigned.Assignee().String())
	assert.Equal(t, order.Assigned, f.reload(o.ID()).Status())

	events := timelineOf(t, f, o.ID())
	assert.Len(t, statusChanges(events), 4)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].CreatedAt().Before(events[i-1].CreatedAt()))
	}
}

func TestLifecycle_ScenarioB_AdvanceSkippingAStageIsIllegal(t *testing.T) {
	f := newFixture(t)
	o := f.paidOrder()

	cmd, err := commands.NewAdvanceStageCommand(f.employee, o.ID(), "PROC", "skip ahead")
	require.NoError(t, err)
	_, err = f.advanceStage.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrIllegalTransition)
	assert.Equal(t, errs.KindIllegalTransition, errs.KindOf(err))
}

func TestLifecycle_ScenarioC_ConfirmWithAnotherOrdersRecord(t *testing.T) {
	f := newFixture(t)

	first := f.verifiedOrder()
	second := f.verifiedOrder()
	record, err := f.createPaymentOrder(second.ID(), 49900)
	require.NoError(t, err)
	paymentID, signature, err := f.provider.Capture(record.ProviderOrderID())
	require.NoError(t, err)

	firstID := first.ID()
	_, err = f.confirm(record.ProviderOrderID(), paymentID, signature, &firstID)
	require.ErrorIs(t, err, errs.ErrPaymentMismatch)

	assert.Equal(t, order.DocumentsVerified, f.reload(first.ID()).Status())
	assert.Equal(t, order.DocumentsVerified, f.reload(second.ID()).Status())
}

func TestRecompute_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	o := f.verifiedOrder()
	before := timelineOf(t, f, o.ID())
	version := f.reload(o.ID()).Version()

	// verifying again neither changes status nor appends events
	docs, err := f.store.Create().DocumentRepository().ListByOrder(t.Context(), o.ID())
	require.NoError(t, err)
	_, err = f.verifyAs(f.employee, o.ID(), docs[0].ID())
	require.NoError(t, err)

	assert.Len(t, timelineOf(t, f, o.ID()), len(before))
	assert.Equal(t, version, f.reload(o.ID()).Version())
}

func TestRecompute_SecondUnverifiedDocumentDoesNotMoveBackwards(t *testing.T) {
	f := newFixture(t)
	o := f.verifiedOrder()

	_, err := f.uploadAs(f.customer, o.ID(), "aadhaar.pdf", "second")
	require.NoError(t, err)
	assert.Equal(t, order.DocumentsVerified, f.reload(o.ID()).Status())

	// but payment is refused until every document is verified
	_, err = f.createPaymentOrder(o.ID(), 49900)
	require.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestPayment_ConfirmRejectsDocumentUploadedAfterPaymentOrder(t *testing.T) {
	// Arrange
	f := newFixture(t)
	o := f.verifiedOrder()
	record, err := f.createPaymentOrder(o.ID(), 49900)
	require.NoError(t, err)
	late, err := f.uploadAs(f.customer, o.ID(), "late.pdf", "%PDF-1.4 late")
	require.NoError(t, err)
	paymentID, signature, err := f.provider.Capture(record.ProviderOrderID())
	require.NoError(t, err)

	// Act
	_, err = f.confirm(record.ProviderOrderID(), paymentID, signature, nil)

	// Assert
	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, order.DocumentsVerified, f.reload(o.ID()).Status())
	stored, err := f.store.Create().PaymentRepository().Get(t.Context(), record.ProviderOrderID())
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCreated, stored.Status())

	// verifying the late document lets the same capture through
	_, err = f.verifyAs(f.employee, o.ID(), late.ID())
	require.NoError(t, err)
	_, err = f.confirm(record.ProviderOrderID(), paymentID, signature, nil)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentCompleted, f.reload(o.ID()).Status())
}

func TestPayment_ConfirmIsIdempotent(t *testing.T) {
	f := newFixture(t)
	o := f.verifiedOrder()
	record, err := f.createPaymentOrder(o.ID(), 49900)
	require.NoError(t, err)
	paymentID, signature, err := f.provider.Capture(record.ProviderOrderID())
	require.NoError(t, err)

	_, err = f.confirm(record.ProviderOrderID(), paymentID, signature, nil)
	require.NoError(t, err)
	events := len(timelineOf(t, f, o.ID()))

	again, err := f.confirm(record.ProviderOrderID(), paymentID, signature, nil)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusConfirmed, again.Status())
	assert.Equal(t, paymentID, again.PaymentID())
	assert.Len(t, timelineOf(t, f, o.ID()), events)

	_, err = f.confirm(record.ProviderOrderID(), "pay_other", "", nil)
	require.ErrorIs(t, err, errs.ErrPaymentMismatch)
}

func TestPayment_ConcurrentConfirmationsConfirmOnce(t *testing.T) {
	f := newFixture(t)
	o := f.verifiedOrder()
	record, err := f.createPaymentOrder(o.ID(), 49900)
	require.NoError(t, err)
	paymentID, signature, err := f.provider.Capture(record.ProviderOrderID())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errCh := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.confirm(record.ProviderOrderID(), paymentID, signature, nil)
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	changes := statusChanges(timelineOf(t, f, o.ID()))
	assert.Equal(t, "DOCUMENTS_VERIFIED -> PAYMENT_COMPLETED", changes[len(changes)-1])
	assert.Len(t, changes, 3)
}

func TestPayment_AmountMustMatchOrderTotal(t *testing.T) {
	f := newFixture(t)
	o := f.verifiedOrder()

	_, err := f.createPaymentOrder(o.ID(), 49800)
	require.ErrorIs(t, err, errs.ErrPaymentMismatch)
}

func TestPayment_InvalidSignatureIsRejected(t *testing.T) {
	f := newFixture(t)
	o := f.verifiedOrder()
	record, err := f.createPaymentOrder(o.ID(), 49900)
	require.NoError(t, err)
	paymentID, _, err := f.provider.Capture(record.ProviderOrderID())
	require.NoError(t, err)

	_, err = f.confirm(record.ProviderOrderID(), paymentID, "0badc0de", nil)
	require.ErrorIs(t, err, errs.ErrPaymentMismatch)
	assert.Equal(t, order.DocumentsVerified, f.reload(o.ID()).Status())
}

func TestPayment_UncapturedPaymentIsNotConfirmed(t *testing.T) {
	f := newFixture(t)
	o := f.verifiedOrder()
	record, err := f.createPaymentOrder(o.ID(), 49900)
	require.NoError(t, err)

	_, err = f.confirm(record.ProviderOrderID(), "pay_unknown", "", nil)
	require.Error(t, err)
	stored, err := f.store.Create().PaymentRepository().Get(t.Context(), record.ProviderOrderID())
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCreated, stored.Status())
	assert.Equal(t, order.DocumentsVerified, f.reload(o.ID()).Status())
}

func TestPayOrder_ResolvesOpenRecord(t *testing.T) {
	f := newFixture(t)
	o := f.verifiedOrder()
	record, err := f.createPaymentOrder(o.ID(), 49900)
	require.NoError(t, err)
	paymentID, _, err := f.provider.Capture(record.ProviderOrderID())
	require.NoError(t, err)

	cmd, err := commands.NewPayOrderCommand(f.customer, o.ID(), paymentID, "")
	require.NoError(t, err)
	paid, err := f.payOrder.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentCompleted, paid.Status())

	// repeat resolves the confirmed record and stays idempotent
	again, err := f.payOrder.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentCompleted, again.Status())
}

func TestPayOrder_WithoutPaymentOrderIsInvalidState(t *testing.T) {
	f := newFixture(t)
	o := f.verifiedOrder()

	cmd, err := commands.NewPayOrderCommand(f.customer, o.ID(), "pay_1", "")
	require.NoError(t, err)
	_, err = f.payOrder.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestCancel_OnlyOnce(t *testing.T) {
	f := newFixture(t)
	o := f.newOrder("100.00")

	cmd, err := commands.NewCancelOrderCommand(f.customer, o.ID(), "changed my mind")
	require.NoError(t, err)
	cancelled, err := f.cancelOrder.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, cancelled.Status())

	_, err = f.cancelOrder.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrAlreadyTerminal)

	_, err = f.uploadAs(f.customer, o.ID(), "late.pdf", "late")
	require.ErrorIs(t, err, errs.ErrAlreadyTerminal)
	require.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestCancel_ForeignCustomerIsForbidden(t *testing.T) {
	f := newFixture(t)
	o := f.newOrder("100.00")
	stranger := mustActor(t, "stranger@example.com", kernel.RoleCustomer)

	cmd, err := commands.NewCancelOrderCommand(stranger, o.ID(), "")
	require.NoError(t, err)
	_, err = f.cancelOrder.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, order.Created, f.reload(o.ID()).Status())
}
