package commands_test

import (
	"strings"
	"testing"

	"compliance/internal/adapters/out/blobstore"
	"compliance/internal/adapters/out/memory"
	"compliance/internal/adapters/out/payments"
	"compliance/internal/core/application/usecases/commands"
	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/model/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type storeUoWFactory struct {
	store *memory.Store
}

func (f storeUoWFactory) Create() commands.UoW {
	return f.store.Create()
}

type storeOrderUoWFactory struct {
	store *memory.Store
}

func (f storeOrderUoWFactory) Create() commands.OrderUoW {
	return f.store.Create()
}

type storeEmployeeUoWFactory struct {
	store *memory.Store
}

func (f storeEmployeeUoWFactory) Create() commands.EmployeeUoW {
	return f.store.Create()
}

func mustActor(t *testing.T, email string, role kernel.Role) kernel.Actor {
	t.Helper()
	e, err := kernel.NewEmail(email)
	require.NoError(t, err)
	actor, err := kernel.NewActor(e, role)
	require.NoError(t, err)
	return actor
}

// fixture wires every command handler to one in-memory store, a temporary blob directory
// and the sandbox provider.
type fixture struct {
	t        *testing.T
	store    *memory.Store
	blobs    *blobstore.Filesystem
	provider *payments.Sandbox

	customer kernel.Actor
	employee kernel.Actor
	admin    kernel.Actor

	createOrder      commands.CreateOrderCommandHandler
	cancelOrder      commands.CancelOrderCommandHandler
	upload           commands.UploadDocumentCommandHandler
	replace          commands.ReplaceDocumentCommandHandler
	deleteDocument   commands.DeleteDocumentCommandHandler
	verify           commands.VerifyDocumentCommandHandler
	createPayment    commands.CreatePaymentOrderCommandHandler
	confirmPayment   commands.ConfirmPaymentCommandHandler
	payOrder         commands.PayOrderCommandHandler
	reconcile        commands.ReconcilePaymentsCommandHandler
	assign           commands.AssignOrderCommandHandler
	completeStage    commands.CompleteStageCommandHandler
	advanceStage     commands.AdvanceStageCommandHandler
	registerEmployee commands.RegisterEmployeeCommandHandler
}

const testMaxBytes = 1 << 10

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore(nil)
	blobs, err := blobstore.NewFilesystem(t.TempDir())
	require.NoError(t, err)
	provider, err := payments.NewSandbox("rzp_test_key", "checkout-secret")
	require.NoError(t, err)

	uows := storeUoWFactory{store: store}
	f := &fixture{
		t:        t,
		store:    store,
		blobs:    blobs,
		provider: provider,
		customer: mustActor(t, "customer@example.com", kernel.RoleCustomer),
		employee: mustActor(t, "emp@x.com", kernel.RoleEmployee),
		admin:    mustActor(t, "admin@example.com", kernel.RoleAdmin),

		createOrder:      commands.NewCreateOrderCommandHandler(storeOrderUoWFactory{store: store}),
		cancelOrder:      commands.NewCancelOrderCommandHandler(uows),
		verify:           commands.NewVerifyDocumentCommandHandler(uows),
		createPayment:    commands.NewCreatePaymentOrderCommandHandler(uows, provider),
		confirmPayment:   commands.NewConfirmPaymentCommandHandler(uows, provider),
		payOrder:         commands.NewPayOrderCommandHandler(uows, provider),
		reconcile:        commands.NewReconcilePaymentsCommandHandler(uows, provider),
		assign:           commands.NewAssignOrderCommandHandler(uows),
		completeStage:    commands.NewCompleteStageCommandHandler(uows),
		advanceStage:     commands.NewAdvanceStageCommandHandler(uows),
		registerEmployee: commands.NewRegisterEmployeeCommandHandler(storeEmployeeUoWFactory{store: store}),
	}
	f.upload, err = commands.NewUploadDocumentCommandHandler(uows, blobs, testMaxBytes)
	require.NoError(t, err)
	f.replace, err = commands.NewReplaceDocumentCommandHandler(uows, blobs, testMaxBytes)
	require.NoError(t, err)
	f.deleteDocument, err = commands.NewDeleteDocumentCommandHandler(uows, blobs)
	require.NoError(t, err)

	return f
}

func (f *fixture) newOrder(total string) *order.Order {
	f.t.Helper()
	cmd, err := commands.NewCreateOrderCommand(
		f.customer, kernel.NewUUID(), "GST Registration", f.customer.Email(), decimal.RequireFromString(total), "INR",
	)
	require.NoError(f.t, err)
	o, err := f.createOrder.Handle(f.t.Context(), cmd)
	require.NoError(f.t, err)
	return o
}

func (f *fixture) uploadAs(actor kernel.Actor, orderID kernel.UUID, name, content string) (*document.Document, error) {
	f.t.Helper()
	cmd, err := commands.NewUploadDocumentCommand(actor, orderID, document.File{Name: name}, strings.NewReader(content))
	require.NoError(f.t, err)
	return f.upload.Handle(f.t.Context(), cmd)
}

func (f *fixture) uploadDocument(orderID kernel.UUID) *document.Document {
	f.t.Helper()
	doc, err := f.uploadAs(f.customer, orderID, "pan.pdf", "%PDF-1.4 pan")
	require.NoError(f.t, err)
	return doc
}

func (f *fixture) verifyAs(actor kernel.Actor, orderID, documentID kernel.UUID) (*document.Document, error) {
	f.t.Helper()
	cmd, err := commands.NewVerifyDocumentCommand(actor, orderID, documentID)
	require.NoError(f.t, err)
	return f.verify.Handle(f.t.Context(), cmd)
}

func (f *fixture) createPaymentOrder(orderID kernel.UUID, amount int64) (*payment.Record, error) {
	f.t.Helper()
	cmd, err := commands.NewCreatePaymentOrderCommand(f.customer, orderID, amount, "INR", "GST Registration")
	require.NoError(f.t, err)
	return f.createPayment.Handle(f.t.Context(), cmd)
}

func (f *fixture) confirm(providerOrderID, paymentID, signature string, orderID *kernel.UUID) (*payment.Record, error) {
	f.t.Helper()
	cmd, err := commands.NewConfirmPaymentCommand(f.customer, providerOrderID, paymentID, signature, orderID)
	require.NoError(f.t, err)
	return f.confirmPayment.Handle(f.t.Context(), cmd)
}

func (f *fixture) registerEmp(email string) {
	f.t.Helper()
	cmd, err := commands.NewRegisterEmployeeCommand(f.admin, email, "Employee "+email)
	require.NoError(f.t, err)
	_, err = f.registerEmployee.Handle(f.t.Context(), cmd)
	require.NoError(f.t, err)
}

func (f *fixture) assignTo(orderID kernel.UUID, email string) (*order.Order, error) {
	f.t.Helper()
	cmd, err := commands.NewAssignOrderCommand(f.admin, orderID, email)
	require.NoError(f.t, err)
	return f.assign.Handle(f.t.Context(), cmd)
}

// verifiedOrder returns a DOCUMENTS_VERIFIED order of 499.00 INR.
func (f *fixture) verifiedOrder() *order.Order {
	f.t.Helper()
	o := f.newOrder("499.00")
	doc := f.uploadDocument(o.ID())
	_, err := f.verifyAs(f.employee, o.ID(), doc.ID())
	require.NoError(f.t, err)
	return f.reload(o.ID())
}

// paidOrder returns a PAYMENT_COMPLETED order.
func (f *fixture) paidOrder() *order.Order {
	f.t.Helper()
	o := f.verifiedOrder()
	record, err := f.createPaymentOrder(o.ID(), 49900)
	require.NoError(f.t, err)
	paymentID, signature, err := f.provider.Capture(record.ProviderOrderID())
	require.NoError(f.t, err)
	_, err = f.confirm(record.ProviderOrderID(), paymentID, signature, nil)
	require.NoError(f.t, err)
	return f.reload(o.ID())
}

// assignedOrder returns an ASSIGNED order held by emp@x.com.
func (f *fixture) assignedOrder() *order.Order {
	f.t.Helper()
	o := f.paidOrder()
	f.registerEmp("emp@x.com")
	_, err := f.assignTo(o.ID(), "emp@x.com")
	require.NoError(f.t, err)
	return f.reload(o.ID())
}

func (f *fixture) reload(orderID kernel.UUID) *order.Order {
	f.t.Helper()
	o, err := f.store.Create().OrderRepository().Get(f.t.Context(), orderID)
	require.NoError(f.t, err)
	return o
}
