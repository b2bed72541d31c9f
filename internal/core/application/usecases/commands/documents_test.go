package commands_test

import (
	"io"
	"strings"
	"testing"

	"compliance/internal/core/application/usecases/commands"
	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readBlob(t *testing.T, f *fixture, key string) string {
	t.Helper()
	r, err := f.blobs.Open(t.Context(), key)
	require.NoError(t, err)
	defer r.Close()
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(content)
}

func TestUploadDocument_StoresBytesAndMetadata(t *testing.T) {
	f := newFixture(t)
	o := f.newOrder("100.00")

	doc, err := f.uploadAs(f.customer, o.ID(), "../../etc/pan card.pdf", "pdf-bytes")
	require.NoError(t, err)
	assert.Equal(t, "pan card.pdf", doc.FileName())
	assert.Equal(t, int64(len("pdf-bytes")), doc.SizeBytes())
	assert.Equal(t, f.customer.Email(), doc.UploadedBy())
	assert.True(t, strings.HasPrefix(doc.StorageKey(), o.ID().String()+"/"+doc.ID().String()+"/"))
	assert.Equal(t, "pdf-bytes", readBlob(t, f, doc.StorageKey()))
}

func TestUploadDocument_OversizedFileIsInvalidInput(t *testing.T) {
	f := newFixture(t)
	o := f.newOrder("100.00")

	_, err := f.uploadAs(f.customer, o.ID(), "big.pdf", strings.Repeat("x", testMaxBytes+1))
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
	assert.Equal(t, order.Created, f.reload(o.ID()).Status())
}

func TestUploadDocument_EmptyFileIsRejected(t *testing.T) {
	f := newFixture(t)
	o := f.newOrder("100.00")

	_, err := f.uploadAs(f.customer, o.ID(), "empty.pdf", "")
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidInput, errs.KindOf(err))

	docs, err := f.store.Create().DocumentRepository().ListByOrder(t.Context(), o.ID())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestUploadDocument_CustomerWindowClosesAtPayment(t *testing.T) {
	f := newFixture(t)
	o := f.paidOrder()

	_, err := f.uploadAs(f.customer, o.ID(), "late.pdf", "late")
	require.ErrorIs(t, err, errs.ErrInvalidState)

	doc, err := f.uploadAs(f.employee, o.ID(), "internal.pdf", "internal")
	require.NoError(t, err)
	assert.False(t, doc.IsVerified())
	assert.Equal(t, order.PaymentCompleted, f.reload(o.ID()).Status())
}

func TestVerifyDocument_CustomerIsForbidden(t *testing.T) {
	f := newFixture(t)
	o := f.newOrder("100.00")
	doc := f.uploadDocument(o.ID())

	_, err := f.verifyAs(f.customer, o.ID(), doc.ID())
	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, order.DocumentsPending, f.reload(o.ID()).Status())
}

func TestVerifyDocument_Idempotent(t *testing.T) {
	f := newFixture(t)
	o := f.newOrder("100.00")
	doc := f.uploadDocument(o.ID())

	first, err := f.verifyAs(f.employee, o.ID(), doc.ID())
	require.NoError(t, err)
	second, err := f.verifyAs(f.admin, o.ID(), doc.ID())
	require.NoError(t, err)

	assert.True(t, second.IsVerified())
	assert.Equal(t, first.VerifiedBy(), second.VerifiedBy())
	assert.Equal(t, f.employee.Email(), second.VerifiedBy())
}

func TestVerifyDocument_WrongOrderIsNotFound(t *testing.T) {
	f := newFixture(t)
	o := f.newOrder("100.00")
	other := f.newOrder("200.00")
	doc := f.uploadDocument(o.ID())

	_, err := f.verifyAs(f.employee, other.ID(), doc.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestReplaceDocument_AfterVerifyIsAlreadyVerified(t *testing.T) {
	f := newFixture(t)
	o := f.newOrder("100.00")
	doc := f.uploadDocument(o.ID())
	_, err := f.verifyAs(f.employee, o.ID(), doc.ID())
	require.NoError(t, err)

	cmd, err := commands.NewReplaceDocumentCommand(
		f.customer, o.ID(), doc.ID(), document.File{Name: "new.pdf"}, strings.NewReader("new"),
	)
	require.NoError(t, err)
	_, err = f.replace.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrAlreadyVerified)
	assert.Equal(t, errs.KindAlreadyVerified, errs.KindOf(err))

	del, err := commands.NewDeleteDocumentCommand(f.customer, o.ID(), doc.ID())
	require.NoError(t, err)
	require.ErrorIs(t, f.deleteDocument.Handle(t.Context(), del), errs.ErrAlreadyVerified)

	assert.Equal(t, "%PDF-1.4 pan", readBlob(t, f, doc.StorageKey()))
}

func TestReplaceDocument_SwapsBytesAndRemovesOldBlob(t *testing.T) {
	f := newFixture(t)
	o := f.newOrder("100.00")
	doc := f.uploadDocument(o.ID())

	cmd, err := commands.NewReplaceDocumentCommand(
		f.customer, o.ID(), doc.ID(), document.File{Name: "pan-v2.pdf"}, strings.NewReader("second version"),
	)
	require.NoError(t, err)
	replaced, err := f.replace.Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.True(t, replaced.ID().IsEqual(doc.ID()))
	assert.Equal(t, "pan-v2.pdf", replaced.FileName())
	assert.NotEqual(t, doc.StorageKey(), replaced.StorageKey())
	assert.Equal(t, "second version", readBlob(t, f, replaced.StorageKey()))

	_, err = f.blobs.Open(t.Context(), doc.StorageKey())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestDeleteDocument_RemovesMetadataAndBlob(t *testing.T) {
	f := newFixture(t)
	o := f.newOrder("100.00")
	doc := f.uploadDocument(o.ID())

	cmd, err := commands.NewDeleteDocumentCommand(f.customer, o.ID(), doc.ID())
	require.NoError(t, err)
	require.NoError(t, f.deleteDocument.Handle(t.Context(), cmd))

	_, err = f.store.Create().DocumentRepository().Get(t.Context(), doc.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	_, err = f.blobs.Open(t.Context(), doc.StorageKey())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Equal(t, order.DocumentsPending, f.reload(o.ID()).Status())
}
