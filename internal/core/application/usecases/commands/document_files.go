package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"

	nanoid "github.com/jaevor/go-nanoid"
)

// DefaultDocumentMaxBytes caps a single upload when no limit is configured.
const DefaultDocumentMaxBytes int64 = 10 << 20

// documentFiles moves document bytes in and out of the blob store. Keys have the form
// "<orderID>/<documentID>/<nanoid>", so a replacement never overwrites the bytes it replaces
// before the metadata write commits.
type documentFiles struct {
	blobs    ports.BlobStore
	maxBytes int64
	newID    func() string
}

func newDocumentFiles(blobs ports.BlobStore, maxBytes int64) (documentFiles, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultDocumentMaxBytes
	}
	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return documentFiles{}, fmt.Errorf("create blob key generator: %w", err)
	}
	return documentFiles{blobs: blobs, maxBytes: maxBytes, newID: idGenerator}, nil
}

// store writes content under a fresh key and returns the key and the byte count.
func (f documentFiles) store(ctx context.Context, orderID, documentID kernel.UUID, content io.Reader) (string, int64, error) {
	key := orderID.String() + "/" + documentID.String() + "/" + f.newID()
	n, err := f.blobs.Put(ctx, key, content, f.maxBytes)
	if err != nil {
		return "", 0, err
	}
	return key, n, nil
}

// discard removes a blob that is no longer referenced. Failures only leave an orphan blob,
// so they are logged.
func (f documentFiles) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := f.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		slog.Default().With("component", "documents").Warn("failed to delete blob", "key", key, "error", err)
	}
}

// ensureCanChangeDocuments applies the upload window: customers may add, replace or delete
// documents until the order is paid; staff may do so on any non-terminal order.
func ensureCanChangeDocuments(actor kernel.Actor, o *order.Order) error {
	if err := o.EnsureNotTerminal(); err != nil {
		return err
	}
	if actor.IsCustomer() && o.Status().IsAtLeast(order.PaymentCompleted) {
		return errs.NewInvalidStateError(
			"order "+o.ID().String(),
			"documents can no longer be changed by the customer in "+o.Status().String(),
		)
	}
	return nil
}

// getOrderDocument loads a document and checks it belongs to the order.
func getOrderDocument(
	ctx context.Context,
	repo ports.DocumentRepository,
	orderID, documentID kernel.UUID,
) (*document.Document, error) {
	doc, err := repo.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.BelongsTo(orderID) {
		return nil, errs.NewObjectNotFoundError("document", documentID.String())
	}
	return doc, nil
}
