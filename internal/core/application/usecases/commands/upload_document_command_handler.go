package commands

import (
	"context"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/ports"
)

// UploadDocumentCommandHandler stores the bytes first, then registers the document and
// recomputes the order status in one short transaction. The blob is removed again when the
// transaction does not commit.
type UploadDocumentCommandHandler struct {
	uowFactory UoWFactory
	files      documentFiles
}

func NewUploadDocumentCommandHandler(
	uowFactory UoWFactory,
	blobs ports.BlobStore,
	maxBytes int64,
) (UploadDocumentCommandHandler, error) {
	files, err := newDocumentFiles(blobs, maxBytes)
	if err != nil {
		return UploadDocumentCommandHandler{}, err
	}
	return UploadDocumentCommandHandler{uowFactory: uowFactory, files: files}, nil
}

func (h *UploadDocumentCommandHandler) Handle(ctx context.Context, cmd UploadDocumentCommand) (*document.Document, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Reject early, before any bytes are written.
	current, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = policy.CanAccessOrder(cmd.Actor(), current); err != nil {
		return nil, err
	}
	if err = ensureCanChangeDocuments(cmd.Actor(), current); err != nil {
		return nil, err
	}

	key, size, err := h.files.store(ctx, cmd.OrderID(), cmd.DocumentID(), cmd.Content())
	if err != nil {
		return nil, err
	}

	doc, err := h.register(ctx, cmd, key, size)
	if err != nil {
		h.files.discard(ctx, key)
		return nil, err
	}
	return doc, nil
}

func (h *UploadDocumentCommandHandler) register(
	ctx context.Context,
	cmd UploadDocumentCommand,
	key string,
	size int64,
) (*document.Document, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := lockOrder(ctx, uow, cmd.Actor(), cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = ensureCanChangeDocuments(cmd.Actor(), o); err != nil {
		return nil, err
	}

	file := cmd.File()
	file.SizeBytes = size
	at := now()
	doc, err := document.NewDocument(cmd.DocumentID(), o.ID(), file, key, cmd.Actor().Email(), at)
	if err != nil {
		return nil, err
	}
	if err = uow.DocumentRepository().Add(ctx, doc); err != nil {
		return nil, err
	}

	changed, err := recomputeStatus(ctx, uow, o, cmd.Actor(), at)
	if err != nil {
		return nil, err
	}
	if changed {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return nil, err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return doc, nil
}
