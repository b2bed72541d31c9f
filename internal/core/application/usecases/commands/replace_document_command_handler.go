package commands

import (
	"context"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/ports"
)

// ReplaceDocumentCommandHandler replaces a document's file. Verified documents are rejected
// with AlreadyVerified. The old blob is deleted after commit.
type ReplaceDocumentCommandHandler struct {
	uowFactory UoWFactory
	files      documentFiles
}

func NewReplaceDocumentCommandHandler(
	uowFactory UoWFactory,
	blobs ports.BlobStore,
	maxBytes int64,
) (ReplaceDocumentCommandHandler, error) {
	files, err := newDocumentFiles(blobs, maxBytes)
	if err != nil {
		return ReplaceDocumentCommandHandler{}, err
	}
	return ReplaceDocumentCommandHandler{uowFactory: uowFactory, files: files}, nil
}

func (h *ReplaceDocumentCommandHandler) Handle(ctx context.Context, cmd ReplaceDocumentCommand) (*document.Document, error) {
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
	if err = ensureCanChangeDocuments(cmd.Actor(), current); err != nil {
		return nil, err
	}
	existing, err := getOrderDocument(ctx, reader.DocumentRepository(), cmd.OrderID(), cmd.DocumentID())
	if err != nil {
		return nil, err
	}
	if err = existing.EnsureMutable(); err != nil {
		return nil, err
	}

	key, size, err := h.files.store(ctx, cmd.OrderID(), cmd.DocumentID(), cmd.Content())
	if err != nil {
		return nil, err
	}

	doc, previousKey, err := h.replace(ctx, cmd, key, size)
	if err != nil {
		h.files.discard(ctx, key)
		return nil, err
	}
	h.files.discard(ctx, previousKey)
	return doc, nil
}

func (h *ReplaceDocumentCommandHandler) replace(
	ctx context.Context,
	cmd ReplaceDocumentCommand,
	key string,
	size int64,
) (*document.Document, string, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, "", err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := lockOrder(ctx, uow, cmd.Actor(), cmd.OrderID())
	if err != nil {
		return nil, "", err
	}
	if err = ensureCanChangeDocuments(cmd.Actor(), o); err != nil {
		return nil, "", err
	}
	docs := uow.DocumentRepository()
	doc, err := getOrderDocument(ctx, docs, o.ID(), cmd.DocumentID())
	if err != nil {
		return nil, "", err
	}

	file := cmd.File()
	file.SizeBytes = size
	at := now()
	previousKey, err := doc.Replace(file, key, cmd.Actor().Email(), at)
	if err != nil {
		return nil, "", err
	}
	if err = docs.Update(ctx, doc); err != nil {
		return nil, "", err
	}

	changed, err := recomputeStatus(ctx, uow, o, cmd.Actor(), at)
	if err != nil {
		return nil, "", err
	}
	if changed {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return nil, "", err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, "", err
	}

	return doc, previousKey, nil
}
