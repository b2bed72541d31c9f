package commands

import (
	"context"

	"compliance/internal/core/ports"
)

// DeleteDocumentCommandHandler deletes the metadata inside the order's critical section and the
// blob after commit. Deleting the last document moves nothing backwards: status only moves
// forward.
type DeleteDocumentCommandHandler struct {
	uowFactory UoWFactory
	files      documentFiles
}

func NewDeleteDocumentCommandHandler(uowFactory UoWFactory, blobs ports.BlobStore) (DeleteDocumentCommandHandler, error) {
	files, err := newDocumentFiles(blobs, 0)
	if err != nil {
		return DeleteDocumentCommandHandler{}, err
	}
	return DeleteDocumentCommandHandler{uowFactory: uowFactory, files: files}, nil
}

func (h *DeleteDocumentCommandHandler) Handle(ctx context.Context, cmd DeleteDocumentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := lockOrder(ctx, uow, cmd.Actor(), cmd.OrderID())
	if err != nil {
		return err
	}
	if err = ensureCanChangeDocuments(cmd.Actor(), o); err != nil {
		return err
	}
	docs := uow.DocumentRepository()
	doc, err := getOrderDocument(ctx, docs, o.ID(), cmd.DocumentID())
	if err != nil {
		return err
	}
	if err = doc.EnsureMutable(); err != nil {
		return err
	}
	if err = docs.Delete(ctx, doc.ID()); err != nil {
		return err
	}

	changed, err := recomputeStatus(ctx, uow, o, cmd.Actor(), now())
	if err != nil {
		return err
	}
	if changed {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.files.discard(ctx, doc.StorageKey())
	return nil
}
