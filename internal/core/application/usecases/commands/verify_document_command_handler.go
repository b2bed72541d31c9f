package commands

import (
	"context"

	"compliance/internal/core/domain/model/document"
)

type VerifyDocumentCommandHandler struct {
	uowFactory UoWFactory
}

func NewVerifyDocumentCommandHandler(uowFactory UoWFactory) VerifyDocumentCommandHandler {
	return VerifyDocumentCommandHandler{uowFactory: uowFactory}
}

// Handle verifies the document and recomputes the order. Verifying a verified document
// returns it unchanged.
func (h *VerifyDocumentCommandHandler) Handle(ctx context.Context, cmd VerifyDocumentCommand) (*document.Document, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := policy.CanVerifyDocuments(cmd.Actor()); err != nil {
		return nil, err
	}

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
	docs := uow.DocumentRepository()
	doc, err := getOrderDocument(ctx, docs, o.ID(), cmd.DocumentID())
	if err != nil {
		return nil, err
	}
	if doc.IsVerified() {
		return doc, nil
	}
	if err = o.EnsureNotTerminal(); err != nil {
		return nil, err
	}

	at := now()
	doc.Verify(cmd.Actor().Email(), at)
	if err = docs.Update(ctx, doc); err != nil {
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
