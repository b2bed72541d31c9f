package queries

import (
	"context"
	"errors"
	"io"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"
)

// ListDocumentsQuery lists an order's documents, oldest upload first.
type ListDocumentsQuery struct {
	orderRef
}

func NewListDocumentsQuery(actor kernel.Actor, orderID kernel.UUID) (ListDocumentsQuery, error) {
	ref, err := newOrderRef(actor, orderID)
	if err != nil {
		return ListDocumentsQuery{}, err
	}
	return ListDocumentsQuery{orderRef: ref}, nil
}

type ListDocumentsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListDocumentsQueryHandler(uowFactory ports.UnitOfWorkFactory) ListDocumentsQueryHandler {
	return ListDocumentsQueryHandler{uowFactory: uowFactory}
}

func (h ListDocumentsQueryHandler) Handle(ctx context.Context, query ListDocumentsQuery) ([]*document.Document, error) {
	uow := h.uowFactory.Create()
	o, err := readOrder(ctx, uow, query.orderRef)
	if err != nil {
		return nil, err
	}
	return uow.DocumentRepository().ListByOrder(ctx, o.ID())
}

// DownloadDocumentQuery opens a document's bytes.
type DownloadDocumentQuery struct {
	orderRef
	documentID kernel.UUID
}

func NewDownloadDocumentQuery(actor kernel.Actor, orderID, documentID kernel.UUID) (DownloadDocumentQuery, error) {
	ref, refErr := newOrderRef(actor, orderID)
	if err := errors.Join(refErr, documentID.Validate()); err != nil {
		return DownloadDocumentQuery{}, err
	}
	return DownloadDocumentQuery{orderRef: ref, documentID: documentID}, nil
}

func (q DownloadDocumentQuery) DocumentID() kernel.UUID { return q.documentID }

// DownloadDocumentResponse carries the document metadata and its content. The caller closes
// Content.
type DownloadDocumentResponse struct {
	Document *document.Document
	Content  io.ReadCloser
}

type DownloadDocumentQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	blobs      ports.BlobStore
}

func NewDownloadDocumentQueryHandler(uowFactory ports.UnitOfWorkFactory, blobs ports.BlobStore) DownloadDocumentQueryHandler {
	return DownloadDocumentQueryHandler{uowFactory: uowFactory, blobs: blobs}
}

func (h DownloadDocumentQueryHandler) Handle(ctx context.Context, query DownloadDocumentQuery) (DownloadDocumentResponse, error) {
	uow := h.uowFactory.Create()
	o, err := readOrder(ctx, uow, query.orderRef)
	if err != nil {
		return DownloadDocumentResponse{}, err
	}
	doc, err := uow.DocumentRepository().Get(ctx, query.DocumentID())
	if err != nil {
		return DownloadDocumentResponse{}, err
	}
	if !doc.BelongsTo(o.ID()) {
		return DownloadDocumentResponse{}, errs.NewObjectNotFoundError("document", query.DocumentID().String())
	}

	content, err := h.blobs.Open(ctx, doc.StorageKey())
	if err != nil {
		return DownloadDocumentResponse{}, err
	}
	return DownloadDocumentResponse{Document: doc, Content: content}, nil
}
