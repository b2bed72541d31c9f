package ports

import (
	"context"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/kernel"
)

// DocumentRepository persists document metadata. Bytes live in the BlobStore.
type DocumentRepository interface {
	Add(ctx context.Context, doc *document.Document) error
	Update(ctx context.Context, doc *document.Document) error
	Delete(ctx context.Context, id kernel.UUID) error

	// Get returns ObjectNotFoundError when absent.
	Get(ctx context.Context, id kernel.UUID) (*document.Document, error)

	// ListByOrder returns the order's documents, oldest upload first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*document.Document, error)
}
