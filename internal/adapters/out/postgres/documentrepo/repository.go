package documentrepo

import (
	"context"
	"errors"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.DocumentRepository = &GormDocumentRepository{}

type GormDocumentRepository struct {
	db *gorm.DB
}

func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

func (r *GormDocumentRepository) Add(ctx context.Context, doc *document.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	dto := fromDomain(doc)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return errs.NewObjectNotFoundErrorWithCause("order", doc.OrderID().String(), err)
		}
		return err
	}
	return nil
}

func (r *GormDocumentRepository) Update(ctx context.Context, doc *document.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	dto := fromDomain(doc)
	result := r.db.WithContext(ctx).Model(&DocumentDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("document", doc.ID().String())
	}
	return nil
}

func (r *GormDocumentRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&DocumentDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("document", id.String())
	}
	return nil
}

func (r *GormDocumentRepository) Get(ctx context.Context, id kernel.UUID) (*document.Document, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DocumentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("document", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// ListByOrder returns the order's documents, oldest upload first.
func (r *GormDocumentRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*document.Document, error) {
	var dtos []DocumentDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("uploaded_at").Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	docs := make([]*document.Document, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}
