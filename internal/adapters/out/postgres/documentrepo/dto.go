// Package documentrepo persists the document registry. Blob content lives in the blob store;
// the row keeps the storage key and the verification flags.
package documentrepo

import (
	"time"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type DocumentDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"type:text;not null"`
	SizeBytes   int64     `gorm:"not null"`
	ContentType string    `gorm:"type:text;not null"`
	StorageKey  string    `gorm:"type:text;not null"`
	Verified    bool      `gorm:"not null;default:false"`
	VerifiedBy  string    `gorm:"type:text;not null;default:''"`
	VerifiedAt  *time.Time
	UploadedBy  string    `gorm:"type:text;not null"`
	UploadedAt  time.Time `gorm:"not null"`
}

func (DocumentDTO) TableName() string {
	return "documents"
}

func fromDomain(d *document.Document) DocumentDTO {
	return DocumentDTO{
		ID:          d.ID().Bytes(),
		OrderID:     d.OrderID().Bytes(),
		FileName:    d.FileName(),
		SizeBytes:   d.SizeBytes(),
		ContentType: d.ContentType(),
		StorageKey:  d.StorageKey(),
		Verified:    d.IsVerified(),
		VerifiedBy:  d.VerifiedBy(),
		VerifiedAt:  d.VerifiedAt(),
		UploadedBy:  d.UploadedBy(),
		UploadedAt:  d.UploadedAt().UTC(),
	}
}

func toDomain(dto DocumentDTO) (*document.Document, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return document.RestoreDocument(
		id,
		orderID,
		document.File{Name: dto.FileName, SizeBytes: dto.SizeBytes, ContentType: dto.ContentType},
		dto.StorageKey,
		dto.Verified,
		dto.VerifiedBy,
		dto.VerifiedAt,
		dto.UploadedBy,
		dto.UploadedAt,
	), nil
}
