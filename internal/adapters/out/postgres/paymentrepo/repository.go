package paymentrepo

import (
	"context"
	"errors"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/payment"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.PaymentRepository = &GormPaymentRepository{}

type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Add(ctx context.Context, record *payment.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return errs.NewInvalidStateError("payment record "+record.ProviderOrderID(), "already exists")
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return errs.NewObjectNotFoundErrorWithCause("order", record.OrderID().String(), err)
		}
		return err
	}
	return nil
}

// Update saves the record. A second CONFIRMED record for the same order is rejected here and,
// as a backstop, by the payment_records_one_confirmed partial unique index.
func (r *GormPaymentRepository) Update(ctx context.Context, record *payment.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	if record.IsConfirmed() {
		other, err := r.FindConfirmed(ctx, record.OrderID())
		if err != nil {
			return err
		}
		if other != nil && other.ProviderOrderID() != record.ProviderOrderID() {
			return errs.NewPaymentMismatchError("providerOrderId", other.ProviderOrderID(), record.ProviderOrderID())
		}
	}

	dto := fromDomain(record)
	result := r.db.WithContext(ctx).
		Model(&PaymentRecordDTO{}).
		Where("provider_order_id = ?", dto.ProviderOrderID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.NewPaymentMismatchError("providerOrderId", "single confirmed record", record.ProviderOrderID())
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("payment record", record.ProviderOrderID())
	}
	return nil
}

func (r *GormPaymentRepository) Get(ctx context.Context, providerOrderID string) (*payment.Record, error) {
	var dto PaymentRecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "provider_order_id = ?", providerOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payment record", providerOrderID)
		}
		return nil, err
	}
	return toDomain(dto)
}

// ListByOrder returns the order's records, newest first.
func (r *GormPaymentRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*payment.Record, error) {
	var dtos []PaymentRecordDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at DESC").Order("provider_order_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// FindConfirmed returns nil, nil when the order has no CONFIRMED record.
func (r *GormPaymentRepository) FindConfirmed(ctx context.Context, orderID kernel.UUID) (*payment.Record, error) {
	var dtos []PaymentRecordDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID.Bytes(), payment.StatusConfirmed.String()).
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, nil
	}
	return toDomain(dtos[0])
}

// ListOpen returns CREATED records older than createdBefore, oldest first.
func (r *GormPaymentRepository) ListOpen(ctx context.Context, createdBefore time.Time, limit int) ([]*payment.Record, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", payment.StatusCreated.String(), createdBefore.UTC()).
		Order("created_at")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []PaymentRecordDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}
