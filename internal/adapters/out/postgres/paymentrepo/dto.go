// Package paymentrepo persists payment records keyed by the provider order id.
package paymentrepo

import (
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

// PaymentRecordDTO maps a payment.Record. Amount is in minor units of Currency.
type PaymentRecordDTO struct {
	ProviderOrderID string    `gorm:"type:text;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index"`
	PaymentID       string    `gorm:"type:text;not null;default:''"`
	Amount          int64     `gorm:"not null"`
	Currency        string    `gorm:"type:char(3);not null"`
	Description     string    `gorm:"type:text;not null;default:''"`
	Status          string    `gorm:"type:text;not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime:false;not null"`
	ConfirmedAt     *time.Time
	FailureReason   string `gorm:"type:text;not null;default:''"`
}

func (PaymentRecordDTO) TableName() string {
	return "payment_records"
}

func fromDomain(r *payment.Record) PaymentRecordDTO {
	return PaymentRecordDTO{
		ProviderOrderID: r.ProviderOrderID(),
		OrderID:         r.OrderID().Bytes(),
		PaymentID:       r.PaymentID(),
		Amount:          r.Amount(),
		Currency:        r.Currency(),
		Description:     r.Description(),
		Status:          r.Status().String(),
		CreatedAt:       r.CreatedAt().UTC(),
		ConfirmedAt:     r.ConfirmedAt(),
		FailureReason:   r.FailureReason(),
	}
}

func toDomain(dto PaymentRecordDTO) (*payment.Record, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := payment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return payment.RestoreRecord(
		dto.ProviderOrderID,
		orderID,
		dto.PaymentID,
		dto.Amount,
		dto.Currency,
		dto.Description,
		status,
		dto.CreatedAt,
		dto.ConfirmedAt,
		dto.FailureReason,
	), nil
}

func toDomainList(dtos []PaymentRecordDTO) ([]*payment.Record, error) {
	records := make([]*payment.Record, 0, len(dtos))
	for _, dto := range dtos {
		r, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
