// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The status column holds the status name so the table stays readable from psql.
type OrderDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ServiceName   string          `gorm:"type:text;not null"`
	CustomerEmail string          `gorm:"type:text;not null;index"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	Currency      string          `gorm:"type:char(3);not null"`
	Status        string          `gorm:"type:text;not null"`
	AssigneeEmail *string         `gorm:"type:text"`
	CreatedAt     time.Time       `gorm:"autoCreateTime:false;not null"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime:false;not null"`
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:text;not null;default:''"`
	Version       int    `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	var assignee *string
	if a := o.Assignee(); a != nil {
		s := a.String()
		assignee = &s
	}

	return OrderDTO{
		ID:            o.ID().Bytes(),
		ServiceName:   o.ServiceName(),
		CustomerEmail: o.CustomerEmail().String(),
		TotalAmount:   o.TotalAmount().Amount(),
		Currency:      o.TotalAmount().Currency(),
		Status:        o.Status().String(),
		AssigneeEmail: assignee,
		CreatedAt:     o.CreatedAt().UTC(),
		UpdatedAt:     o.UpdatedAt().UTC(),
		CancelledAt:   o.CancelledAt(),
		CancelReason:  o.CancelReason(),
		Version:       o.Version(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer, err := kernel.NewEmail(dto.CustomerEmail)
	if err != nil {
		return nil, err
	}

	var assignee *kernel.Email
	if dto.AssigneeEmail != nil {
		a, assigneeErr := kernel.NewEmail(*dto.AssigneeEmail)
		if assigneeErr != nil {
			return nil, assigneeErr
		}
		assignee = &a
	}

	total, err := kernel.NewMoney(dto.TotalAmount, dto.Currency)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.ServiceName,
		customer,
		total,
		status,
		assignee,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.CancelledAt,
		dto.CancelReason,
		dto.Version,
	)
}
