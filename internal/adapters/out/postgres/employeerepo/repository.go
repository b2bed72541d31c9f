package employeerepo

import (
	"context"
	"errors"

	"compliance/internal/core/domain/model/employee"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.EmployeeRepository = &GormEmployeeRepository{}

type GormEmployeeRepository struct {
	db *gorm.DB
}

func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

func (r *GormEmployeeRepository) Add(ctx context.Context, e *employee.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}

	dto := fromDomain(e)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewInvalidStateError("employee "+dto.Email, "already registered")
		}
		return err
	}
	return nil
}

func (r *GormEmployeeRepository) Get(ctx context.Context, email kernel.Email) (*employee.Employee, error) {
	var dto EmployeeDTO
	if err := r.db.WithContext(ctx).First(&dto, "email = ?", email.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("employee", email.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormEmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	var dtos []EmployeeDTO
	if err := r.db.WithContext(ctx).Order("email").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]*employee.Employee, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
