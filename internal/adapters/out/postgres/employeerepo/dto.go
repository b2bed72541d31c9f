// Package employeerepo persists the registry of staff members orders can be assigned to.
package employeerepo

import (
	"time"

	"compliance/internal/core/domain/model/employee"
	"compliance/internal/core/domain/model/kernel"
)

type EmployeeDTO struct {
	Email     string    `gorm:"type:text;primaryKey"`
	Name      string    `gorm:"type:text;not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;not null"`
}

func (EmployeeDTO) TableName() string {
	return "employees"
}

func fromDomain(e *employee.Employee) EmployeeDTO {
	return EmployeeDTO{
		Email:     e.Email().String(),
		Name:      e.Name(),
		Active:    e.IsActive(),
		CreatedAt: e.CreatedAt().UTC(),
	}
}

func toDomain(dto EmployeeDTO) (*employee.Employee, error) {
	email, err := kernel.NewEmail(dto.Email)
	if err != nil {
		return nil, err
	}
	return employee.RestoreEmployee(email, dto.Name, dto.Active, dto.CreatedAt), nil
}
