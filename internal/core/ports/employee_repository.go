package ports

import (
	"context"

	"compliance/internal/core/domain/model/employee"
	"compliance/internal/core/domain/model/kernel"
)

type EmployeeRepository interface {
	Add(ctx context.Context, e *employee.Employee) error

	// Get returns ObjectNotFoundError when no employee has the email.
	Get(ctx context.Context, email kernel.Email) (*employee.Employee, error)

	List(ctx context.Context) ([]*employee.Employee, error)
}
