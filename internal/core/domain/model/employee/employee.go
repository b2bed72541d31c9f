// Package employee holds the registry of staff members orders can be assigned to.
package employee

import (
	"errors"
	"strings"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"
)

var ErrEmployeeIsNotConstructed = errors.New("Employee must be created via NewEmployee constructor")

// Employee is identified by email. Only active employees accept new assignments.
type Employee struct {
	email     kernel.Email
	name      string
	active    bool
	createdAt time.Time

	isConstructed bool
}

func NewEmployee(email kernel.Email, name string, at time.Time) (*Employee, error) {
	if err := email.Validate(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	return &Employee{email: email, name: name, active: true, createdAt: at.UTC(), isConstructed: true}, nil
}

func RestoreEmployee(email kernel.Email, name string, active bool, createdAt time.Time) *Employee {
	return &Employee{email: email, name: name, active: active, createdAt: createdAt, isConstructed: true}
}

func (e *Employee) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEmployeeIsNotConstructed
	}
	return nil
}

func (e *Employee) Email() kernel.Email  { return e.email }
func (e *Employee) Name() string         { return e.name }
func (e *Employee) IsActive() bool       { return e.active }
func (e *Employee) CreatedAt() time.Time { return e.createdAt }

func (e *Employee) Deactivate() {
	e.active = false
}
