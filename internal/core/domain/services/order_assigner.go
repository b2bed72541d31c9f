package services

import (
	"errors"
	"time"

	"compliance/internal/core/domain/model/employee"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/pkg/errs"
)

// ErrEmployeeNotAssignable is wrapped into the NotFound error returned for inactive employees.
var ErrEmployeeNotAssignable = errors.New("employee is not active")

// OrderAssigner assigns orders to employees.
//
// Business rules:
//   - the employee must exist and be active, NotFound otherwise
//   - the order must be at least PAYMENT_COMPLETED and not terminal
//   - assigning the current assignee again changes nothing
//
// Example usage:
//
//	assigner := services.NewOrderAssigner()
//	changed, previous, err := assigner.Assign(o, emp, time.Now())
//	if err != nil {
//	    return err
//	}
//	if changed {
//	    // append an ASSIGNED workflow event mentioning previous
//	}
type OrderAssigner struct{}

func NewOrderAssigner() OrderAssigner {
	return OrderAssigner{}
}

// Assign returns whether the assignee changed and the previous assignee's email ("" if none).
func (OrderAssigner) Assign(o *order.Order, emp *employee.Employee, at time.Time) (bool, string, error) {
	if err := o.Validate(); err != nil {
		return false, "", err
	}
	if err := emp.Validate(); err != nil {
		return false, "", err
	}
	if !emp.IsActive() {
		return false, "", errs.NewObjectNotFoundErrorWithCause("employee", emp.Email().String(), ErrEmployeeNotAssignable)
	}

	previous := ""
	if current := o.Assignee(); current != nil {
		previous = current.String()
	}

	changed, err := o.Assign(emp.Email(), at)
	if err != nil {
		return false, "", err
	}
	return changed, previous, nil
}
