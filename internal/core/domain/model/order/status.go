package order

import (
	"fmt"

	"compliance/internal/pkg/errs"
)

// Status is the lifecycle state of an order. The numeric order of the non-terminal values is the
// order of the chain, which Recompute relies on.
//
//	CREATED -> DOCUMENTS_PENDING -> DOCUMENTS_VERIFIED -> PAYMENT_COMPLETED
//	        -> ASSIGNED -> IN_PROGRESS -> COMPLETED
//	any non-terminal -> CANCELLED
type Status int

const (
	Unknown Status = iota
	Created
	DocumentsPending
	DocumentsVerified
	PaymentCompleted
	Assigned
	InProgress
	Completed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:           "UNKNOWN",
		Created:           "CREATED",
		DocumentsPending:  "DOCUMENTS_PENDING",
		DocumentsVerified: "DOCUMENTS_VERIFIED",
		PaymentCompleted:  "PAYMENT_COMPLETED",
		Assigned:          "ASSIGNED",
		InProgress:        "IN_PROGRESS",
		Completed:         "COMPLETED",
		Cancelled:         "CANCELLED",
	}
}

// ParseStatus converts the persisted name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further mutation is allowed.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// Next returns the successor on the linear chain, or Unknown for terminal statuses.
func (s Status) Next() Status {
	if s < Created || s >= Completed {
		return Unknown
	}
	return s + 1
}

// IsAtLeast reports whether s is at or beyond other on the linear chain. CANCELLED is beyond nothing.
func (s Status) IsAtLeast(other Status) bool {
	if s == Cancelled {
		return other == Cancelled
	}
	return s >= other
}

// Transition is one edge walked by Recompute.
type Transition struct {
	From Status
	To   Status
}
