// Package order provides the Order aggregate of the compliance portal and its status state machine.
//
// The package includes:
//   - Order: the aggregate root holding the customer request, its assignee and its status
//   - Status: the linear lifecycle CREATED -> ... -> COMPLETED with CANCELLED as a side exit
//   - Facts: the recorded facts (documents, payment, assignment, stage progress) status is derived from
//
// Key business rules:
//   - Status is a projection. Callers never set it; Recompute derives the target from Facts and
//     walks the chain one edge at a time, reporting every Transition it took
//   - Status never moves backwards: a derived target behind the current status is ignored
//   - COMPLETED and CANCELLED are terminal and reject every further mutation
//   - An order can only be assigned once it is at least PAYMENT_COMPLETED
//
// Every change raises a domain event that the unit of work publishes after commit.
package order
