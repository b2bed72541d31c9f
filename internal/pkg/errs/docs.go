// Package errs provides the error taxonomy shared by every layer of the order service.
//
// Input validation errors:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is malformed
//   - ValueIsOutOfRangeError: a value is outside its allowed bounds
//
// Lookup and capability errors:
//   - ObjectNotFoundError: an order, document, payment record or employee does not exist
//   - ForbiddenError: the acting party lacks the capability for an operation
//
// State machine errors (all of them also match ErrInvalidState):
//   - InvalidStateError: the operation is not legal for the current state
//   - IllegalTransitionError: a workflow stage was requested out of order
//   - AlreadyTerminalError: the order is COMPLETED or CANCELLED
//   - NotPaidError: the workflow engine was invoked before payment
//   - AlreadyVerifiedError: a verified document was replaced or deleted
//
// Payment errors:
//   - PaymentMismatchError: amount, provider order or payment id do not match the record
//
// Each error type follows the same pattern: a sentinel error variable, a struct with the
// error details, constructors with and without a cause, Error() and Unwrap(). Callers
// classify errors with errors.Is against the sentinels, and KindOf maps any error onto the
// machine-readable kind exposed by the HTTP adapter.
package errs
