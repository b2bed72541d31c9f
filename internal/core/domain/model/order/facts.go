package order

// Facts are the recorded conditions an order's status is derived from. They are gathered from
// the documents, payment records and stage pipeline of the order; assignment and cancellation
// are read from the order itself.
type Facts struct {
	// DocumentsUploaded is true when the order currently has at least one document.
	DocumentsUploaded bool

	// DocumentsVerified is true when there is at least one document and all of them are verified.
	DocumentsVerified bool

	PaymentConfirmed bool

	AnyStageCompleted  bool
	AllStagesCompleted bool
}

// DeriveStatus maps facts onto the status they imply, ignoring the current status.
//
// IN_PROGRESS means work has produced a result: it is implied by the first completed stage
// of an assigned order. Starting a stage alone leaves the order ASSIGNED. Completing a stage
// requires an assignee, so a paid order without one stays at PAYMENT_COMPLETED.
func DeriveStatus(f Facts, assigned, cancelled bool) Status {
	switch {
	case cancelled:
		return Cancelled
	case f.PaymentConfirmed && f.AllStagesCompleted:
		return Completed
	case f.PaymentConfirmed && assigned && f.AnyStageCompleted:
		return InProgress
	case f.PaymentConfirmed && assigned:
		return Assigned
	case f.PaymentConfirmed:
		return PaymentCompleted
	case f.DocumentsVerified:
		return DocumentsVerified
	case f.DocumentsUploaded:
		return DocumentsPending
	default:
		return Created
	}
}
