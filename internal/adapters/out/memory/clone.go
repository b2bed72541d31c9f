package memory

import (
	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/employee"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/model/payment"
	"compliance/internal/core/domain/model/workflow"
)

// Aggregates are mutable, so the store keeps private copies and hands out copies.

func cloneOrder(o *order.Order) (*order.Order, error) {
	var assignee = o.Assignee()
	if assignee != nil {
		a := *assignee
		assignee = &a
	}
	return order.RestoreOrder(
		o.ID(),
		o.ServiceName(),
		o.CustomerEmail(),
		o.TotalAmount(),
		o.Status(),
		assignee,
		o.CreatedAt(),
		o.UpdatedAt(),
		o.CancelledAt(),
		o.CancelReason(),
		o.Version(),
	)
}

func cloneDocument(d *document.Document) *document.Document {
	return document.RestoreDocument(
		d.ID(),
		d.OrderID(),
		document.File{Name: d.FileName(), SizeBytes: d.SizeBytes(), ContentType: d.ContentType()},
		d.StorageKey(),
		d.IsVerified(),
		d.VerifiedBy(),
		d.VerifiedAt(),
		d.UploadedBy(),
		d.UploadedAt(),
	)
}

func cloneRecord(r *payment.Record) *payment.Record {
	return payment.RestoreRecord(
		r.ProviderOrderID(),
		r.OrderID(),
		r.PaymentID(),
		r.Amount(),
		r.Currency(),
		r.Description(),
		r.Status(),
		r.CreatedAt(),
		r.ConfirmedAt(),
		r.FailureReason(),
	)
}

func clonePipeline(p *workflow.Pipeline) (*workflow.Pipeline, error) {
	return workflow.RestorePipeline(p.OrderID(), p.Stages())
}

func cloneEmployee(e *employee.Employee) *employee.Employee {
	return employee.RestoreEmployee(e.Email(), e.Name(), e.IsActive(), e.CreatedAt())
}
