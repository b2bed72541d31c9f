package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/employee"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/model/payment"
	"compliance/internal/core/domain/model/workflow"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"
)

type orderRepository struct {
	uow *UnitOfWork
}

func (r orderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	return r.put(ctx, aggregate)
}

func (r orderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	return r.put(ctx, aggregate)
}

func (r orderRepository) put(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	tx, err := r.uow.writable()
	if err != nil {
		return err
	}
	stored, err := cloneOrder(aggregate)
	if err != nil {
		return err
	}
	tx.orders[aggregate.ID().String()] = stored
	r.uow.track(aggregate)
	return nil
}

func (r orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	stored, ok := r.uow.view().orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return cloneOrder(stored)
}

// GetForUpdate reads inside the transaction; the store's writer lock already serializes it.
func (r orderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if _, err := r.uow.writable(); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r orderRepository) List(_ context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	out := make([]*order.Order, 0)
	for _, stored := range r.uow.view().orders {
		if filter.CustomerEmail != "" && !stored.IsOwnedBy(filter.CustomerEmail) {
			continue
		}
		o, err := cloneOrder(stored)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].ID().String() < out[j].ID().String()
	})
	return out, nil
}

type documentRepository struct {
	uow *UnitOfWork
}

func (r documentRepository) Add(ctx context.Context, doc *document.Document) error {
	return r.put(ctx, doc)
}

func (r documentRepository) Update(ctx context.Context, doc *document.Document) error {
	return r.put(ctx, doc)
}

func (r documentRepository) put(_ context.Context, doc *document.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	tx, err := r.uow.writable()
	if err != nil {
		return err
	}
	if _, ok := tx.orders[doc.OrderID().String()]; !ok {
		return errs.NewObjectNotFoundError("order", doc.OrderID().String())
	}
	tx.documents[doc.ID().String()] = cloneDocument(doc)
	return nil
}

func (r documentRepository) Delete(_ context.Context, id kernel.UUID) error {
	tx, err := r.uow.writable()
	if err != nil {
		return err
	}
	if _, ok := tx.documents[id.String()]; !ok {
		return errs.NewObjectNotFoundError("document", id.String())
	}
	delete(tx.documents, id.String())
	return nil
}

func (r documentRepository) Get(_ context.Context, id kernel.UUID) (*document.Document, error) {
	stored, ok := r.uow.view().documents[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("document", id.String())
	}
	return cloneDocument(stored), nil
}

func (r documentRepository) ListByOrder(_ context.Context, orderID kernel.UUID) ([]*document.Document, error) {
	out := make([]*document.Document, 0)
	for _, stored := range r.uow.view().documents {
		if stored.BelongsTo(orderID) {
			out = append(out, cloneDocument(stored))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt().Equal(out[j].UploadedAt()) {
			return out[i].UploadedAt().Before(out[j].UploadedAt())
		}
		return out[i].ID().String() < out[j].ID().String()
	})
	return out, nil
}

type paymentRepository struct {
	uow *UnitOfWork
}

func (r paymentRepository) Add(_ context.Context, record *payment.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	tx, err := r.uow.writable()
	if err != nil {
		return err
	}
	if _, ok := tx.payments[record.ProviderOrderID()]; ok {
		return errs.NewInvalidStateError("payment record "+record.ProviderOrderID(), "already exists")
	}
	if _, ok := tx.orders[record.OrderID().String()]; !ok {
		return errs.NewObjectNotFoundError("order", record.OrderID().String())
	}
	tx.payments[record.ProviderOrderID()] = cloneRecord(record)
	return nil
}

// Update enforces at most one CONFIRMED record per order, like the partial unique index of
// the postgres schema.
func (r paymentRepository) Update(_ context.Context, record *payment.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	tx, err := r.uow.writable()
	if err != nil {
		return err
	}
	if _, ok := tx.payments[record.ProviderOrderID()]; !ok {
		return errs.NewObjectNotFoundError("payment record", record.ProviderOrderID())
	}
	if record.IsConfirmed() {
		for key, other := range tx.payments {
			if key != record.ProviderOrderID() && other.IsConfirmed() && other.OrderID().IsEqual(record.OrderID()) {
				return errs.NewPaymentMismatchError("providerOrderId", other.ProviderOrderID(), record.ProviderOrderID())
			}
		}
	}
	tx.payments[record.ProviderOrderID()] = cloneRecord(record)
	return nil
}

func (r paymentRepository) Get(_ context.Context, providerOrderID string) (*payment.Record, error) {
	stored, ok := r.uow.view().payments[providerOrderID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("payment record", providerOrderID)
	}
	return cloneRecord(stored), nil
}

func (r paymentRepository) ListByOrder(_ context.Context, orderID kernel.UUID) ([]*payment.Record, error) {
	out := make([]*payment.Record, 0)
	for _, stored := range r.uow.view().payments {
		if stored.OrderID().IsEqual(orderID) {
			out = append(out, cloneRecord(stored))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].ProviderOrderID() < out[j].ProviderOrderID()
	})
	return out, nil
}

func (r paymentRepository) FindConfirmed(_ context.Context, orderID kernel.UUID) (*payment.Record, error) {
	for _, stored := range r.uow.view().payments {
		if stored.IsConfirmed() && stored.OrderID().IsEqual(orderID) {
			return cloneRecord(stored), nil
		}
	}
	return nil, nil
}

func (r paymentRepository) ListOpen(_ context.Context, createdBefore time.Time, limit int) ([]*payment.Record, error) {
	out := make([]*payment.Record, 0)
	for _, stored := range r.uow.view().payments {
		if stored.Status() == payment.StatusCreated && stored.CreatedAt().Before(createdBefore) {
			out = append(out, cloneRecord(stored))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type workflowRepository struct {
	uow *UnitOfWork
}

func (r workflowRepository) SavePipeline(_ context.Context, pipeline *workflow.Pipeline) error {
	if err := pipeline.Validate(); err != nil {
		return err
	}
	tx, err := r.uow.writable()
	if err != nil {
		return err
	}
	stored, err := clonePipeline(pipeline)
	if err != nil {
		return err
	}
	tx.pipelines[pipeline.OrderID().String()] = stored
	return nil
}

func (r workflowRepository) FindPipeline(_ context.Context, orderID kernel.UUID) (*workflow.Pipeline, error) {
	stored, ok := r.uow.view().pipelines[orderID.String()]
	if !ok {
		return nil, nil
	}
	return clonePipeline(stored)
}

func (r workflowRepository) Append(_ context.Context, events ...*workflow.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.uow.writable()
	if err != nil {
		return err
	}
	for _, e := range events {
		if err = e.Validate(); err != nil {
			return err
		}
		key := e.OrderID().String()
		timeline := tx.events[key]
		var last int64
		if n := len(timeline); n > 0 {
			last = timeline[n-1].Sequence()
		}
		e.AssignSequence(last + 1)
		// Clip forces a copy so the committed snapshot's slice is never written.
		tx.events[key] = append(slices.Clip(timeline), e)
	}
	return nil
}

func (r workflowRepository) Timeline(_ context.Context, orderID kernel.UUID) ([]*workflow.Event, error) {
	timeline := slices.Clone(r.uow.view().events[orderID.String()])
	if timeline == nil {
		timeline = make([]*workflow.Event, 0)
	}
	workflow.SortTimeline(timeline)
	return timeline, nil
}

type employeeRepository struct {
	uow *UnitOfWork
}

func (r employeeRepository) Add(_ context.Context, e *employee.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}
	tx, err := r.uow.writable()
	if err != nil {
		return err
	}
	if _, ok := tx.employees[e.Email().String()]; ok {
		return errs.NewInvalidStateError("employee "+e.Email().String(), "already registered")
	}
	tx.employees[e.Email().String()] = cloneEmployee(e)
	return nil
}

func (r employeeRepository) Get(_ context.Context, email kernel.Email) (*employee.Employee, error) {
	stored, ok := r.uow.view().employees[email.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("employee", email.String())
	}
	return cloneEmployee(stored), nil
}

func (r employeeRepository) List(_ context.Context) ([]*employee.Employee, error) {
	out := make([]*employee.Employee, 0, len(r.uow.view().employees))
	for _, stored := range r.uow.view().employees {
		out = append(out, cloneEmployee(stored))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Email().String() < out[j].Email().String()
	})
	return out, nil
}
