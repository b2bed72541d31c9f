package commands

import (
	"context"
	"time"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/model/workflow"
)

// recomputeStatus is the single place order status changes. It gathers the order's facts,
// lets the aggregate walk the status chain and appends one STATUS_CHANGED event per edge.
// Entering PAYMENT_COMPLETED instantiates the stage pipeline. It reports whether the order
// changed; the caller persists it. Must run inside a transaction holding the order lock.
func recomputeStatus(ctx context.Context, uow UoW, o *order.Order, actor kernel.Actor, at time.Time) (bool, error) {
	docs, err := uow.DocumentRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return false, err
	}
	confirmed, err := uow.PaymentRepository().FindConfirmed(ctx, o.ID())
	if err != nil {
		return false, err
	}
	workflowRepo := uow.WorkflowRepository()
	pipeline, err := workflowRepo.FindPipeline(ctx, o.ID())
	if err != nil {
		return false, err
	}

	uploaded, verified := document.Summarize(docs)
	facts := order.Facts{
		DocumentsUploaded: uploaded,
		DocumentsVerified: verified,
		PaymentConfirmed:  confirmed != nil,
	}
	if pipeline != nil {
		facts.AnyStageCompleted = pipeline.AnyCompleted()
		facts.AllStagesCompleted = pipeline.AllCompleted()
	}

	transitions := o.Recompute(facts, at)
	if len(transitions) == 0 {
		return false, nil
	}

	events := make([]*workflow.Event, 0, len(transitions)+1)
	for _, t := range transitions {
		events = append(events, workflow.NewStatusChangedEvent(o.ID(), t.From.String(), t.To.String(), actor.Email(), at))

		if t.To == order.PaymentCompleted && pipeline == nil {
			if pipeline, err = workflow.NewPipeline(o.ID(), at); err != nil {
				return false, err
			}
			if err = workflowRepo.SavePipeline(ctx, pipeline); err != nil {
				return false, err
			}
			events = append(events, workflow.NewStageStartedEvent(o.ID(), workflow.ApplicationReceived, "", actor.Email(), at))
		}
	}

	if err = workflowRepo.Append(ctx, events...); err != nil {
		return false, err
	}
	return true, nil
}

// lockOrder starts the critical section of an order: it reads the order with its row lock and
// checks that the actor may touch it.
func lockOrder(ctx context.Context, uow UoW, actor kernel.Actor, orderID kernel.UUID) (*order.Order, error) {
	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err = policy.CanAccessOrder(actor, o); err != nil {
		return nil, err
	}
	return o, nil
}

func now() time.Time {
	return time.Now().UTC()
}
