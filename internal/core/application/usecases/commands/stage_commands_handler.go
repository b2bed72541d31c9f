package commands

import (
	"context"
	"time"

	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/model/workflow"
	"compliance/internal/pkg/errs"
)

// stageMutation is the part of a stage operation that runs under the order lock. It returns the
// timeline events to append; none means the requested end state already held.
type stageMutation func(o *order.Order, p *workflow.Pipeline, at time.Time) ([]*workflow.Event, error)

type stageRunner struct {
	uowFactory UoWFactory
}

func (r stageRunner) run(ctx context.Context, req stageRequest, mutate stageMutation) (workflow.Progress, error) {
	if err := req.Validate(); err != nil {
		return workflow.Progress{}, err
	}
	if err := policy.CanDriveWorkflow(req.Actor()); err != nil {
		return workflow.Progress{}, err
	}

	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return workflow.Progress{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := lockOrder(ctx, uow, req.Actor(), req.OrderID())
	if err != nil {
		return workflow.Progress{}, err
	}
	workflowRepo := uow.WorkflowRepository()
	pipeline, err := workflowRepo.FindPipeline(ctx, o.ID())
	if err != nil {
		return workflow.Progress{}, err
	}
	// the pipeline exists from PAYMENT_COMPLETED on
	if pipeline == nil {
		return workflow.Progress{}, errs.NewNotPaidError(o.ID().String(), o.Status().String())
	}

	at := now()
	events, err := mutate(o, pipeline, at)
	if err != nil {
		return workflow.Progress{}, err
	}
	if len(events) == 0 {
		return pipeline.Progress(), nil
	}

	if err = workflowRepo.SavePipeline(ctx, pipeline); err != nil {
		return workflow.Progress{}, err
	}
	if err = workflowRepo.Append(ctx, events...); err != nil {
		return workflow.Progress{}, err
	}
	changed, err := recomputeStatus(ctx, uow, o, req.Actor(), at)
	if err != nil {
		return workflow.Progress{}, err
	}
	if changed {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return workflow.Progress{}, err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return workflow.Progress{}, err
	}

	return pipeline.Progress(), nil
}

// CompleteStageCommandHandler completes a stage. Completing DEL completes the order; the
// first completion on an assigned order moves it to IN_PROGRESS.
type CompleteStageCommandHandler struct {
	runner stageRunner
}

func NewCompleteStageCommandHandler(uowFactory UoWFactory) CompleteStageCommandHandler {
	return CompleteStageCommandHandler{runner: stageRunner{uowFactory: uowFactory}}
}

func (h *CompleteStageCommandHandler) Handle(ctx context.Context, cmd CompleteStageCommand) (workflow.Progress, error) {
	return h.runner.run(ctx, cmd.stageRequest, func(o *order.Order, p *workflow.Pipeline, at time.Time) ([]*workflow.Event, error) {
		stage := cmd.Stage()
		if p.State(stage).Status == workflow.StageCompleted {
			return nil, nil
		}
		if err := o.EnsureNotTerminal(); err != nil {
			return nil, err
		}
		if !o.IsAssigned() {
			return nil, errs.NewInvalidStateError("order "+o.ID().String(), "stages can only be completed once the order is assigned")
		}

		if _, err := p.Complete(stage, at); err != nil {
			return nil, err
		}
		actor := cmd.Actor().Email()
		events := []*workflow.Event{workflow.NewStageCompletedEvent(o.ID(), stage, cmd.Description(), actor, at)}

		if next := stage.Next(); cmd.AutoAdvance() && next != workflow.StageUnknown {
			if _, err := p.Advance(next, at); err != nil {
				return nil, err
			}
			events = append(events, workflow.NewStageStartedEvent(o.ID(), next, "", actor, at))
		}
		return events, nil
	})
}

// AdvanceStageCommandHandler starts the next stage of the pipeline.
type AdvanceStageCommandHandler struct {
	runner stageRunner
}

func NewAdvanceStageCommandHandler(uowFactory UoWFactory) AdvanceStageCommandHandler {
	return AdvanceStageCommandHandler{runner: stageRunner{uowFactory: uowFactory}}
}

func (h *AdvanceStageCommandHandler) Handle(ctx context.Context, cmd AdvanceStageCommand) (workflow.Progress, error) {
	return h.runner.run(ctx, cmd.stageRequest, func(o *order.Order, p *workflow.Pipeline, at time.Time) ([]*workflow.Event, error) {
		stage := cmd.Stage()
		if p.State(stage).Status == workflow.StageInProgress {
			return nil, nil
		}
		if err := o.EnsureNotTerminal(); err != nil {
			return nil, err
		}
		if _, err := p.Advance(stage, at); err != nil {
			return nil, err
		}
		return []*workflow.Event{workflow.NewStageStartedEvent(o.ID(), stage, cmd.Description(), cmd.Actor().Email(), at)}, nil
	})
}
