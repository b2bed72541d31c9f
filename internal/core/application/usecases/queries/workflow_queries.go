package queries

import (
	"context"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/workflow"
	"compliance/internal/core/ports"
)

// GetProgressQuery reads the stage pipeline of an order.
type GetProgressQuery struct {
	orderRef
}

func NewGetProgressQuery(actor kernel.Actor, orderID kernel.UUID) (GetProgressQuery, error) {
	ref, err := newOrderRef(actor, orderID)
	if err != nil {
		return GetProgressQuery{}, err
	}
	return GetProgressQuery{orderRef: ref}, nil
}

type GetProgressQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetProgressQueryHandler(uowFactory ports.UnitOfWorkFactory) GetProgressQueryHandler {
	return GetProgressQueryHandler{uowFactory: uowFactory}
}

// Handle returns the pipeline's progress. Orders that are not paid yet have no pipeline and
// report every stage PENDING at 0%.
func (h GetProgressQueryHandler) Handle(ctx context.Context, query GetProgressQuery) (workflow.Progress, error) {
	uow := h.uowFactory.Create()
	o, err := readOrder(ctx, uow, query.orderRef)
	if err != nil {
		return workflow.Progress{}, err
	}
	pipeline, err := uow.WorkflowRepository().FindPipeline(ctx, o.ID())
	if err != nil {
		return workflow.Progress{}, err
	}
	if pipeline == nil {
		return workflow.PendingProgress(), nil
	}
	return pipeline.Progress(), nil
}

// GetTimelineQuery reads the workflow event log of an order.
type GetTimelineQuery struct {
	orderRef
}

func NewGetTimelineQuery(actor kernel.Actor, orderID kernel.UUID) (GetTimelineQuery, error) {
	ref, err := newOrderRef(actor, orderID)
	if err != nil {
		return GetTimelineQuery{}, err
	}
	return GetTimelineQuery{orderRef: ref}, nil
}

type GetTimelineQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetTimelineQueryHandler(uowFactory ports.UnitOfWorkFactory) GetTimelineQueryHandler {
	return GetTimelineQueryHandler{uowFactory: uowFactory}
}

// Handle returns events ordered by creation time, ties broken by sequence.
func (h GetTimelineQueryHandler) Handle(ctx context.Context, query GetTimelineQuery) ([]*workflow.Event, error) {
	uow := h.uowFactory.Create()
	o, err := readOrder(ctx, uow, query.orderRef)
	if err != nil {
		return nil, err
	}
	events, err := uow.WorkflowRepository().Timeline(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	workflow.SortTimeline(events)
	return events, nil
}
