package ports

import (
	"context"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/workflow"
)

// WorkflowRepository persists stage pipelines and the append-only workflow event log.
type WorkflowRepository interface {
	// SavePipeline inserts or updates every stage row of the pipeline.
	SavePipeline(ctx context.Context, pipeline *workflow.Pipeline) error

	// FindPipeline returns nil when the order has no pipeline yet.
	FindPipeline(ctx context.Context, orderID kernel.UUID) (*workflow.Pipeline, error)

	// Append stores events in the given order and assigns each the next per-order sequence.
	// Callers hold the order lock.
	Append(ctx context.Context, events ...*workflow.Event) error

	// Timeline returns the order's events ordered by creation time, then sequence.
	Timeline(ctx context.Context, orderID kernel.UUID) ([]*workflow.Event, error)
}
