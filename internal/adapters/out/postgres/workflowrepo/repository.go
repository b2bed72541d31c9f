package workflowrepo

import (
	"context"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/workflow"
	"compliance/internal/core/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.WorkflowRepository = &GormWorkflowRepository{}

type GormWorkflowRepository struct {
	db *gorm.DB
}

func NewGormWorkflowRepository(db *gorm.DB) *GormWorkflowRepository {
	return &GormWorkflowRepository{db: db}
}

// SavePipeline upserts every stage row of the pipeline.
func (r *GormWorkflowRepository) SavePipeline(ctx context.Context, pipeline *workflow.Pipeline) error {
	if err := pipeline.Validate(); err != nil {
		return err
	}

	dtos := stagesFromDomain(pipeline)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "stage"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "started_at", "completed_at"}),
		}).
		Create(&dtos).Error
}

// FindPipeline returns nil, nil when the order has no stage rows yet.
func (r *GormWorkflowRepository) FindPipeline(ctx context.Context, orderID kernel.UUID) (*workflow.Pipeline, error) {
	var dtos []StageDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("sequence").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, nil
	}
	return pipelineToDomain(orderID, dtos)
}

// Append numbers events after the order's highest sequence. Callers hold the order's row lock,
// which keeps the read of the current maximum and the insert race free.
func (r *GormWorkflowRepository) Append(ctx context.Context, events ...*workflow.Event) error {
	if len(events) == 0 {
		return nil
	}

	db := r.db.WithContext(ctx)
	last := map[string]int64{}
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}

		key := e.OrderID().String()
		seq, ok := last[key]
		if !ok {
			if err := db.Model(&EventDTO{}).
				Select("COALESCE(MAX(sequence), 0)").
				Where("order_id = ?", e.OrderID().Bytes()).
				Scan(&seq).Error; err != nil {
				return err
			}
		}
		seq++
		last[key] = seq
		e.AssignSequence(seq)
		dtos = append(dtos, eventFromDomain(e))
	}

	return db.Create(&dtos).Error
}

// Timeline returns the order's events by creation time, then sequence.
func (r *GormWorkflowRepository) Timeline(ctx context.Context, orderID kernel.UUID) ([]*workflow.Event, error) {
	var dtos []EventDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at").Order("sequence").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]*workflow.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := eventToDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	workflow.SortTimeline(events)
	return events, nil
}
