// Package workflowrepo persists per-order stage pipelines and the append-only event timeline.
package workflowrepo

import (
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/workflow"

	"github.com/google/uuid"
)

// StageDTO is one row per (order, stage).
type StageDTO struct {
	OrderID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Stage       string    `gorm:"type:text;primaryKey"`
	Sequence    int       `gorm:"not null"`
	Status      string    `gorm:"type:text;not null"`
	StartedAt   *time.Time
	CompletedAt *time.Time
}

func (StageDTO) TableName() string {
	return "workflow_stages"
}

// EventDTO is one timeline entry. Stage is empty for events that are not about a stage.
type EventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null"`
	Sequence    int64     `gorm:"not null"`
	Kind        string    `gorm:"type:text;not null"`
	Stage       string    `gorm:"type:text;not null;default:''"`
	Status      string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	Details     string    `gorm:"type:text;not null;default:''"`
	ActorEmail  string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false;not null"`
}

func (EventDTO) TableName() string {
	return "workflow_events"
}

func stagesFromDomain(p *workflow.Pipeline) []StageDTO {
	states := p.Stages()
	dtos := make([]StageDTO, 0, len(states))
	for _, s := range states {
		dtos = append(dtos, StageDTO{
			OrderID:     p.OrderID().Bytes(),
			Stage:       s.Stage.String(),
			Sequence:    s.Stage.Sequence(),
			Status:      s.Status.String(),
			StartedAt:   s.StartedAt,
			CompletedAt: s.CompletedAt,
		})
	}
	return dtos
}

func pipelineToDomain(orderID kernel.UUID, dtos []StageDTO) (*workflow.Pipeline, error) {
	states := make([]workflow.StageState, 0, len(dtos))
	for _, dto := range dtos {
		stage, err := workflow.ParseStage(dto.Stage)
		if err != nil {
			return nil, err
		}
		status, err := workflow.ParseStageStatus(dto.Status)
		if err != nil {
			return nil, err
		}
		states = append(states, workflow.StageState{
			Stage:       stage,
			Status:      status,
			StartedAt:   dto.StartedAt,
			CompletedAt: dto.CompletedAt,
		})
	}
	return workflow.RestorePipeline(orderID, states)
}

func eventFromDomain(e *workflow.Event) EventDTO {
	var stage string
	if e.Stage() != workflow.StageUnknown {
		stage = e.Stage().String()
	}
	return EventDTO{
		ID:          e.ID().Bytes(),
		OrderID:     e.OrderID().Bytes(),
		Sequence:    e.Sequence(),
		Kind:        string(e.Kind()),
		Stage:       stage,
		Status:      e.Status(),
		Description: e.Description(),
		Details:     e.Details(),
		ActorEmail:  e.ActorEmail(),
		CreatedAt:   e.CreatedAt().UTC(),
	}
}

func eventToDomain(dto EventDTO) (*workflow.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	kind, err := workflow.ParseEventKind(dto.Kind)
	if err != nil {
		return nil, err
	}
	stage := workflow.StageUnknown
	if dto.Stage != "" {
		if stage, err = workflow.ParseStage(dto.Stage); err != nil {
			return nil, err
		}
	}

	return workflow.RestoreEvent(
		id,
		orderID,
		dto.Sequence,
		kind,
		stage,
		dto.Status,
		dto.Description,
		dto.Details,
		dto.ActorEmail,
		dto.CreatedAt,
	), nil
}
