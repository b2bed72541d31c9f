package commands

import (
	"errors"
	"strings"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/workflow"
	"compliance/internal/pkg/guard"
)

var ErrStageCommandIsNotConstructed = errors.New(
	"stage command must be created via its constructor",
)

// stageRequest names a stage of one order's pipeline.
type stageRequest struct { //nolint:recvcheck //using for validation
	actor       kernel.Actor
	orderID     kernel.UUID
	stage       workflow.Stage
	description string

	guard guard.ConstructorGuard
}

func newStageRequest(actor kernel.Actor, orderID kernel.UUID, stageCode, description string) (stageRequest, error) {
	stage, stageErr := workflow.ParseStage(stageCode)
	if err := errors.Join(actor.Validate(), orderID.Validate(), stageErr); err != nil {
		return stageRequest{}, err
	}
	return stageRequest{
		actor:       actor,
		orderID:     orderID,
		stage:       stage,
		description: strings.TrimSpace(description),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (r stageRequest) Validate() error {
	return r.guard.Validate(ErrStageCommandIsNotConstructed)
}

func (r stageRequest) Actor() kernel.Actor   { return r.actor }
func (r stageRequest) OrderID() kernel.UUID  { return r.orderID }
func (r stageRequest) Stage() workflow.Stage { return r.stage }
func (r stageRequest) Description() string   { return r.description }

// CompleteStageCommand completes the IN_PROGRESS stage. With autoAdvance the successor is
// started in the same step.
type CompleteStageCommand struct {
	stageRequest
	autoAdvance bool
}

func NewCompleteStageCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	stageCode, description string,
	autoAdvance bool,
) (CompleteStageCommand, error) {
	req, err := newStageRequest(actor, orderID, stageCode, description)
	if err != nil {
		return CompleteStageCommand{}, err
	}
	return CompleteStageCommand{stageRequest: req, autoAdvance: autoAdvance}, nil
}

func (c CompleteStageCommand) AutoAdvance() bool { return c.autoAdvance }

// AdvanceStageCommand starts the stage following the last completed one.
type AdvanceStageCommand struct {
	stageRequest
}

func NewAdvanceStageCommand(actor kernel.Actor, orderID kernel.UUID, stageCode, description string) (AdvanceStageCommand, error) {
	req, err := newStageRequest(actor, orderID, stageCode, description)
	if err != nil {
		return AdvanceStageCommand{}, err
	}
	return AdvanceStageCommand{stageRequest: req}, nil
}
