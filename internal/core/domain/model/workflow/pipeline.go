package workflow

import (
	"errors"
	"fmt"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"
)

var ErrPipelineIsNotConstructed = errors.New("Pipeline must be created via NewPipeline or RestorePipeline")

// StageState is the state of one stage for one order.
type StageState struct {
	Stage       Stage
	Status      StageStatus
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// Pipeline is the per-order instance of the stage sequence.
type Pipeline struct {
	orderID kernel.UUID
	states  []StageState

	isConstructed bool
}

// NewPipeline instantiates the pipeline for a paid order: the first stage starts immediately,
// all others are PENDING.
func NewPipeline(orderID kernel.UUID, at time.Time) (*Pipeline, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	startedAt := at.UTC()
	states := make([]StageState, 0, StageCount)
	for _, stage := range AllStages() {
		state := StageState{Stage: stage, Status: StagePending}
		if stage == ApplicationReceived {
			state.Status = StageInProgress
			state.StartedAt = &startedAt
		}
		states = append(states, state)
	}

	return &Pipeline{orderID: orderID, states: states, isConstructed: true}, nil
}

// RestorePipeline rebuilds a pipeline from persisted stage rows and checks the ordering invariant.
func RestorePipeline(orderID kernel.UUID, states []StageState) (*Pipeline, error) {
	if len(states) != StageCount {
		return nil, errs.NewValueIsInvalidErrorWithCause("pipeline", fmt.Errorf("expected %d stages, got %d", StageCount, len(states)))
	}

	ordered := make([]StageState, StageCount)
	seen := make(map[Stage]bool, StageCount)
	for _, state := range states {
		if err := state.Stage.Validate(); err != nil {
			return nil, err
		}
		if seen[state.Stage] {
			return nil, errs.NewValueIsInvalidErrorWithCause("pipeline", fmt.Errorf("duplicate stage %s", state.Stage))
		}
		seen[state.Stage] = true
		ordered[state.Stage-1] = state
	}

	for i := 1; i < StageCount; i++ {
		if ordered[i].Status != StagePending && ordered[i-1].Status != StageCompleted {
			return nil, errs.NewValueIsInvalidErrorWithCause("pipeline", fmt.Errorf(
				"stage %s is %s while %s is %s",
				ordered[i].Stage, ordered[i].Status, ordered[i-1].Stage, ordered[i-1].Status,
			))
		}
	}

	return &Pipeline{orderID: orderID, states: ordered, isConstructed: true}, nil
}

func (p *Pipeline) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPipelineIsNotConstructed
	}
	return nil
}

func (p *Pipeline) OrderID() kernel.UUID {
	return p.orderID
}

// Stages returns a copy of all stage states in pipeline order.
func (p *Pipeline) Stages() []StageState {
	out := make([]StageState, len(p.states))
	copy(out, p.states)
	return out
}

func (p *Pipeline) State(stage Stage) StageState {
	return p.states[stage-1]
}

// Current returns the IN_PROGRESS stage, if any.
func (p *Pipeline) Current() (Stage, bool) {
	for _, state := range p.states {
		if state.Status == StageInProgress {
			return state.Stage, true
		}
	}
	return StageUnknown, false
}

func (p *Pipeline) CompletedCount() int {
	n := 0
	for _, state := range p.states {
		if state.Status == StageCompleted {
			n++
		}
	}
	return n
}

func (p *Pipeline) AnyCompleted() bool {
	return p.CompletedCount() > 0
}

func (p *Pipeline) AllCompleted() bool {
	return p.CompletedCount() == StageCount
}

// Complete marks stage COMPLETED. stage must be the IN_PROGRESS stage. Completing a stage
// that is already COMPLETED reports false without error, so a concurrent duplicate request
// succeeds idempotently.
func (p *Pipeline) Complete(stage Stage, at time.Time) (bool, error) {
	if err := stage.Validate(); err != nil {
		return false, err
	}

	state := &p.states[stage-1]
	switch state.Status {
	case StageCompleted:
		return false, nil
	case StageInProgress:
		completedAt := at.UTC()
		state.Status = StageCompleted
		state.CompletedAt = &completedAt
		return true, nil
	default:
		return false, errs.NewIllegalTransitionError("stage "+stage.String(), state.Status.String(), StageCompleted.String())
	}
}

// Advance starts next. Its direct predecessor must be COMPLETED and next must still be PENDING.
// Advancing to a stage that is already IN_PROGRESS reports false without error.
func (p *Pipeline) Advance(next Stage, at time.Time) (bool, error) {
	if err := next.Validate(); err != nil {
		return false, err
	}

	state := &p.states[next-1]
	switch state.Status {
	case StageInProgress:
		return false, nil
	case StageCompleted:
		return false, errs.NewIllegalTransitionError("stage "+next.String(), state.Status.String(), StageInProgress.String())
	}

	previous := next.Previous()
	if previous == StageUnknown {
		return false, errs.NewIllegalTransitionError("stage "+next.String(), state.Status.String(), StageInProgress.String())
	}
	if prevState := p.states[previous-1]; prevState.Status != StageCompleted {
		return false, errs.NewIllegalTransitionError(
			"stage "+next.String(),
			state.Status.String(),
			fmt.Sprintf("%s while %s is %s", StageInProgress, previous, prevState.Status),
		)
	}

	startedAt := at.UTC()
	state.Status = StageInProgress
	state.StartedAt = &startedAt
	return true, nil
}

// Progress is the read view of a pipeline.
type Progress struct {
	CurrentStage         Stage
	CompletionPercentage int
	Stages               []StageState
}

// Progress reports the current stage and the completion percentage, rounded half up.
// When no stage is IN_PROGRESS the current stage is the next one to start, or the last stage
// once everything is completed.
func (p *Pipeline) Progress() Progress {
	completed := p.CompletedCount()
	current, ok := p.Current()
	if !ok {
		current = Delivery
		for _, state := range p.states {
			if state.Status != StageCompleted {
				current = state.Stage
				break
			}
		}
	}

	return Progress{
		CurrentStage:         current,
		CompletionPercentage: percentage(completed, StageCount),
		Stages:               p.Stages(),
	}
}

// PendingProgress is the view of an order whose pipeline does not exist yet.
func PendingProgress() Progress {
	states := make([]StageState, 0, StageCount)
	for _, stage := range AllStages() {
		states = append(states, StageState{Stage: stage, Status: StagePending})
	}
	return Progress{CurrentStage: ApplicationReceived, Stages: states}
}

func percentage(completed, total int) int {
	return (completed*200 + total) / (2 * total)
}
