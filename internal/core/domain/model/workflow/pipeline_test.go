package workflow_test

import (
	"testing"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/workflow"
	"compliance/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestPipeline(t *testing.T) *workflow.Pipeline {
	t.Helper()
	p, err := workflow.NewPipeline(kernel.NewUUID(), testNow)
	require.NoError(t, err)
	return p
}

func TestParseStage(t *testing.T) {
	for i, stage := range workflow.AllStages() {
		parsed, err := workflow.ParseStage(stage.String())

		require.NoError(t, err)
		assert.Equal(t, stage, parsed)
		assert.Equal(t, i+1, stage.Sequence())
		assert.NotEmpty(t, stage.Label())
	}

	stage, err := workflow.ParseStage(" proc ")
	require.NoError(t, err)
	assert.Equal(t, workflow.Processing, stage)

	_, err = workflow.ParseStage("REVIEW")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewPipeline(t *testing.T) {
	p := newTestPipeline(t)

	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, workflow.ApplicationReceived, current)
	for _, state := range p.Stages()[1:] {
		assert.Equal(t, workflow.StagePending, state.Status)
	}
	assert.Equal(t, 0, p.Progress().CompletionPercentage)
}

// Scenario B: advancing to PROC while APP_REC is still in progress.
func TestPipeline_AdvanceRejectsSkipping(t *testing.T) {
	p := newTestPipeline(t)

	changed, err := p.Advance(workflow.Processing, testNow)

	assert.False(t, changed)
	require.ErrorIs(t, err, errs.ErrIllegalTransition)
	assert.Equal(t, workflow.StagePending, p.State(workflow.Processing).Status)
}

func TestPipeline_CompleteAndAdvance(t *testing.T) {
	t.Run("walks the whole pipeline", func(t *testing.T) {
		p := newTestPipeline(t)

		for _, stage := range workflow.AllStages() {
			changed, err := p.Complete(stage, testNow)
			require.NoError(t, err)
			require.True(t, changed)

			if next := stage.Next(); next != workflow.StageUnknown {
				changed, err = p.Advance(next, testNow)
				require.NoError(t, err)
				require.True(t, changed)
			}
		}

		assert.True(t, p.AllCompleted())
		progress := p.Progress()
		assert.Equal(t, 100, progress.CompletionPercentage)
		assert.Equal(t, workflow.Delivery, progress.CurrentStage)
	})

	t.Run("complete requires the in progress stage", func(t *testing.T) {
		p := newTestPipeline(t)

		_, err := p.Complete(workflow.DocumentVerification, testNow)

		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("duplicate requests are idempotent", func(t *testing.T) {
		p := newTestPipeline(t)
		_, err := p.Complete(workflow.ApplicationReceived, testNow)
		require.NoError(t, err)
		_, err = p.Advance(workflow.DocumentVerification, testNow)
		require.NoError(t, err)

		changed, err := p.Complete(workflow.ApplicationReceived, testNow)
		require.NoError(t, err)
		assert.False(t, changed)

		changed, err = p.Advance(workflow.DocumentVerification, testNow)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("completed stages are never revisited", func(t *testing.T) {
		p := newTestPipeline(t)
		_, err := p.Complete(workflow.ApplicationReceived, testNow)
		require.NoError(t, err)

		_, err = p.Advance(workflow.ApplicationReceived, testNow)

		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})
}

func TestPipeline_Progress(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Complete(workflow.ApplicationReceived, testNow)
	require.NoError(t, err)

	progress := p.Progress()

	// 1 of 8 stages is 12.5 percent, rounded half up
	assert.Equal(t, 13, progress.CompletionPercentage)
	assert.Equal(t, workflow.DocumentVerification, progress.CurrentStage)
	assert.Len(t, progress.Stages, workflow.StageCount)

	pending := workflow.PendingProgress()
	assert.Equal(t, 0, pending.CompletionPercentage)
	assert.Equal(t, workflow.ApplicationReceived, pending.CurrentStage)
}

func TestRestorePipeline(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Complete(workflow.ApplicationReceived, testNow)
	require.NoError(t, err)

	restored, err := workflow.RestorePipeline(p.OrderID(), p.Stages())
	require.NoError(t, err)
	assert.Equal(t, p.Stages(), restored.Stages())

	broken := p.Stages()
	broken[4].Status = workflow.StageInProgress
	_, err = workflow.RestorePipeline(p.OrderID(), broken)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = workflow.RestorePipeline(p.OrderID(), broken[:3])
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestSortTimeline(t *testing.T) {
	orderID := kernel.NewUUID()
	later := workflow.NewStageStartedEvent(orderID, workflow.ApplicationReceived, "", "system", testNow.Add(time.Second))
	first := workflow.NewStatusChangedEvent(orderID, "CREATED", "DOCUMENTS_PENDING", "c@x.com", testNow)
	second := workflow.NewStatusChangedEvent(orderID, "DOCUMENTS_PENDING", "DOCUMENTS_VERIFIED", "c@x.com", testNow)
	first.AssignSequence(1)
	second.AssignSequence(2)
	later.AssignSequence(3)

	events := []*workflow.Event{later, second, first}
	workflow.SortTimeline(events)

	assert.Equal(t, []*workflow.Event{first, second, later}, events)
	assert.Equal(t, "Application Received started", later.Description())
	assert.Equal(t, workflow.KindStatusChanged, first.Kind())
}
