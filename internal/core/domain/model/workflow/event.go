package workflow

import (
	"errors"
	"sort"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"
)

var ErrEventIsNotConstructed = errors.New("Event must be created via a workflow event constructor")

// EventKind classifies audit entries.
type EventKind string

const (
	KindStatusChanged  EventKind = "STATUS_CHANGED"
	KindStageStarted   EventKind = "STAGE_STARTED"
	KindStageCompleted EventKind = "STAGE_COMPLETED"
	KindAssigned       EventKind = "ASSIGNED"
)

func ParseEventKind(s string) (EventKind, error) {
	switch k := EventKind(s); k {
	case KindStatusChanged, KindStageStarted, KindStageCompleted, KindAssigned:
		return k, nil
	default:
		return "", errs.NewValueIsInvalidError("event kind " + s)
	}
}

// Event is an immutable entry of an order's timeline. Sequence is assigned by the repository on
// append and totally orders the events of one order.
type Event struct {
	id          kernel.UUID
	orderID     kernel.UUID
	sequence    int64
	kind        EventKind
	stage       Stage
	status      string
	description string
	details     string
	actorEmail  string
	createdAt   time.Time

	isConstructed bool
}

// NewStatusChangedEvent records one edge of the order status chain.
func NewStatusChangedEvent(orderID kernel.UUID, from, to, actor string, at time.Time) *Event {
	return newEvent(orderID, KindStatusChanged, StageUnknown, to, "Order status changed", from+" -> "+to, actor, at)
}

func NewStageStartedEvent(orderID kernel.UUID, stage Stage, description, actor string, at time.Time) *Event {
	if description == "" {
		description = stage.Label() + " started"
	}
	return newEvent(orderID, KindStageStarted, stage, StageInProgress.String(), description, "", actor, at)
}

func NewStageCompletedEvent(orderID kernel.UUID, stage Stage, description, actor string, at time.Time) *Event {
	if description == "" {
		description = stage.Label() + " completed"
	}
	return newEvent(orderID, KindStageCompleted, stage, StageCompleted.String(), description, "", actor, at)
}

// NewAssignedEvent records an assignment or a re-assignment.
func NewAssignedEvent(orderID kernel.UUID, assignee, previous, actor string, at time.Time) *Event {
	details := "assigned to " + assignee
	if previous != "" {
		details = "reassigned from " + previous + " to " + assignee
	}
	return newEvent(orderID, KindAssigned, StageUnknown, "ASSIGNED", "Order assigned", details, actor, at)
}

func newEvent(orderID kernel.UUID, kind EventKind, stage Stage, status, description, details, actor string, at time.Time) *Event {
	return &Event{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		kind:          kind,
		stage:         stage,
		status:        status,
		description:   description,
		details:       details,
		actorEmail:    actor,
		createdAt:     at.UTC(),
		isConstructed: true,
	}
}

// RestoreEvent rebuilds a persisted event.
func RestoreEvent(
	id, orderID kernel.UUID,
	sequence int64,
	kind EventKind,
	stage Stage,
	status, description, details, actorEmail string,
	createdAt time.Time,
) *Event {
	return &Event{
		id:            id,
		orderID:       orderID,
		sequence:      sequence,
		kind:          kind,
		stage:         stage,
		status:        status,
		description:   description,
		details:       details,
		actorEmail:    actorEmail,
		createdAt:     createdAt,
		isConstructed: true,
	}
}

func (e *Event) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

func (e *Event) ID() kernel.UUID      { return e.id }
func (e *Event) OrderID() kernel.UUID { return e.orderID }
func (e *Event) Sequence() int64      { return e.sequence }
func (e *Event) Kind() EventKind      { return e.kind }
func (e *Event) Stage() Stage         { return e.stage }
func (e *Event) Status() string       { return e.status }
func (e *Event) Description() string  { return e.description }
func (e *Event) Details() string      { return e.details }
func (e *Event) ActorEmail() string   { return e.actorEmail }
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// AssignSequence is called by repositories while appending under the order lock.
func (e *Event) AssignSequence(seq int64) {
	e.sequence = seq
}

// SortTimeline orders events by creation time, ties broken by sequence.
func SortTimeline(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].createdAt.Equal(events[j].createdAt) {
			return events[i].createdAt.Before(events[j].createdAt)
		}
		return events[i].sequence < events[j].sequence
	})
}
