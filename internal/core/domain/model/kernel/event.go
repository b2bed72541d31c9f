package kernel

import "time"

// DomainEvent is a fact raised by an aggregate and published after its transaction commits.
type DomainEvent interface {
	EventID() UUID
	EventName() string
	AggregateID() UUID
	OccurredAt() time.Time
}

// Event carries the envelope fields shared by all domain events. Concrete events embed it.
type Event struct {
	ID        UUID      `json:"eventId"`
	Name      string    `json:"name"`
	Aggregate UUID      `json:"aggregateId"`
	At        time.Time `json:"occurredAt"`
}

func NewEvent(name string, aggregateID UUID, at time.Time) Event {
	return Event{ID: NewUUID(), Name: name, Aggregate: aggregateID, At: at.UTC()}
}

func (e Event) EventID() UUID {
	return e.ID
}

func (e Event) EventName() string {
	return e.Name
}

func (e Event) AggregateID() UUID {
	return e.Aggregate
}

func (e Event) OccurredAt() time.Time {
	return e.At
}
