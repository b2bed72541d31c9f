package order

import (
	"time"

	"compliance/internal/core/domain/model/kernel"
)

const (
	EventCreated       = "order.created"
	EventStatusChanged = "order.status_changed"
	EventAssigned      = "order.assigned"
	EventCancelled     = "order.cancelled"
)

type CreatedEvent struct {
	kernel.Event
	CustomerEmail string `json:"customerEmail"`
	ServiceName   string `json:"serviceName"`
	TotalAmount   string `json:"totalAmount"`
	Currency      string `json:"currency"`
}

type StatusChangedEvent struct {
	kernel.Event
	From string `json:"from"`
	To   string `json:"to"`
}

type AssignedEvent struct {
	kernel.Event
	AssigneeEmail string `json:"assigneeEmail"`
	PreviousEmail string `json:"previousEmail,omitempty"`
}

type CancelledEvent struct {
	kernel.Event
	Reason string `json:"reason,omitempty"`
}

func newCreatedEvent(o *Order, at time.Time) CreatedEvent {
	return CreatedEvent{
		Event:         kernel.NewEvent(EventCreated, o.id, at),
		CustomerEmail: o.customerEmail.String(),
		ServiceName:   o.serviceName,
		TotalAmount:   o.total.Amount().StringFixed(kernel.CurrencyExponent(o.total.Currency())),
		Currency:      o.total.Currency(),
	}
}

func newStatusChangedEvent(id kernel.UUID, t Transition, at time.Time) StatusChangedEvent {
	return StatusChangedEvent{
		Event: kernel.NewEvent(EventStatusChanged, id, at),
		From:  t.From.String(),
		To:    t.To.String(),
	}
}
