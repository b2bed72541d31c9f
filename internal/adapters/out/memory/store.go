// Package memory implements the persistence ports in process. It gives the same guarantees as
// the postgres adapter: one writer at a time, readers see committed snapshots only, and domain
// events are published after commit.
package memory

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"sync/atomic"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/employee"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/model/payment"
	"compliance/internal/core/domain/model/workflow"
	"compliance/internal/core/ports"
)

var (
	ErrTransactionNotStarted     = errors.New("transaction is not started")
	ErrTransactionAlreadyStarted = errors.New("transaction is already started")
)

// snapshot is an immutable view of the store. Writers copy the maps on Begin and replace
// values, never mutate them.
type snapshot struct {
	orders    map[string]*order.Order
	documents map[string]*document.Document
	payments  map[string]*payment.Record
	pipelines map[string]*workflow.Pipeline
	events    map[string][]*workflow.Event
	employees map[string]*employee.Employee
}

func emptySnapshot() *snapshot {
	return &snapshot{
		orders:    map[string]*order.Order{},
		documents: map[string]*document.Document{},
		payments:  map[string]*payment.Record{},
		pipelines: map[string]*workflow.Pipeline{},
		events:    map[string][]*workflow.Event{},
		employees: map[string]*employee.Employee{},
	}
}

func (s *snapshot) clone() *snapshot {
	return &snapshot{
		orders:    maps.Clone(s.orders),
		documents: maps.Clone(s.documents),
		payments:  maps.Clone(s.payments),
		pipelines: maps.Clone(s.pipelines),
		events:    maps.Clone(s.events),
		employees: maps.Clone(s.employees),
	}
}

// Store is the shared state behind every UnitOfWork it creates.
type Store struct {
	writer    chan struct{}
	state     atomic.Pointer[snapshot]
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewStore creates an empty store. publisher may be nil.
func NewStore(publisher ports.EventPublisher) *Store {
	s := &Store{
		writer:    make(chan struct{}, 1),
		publisher: publisher,
		logger:    slog.Default().With("component", "memory-store"),
	}
	s.state.Store(emptySnapshot())
	return s
}

// Create returns a new unit of work over the store.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

func (s *Store) lock(ctx context.Context) error {
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) unlock() {
	<-s.writer
}

func (s *Store) committed() *snapshot {
	return s.state.Load()
}
