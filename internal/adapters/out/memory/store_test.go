package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"compliance/internal/adapters/out/memory"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []kernel.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...kernel.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	email, err := kernel.NewEmail("c@x.com")
	require.NoError(t, err)
	total, err := kernel.NewMoney(decimal.RequireFromString("499.00"), "INR")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), "GST Registration", email, total, time.Now())
	require.NoError(t, err)
	return o
}

func TestUnitOfWork_CommitPublishesEvents(t *testing.T) {
	publisher := &recordingPublisher{}
	store := memory.NewStore(publisher)
	o := newOrder(t)

	uow := store.Create()
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.OrderRepository().Add(t.Context(), o))

	_, err := store.Create().OrderRepository().Get(t.Context(), o.ID())
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err), "uncommitted writes are invisible")
	assert.Equal(t, 0, publisher.count())

	require.NoError(t, uow.Commit(t.Context()))
	require.NoError(t, uow.Rollback(t.Context()))

	got, err := store.Create().OrderRepository().Get(t.Context(), o.ID())
	require.NoError(t, err)
	assert.Equal(t, o.ID(), got.ID())
	assert.Equal(t, 1, publisher.count())
	assert.Empty(t, o.DomainEvents())
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	publisher := &recordingPublisher{}
	store := memory.NewStore(publisher)
	o := newOrder(t)

	uow := store.Create()
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.OrderRepository().Add(t.Context(), o))
	require.NoError(t, uow.Rollback(t.Context()))

	_, err := store.Create().OrderRepository().Get(t.Context(), o.ID())
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	assert.Equal(t, 0, publisher.count())
}

func TestUnitOfWork_WritesNeedTransaction(t *testing.T) {
	store := memory.NewStore(nil)
	uow := store.Create()

	err := uow.OrderRepository().Add(t.Context(), newOrder(t))
	require.ErrorIs(t, err, memory.ErrTransactionNotStarted)

	_, err = uow.OrderRepository().GetForUpdate(t.Context(), kernel.NewUUID())
	require.ErrorIs(t, err, memory.ErrTransactionNotStarted)

	require.ErrorIs(t, uow.Commit(t.Context()), memory.ErrTransactionNotStarted)
}

func TestUnitOfWork_BeginTwice(t *testing.T) {
	uow := memory.NewStore(nil).Create()
	require.NoError(t, uow.Begin(t.Context()))
	defer uow.Rollback(t.Context()) //nolint:errcheck // rollback of a test transaction

	require.ErrorIs(t, uow.Begin(t.Context()), memory.ErrTransactionAlreadyStarted)
}

func TestUnitOfWork_SingleWriter(t *testing.T) {
	store := memory.NewStore(nil)

	first := store.Create()
	require.NoError(t, first.Begin(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	second := store.Create()
	require.ErrorIs(t, second.Begin(ctx), context.DeadlineExceeded)

	require.NoError(t, first.Rollback(t.Context()))
	require.NoError(t, second.Begin(t.Context()))
	require.NoError(t, second.Rollback(t.Context()))
}

func TestOrderRepository_ReturnsCopies(t *testing.T) {
	store := memory.NewStore(nil)
	o := newOrder(t)

	uow := store.Create()
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.OrderRepository().Add(t.Context(), o))
	require.NoError(t, uow.Commit(t.Context()))

	read, err := store.Create().OrderRepository().Get(t.Context(), o.ID())
	require.NoError(t, err)
	require.NoError(t, read.Cancel("changed my mind", time.Now()))

	again, err := store.Create().OrderRepository().Get(t.Context(), o.ID())
	require.NoError(t, err)
	assert.Nil(t, again.CancelledAt())
	assert.Equal(t, order.Created, again.Status())
}
