package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"compliance/internal/adapters/out/metrics"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	err   error
	calls int
}

func (p *stubPublisher) Publish(_ context.Context, _ ...kernel.DomainEvent) error {
	p.calls++
	return p.err
}

func changed(from, to string) order.StatusChangedEvent {
	return order.StatusChangedEvent{
		Event: kernel.NewEvent(order.EventStatusChanged, kernel.NewUUID(), time.Now()),
		From:  from,
		To:    to,
	}
}

func TestCountingPublisher_CountsTransitionsAndEvents(t *testing.T) {
	m := metrics.New()
	next := &stubPublisher{}
	p := m.WrapPublisher(next)

	err := p.Publish(t.Context(),
		changed("CREATED", "DOCUMENTS_PENDING"),
		changed("DOCUMENTS_PENDING", "DOCUMENTS_VERIFIED"),
		changed("CREATED", "DOCUMENTS_PENDING"),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)

	assert.InDelta(t, 2, testutil.ToFloat64(m.StatusTransitionsTotal.WithLabelValues("CREATED", "DOCUMENTS_PENDING")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.StatusTransitionsTotal.WithLabelValues("DOCUMENTS_PENDING", "DOCUMENTS_VERIFIED")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.EventsPublishedTotal.WithLabelValues(order.EventStatusChanged, "ok")), 0)
}

func TestCountingPublisher_CountsFailures(t *testing.T) {
	m := metrics.New()
	boom := errors.New("boom")
	p := m.WrapPublisher(&stubPublisher{err: boom})

	err := p.Publish(t.Context(), changed("CREATED", "CANCELLED"))
	require.ErrorIs(t, err, boom)
	assert.InDelta(t, 1, testutil.ToFloat64(m.EventsPublishedTotal.WithLabelValues(order.EventStatusChanged, "error")), 0)
}

func TestObserveReconcile(t *testing.T) {
	m := metrics.New()

	m.ObserveReconcile(5, 2, 1, nil)
	m.ObserveReconcile(1, 0, 0, errors.New("provider down"))

	assert.InDelta(t, 6, testutil.ToFloat64(m.ReconciledPaymentTotal.WithLabelValues("checked")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.ReconciledPaymentTotal.WithLabelValues("confirmed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ReconciledPaymentTotal.WithLabelValues("failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ReconcileRunsTotal.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ReconcileRunsTotal.WithLabelValues("error")), 0)
}

func TestEchoMiddleware_LabelsByRouteTemplate(t *testing.T) {
	m := metrics.New()
	e := echo.New()
	e.Use(m.EchoMiddleware())
	e.GET("/orders/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration, "compliance_http_request_duration_seconds"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `route="/orders/:id"`), body)
	assert.Contains(t, body, `compliance_http_request_duration_seconds_count{method="GET",route="/orders/:id",status="204"} 2`)
}
