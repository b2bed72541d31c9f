// Package metrics exposes Prometheus collectors for order lifecycle events, HTTP latency and
// payment reconciliation.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "compliance"

// Metrics holds every collector of the service, registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	StatusTransitionsTotal *prometheus.CounterVec
	EventsPublishedTotal   *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	ReconciledPaymentTotal *prometheus.CounterVec
	ReconcileRunsTotal     *prometheus.CounterVec
}

// New creates the collectors on a fresh registry that also carries the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,

		StatusTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "order_status_transitions_total",
				Help:      "Order status edges taken, by source and target status.",
			},
			[]string{"from", "to"},
		),

		EventsPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "domain_events_published_total",
				Help:      "Domain events handed to the event publisher, by event name and result.",
			},
			[]string{"event", "result"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method, route template and status code.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),

		ReconciledPaymentTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payment_reconciliation_records_total",
				Help:      "Open payment records examined by the reconciliation job, by outcome.",
			},
			[]string{"outcome"},
		),

		ReconcileRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payment_reconciliation_runs_total",
				Help:      "Reconciliation job runs, by result.",
			},
			[]string{"result"},
		),
	}
}

// Registry is the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveReconcile records one reconciliation run.
func (m *Metrics) ObserveReconcile(checked, confirmed, failed int, err error) {
	m.ReconciledPaymentTotal.WithLabelValues("checked").Add(float64(checked))
	m.ReconciledPaymentTotal.WithLabelValues("confirmed").Add(float64(confirmed))
	m.ReconciledPaymentTotal.WithLabelValues("failed").Add(float64(failed))

	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ReconcileRunsTotal.WithLabelValues(result).Inc()
}

// EchoMiddleware observes request latency. Routes are labelled by their template, e.g.
// /orders/:id, so order ids never become label values.
func (m *Metrics) EchoMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// CountingPublisher decorates an EventPublisher with event and status transition counters.
type CountingPublisher struct {
	next    ports.EventPublisher
	metrics *Metrics
}

var _ ports.EventPublisher = &CountingPublisher{}

func (m *Metrics) WrapPublisher(next ports.EventPublisher) *CountingPublisher {
	return &CountingPublisher{next: next, metrics: m}
}

func (p *CountingPublisher) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	for _, e := range events {
		if changed, ok := e.(order.StatusChangedEvent); ok {
			p.metrics.StatusTransitionsTotal.WithLabelValues(changed.From, changed.To).Inc()
		}
	}

	err := p.next.Publish(ctx, events...)
	result := "ok"
	if err != nil {
		result = "error"
	}
	for _, e := range events {
		p.metrics.EventsPublishedTotal.WithLabelValues(e.EventName(), result).Inc()
	}
	return err
}
