// Package metrics exposes Prometheus collectors for the HTTP surface and the
// blueprint store.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arsw/blueprints/internal/blueprint"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	StoreOps        *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
	RateLimited     prometheus.Counter
	StoreUp         prometheus.Gauge
	BlueprintsTotal prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blueprints_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blueprints_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		StoreOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blueprints_store_operations_total",
				Help: "Blueprint store operations by outcome",
			},
			[]string{"op", "result"},
		),
		StoreDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blueprints_store_operation_duration_seconds",
				Help:    "Blueprint store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		RateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "blueprints_http_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
		StoreUp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "blueprints_store_up",
				Help: "Whether the last store probe succeeded (1) or failed (0)",
			},
		),
		BlueprintsTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "blueprints_stored",
				Help: "Number of blueprints seen by the last store probe",
			},
		),
		gatherer: g,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a finished HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordStoreOperation records a finished store call and its outcome.
func (m *Metrics) RecordStoreOperation(op string, err error, duration time.Duration) {
	m.StoreOps.WithLabelValues(op, Outcome(err)).Inc()
	m.StoreDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// SetStoreUp records the result of a store probe.
func (m *Metrics) SetStoreUp(up bool) {
	if up {
		m.StoreUp.Set(1)
		return
	}
	m.StoreUp.Set(0)
}

// SetBlueprintsStored records the number of stored blueprints.
func (m *Metrics) SetBlueprintsStored(n int) {
	m.BlueprintsTotal.Set(float64(n))
}

// Outcome maps an error to its result label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, blueprint.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, blueprint.ErrNotFound):
		return "not_found"
	case errors.Is(err, blueprint.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, blueprint.ErrDataCorruption):
		return "corrupt"
	default:
		return "error"
	}
}
