// Package metrics exposes Prometheus collectors for upstream fetches and the
// HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for upstream fetches.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Metrics holds the collectors registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	upstreamFetches  *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridmix_upstream_fetches_total",
			Help: "Generation mix fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gridmix_upstream_fetch_duration_seconds",
			Help:    "Duration of generation mix fetches by source.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridmix_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"route", "status"}),
	}
	m.registry.MustRegister(
		m.upstreamFetches,
		m.upstreamDuration,
		m.httpRequests,
	)
	return m
}

// ObserveFetch records one upstream fetch. A nil Metrics is a no-op.
func (m *Metrics) ObserveFetch(source, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamFetches.WithLabelValues(source, outcome).Inc()
	m.upstreamDuration.WithLabelValues(source).Observe(d.Seconds())
}

// ObserveRequest records one HTTP request. A nil Metrics is a no-op.
func (m *Metrics) ObserveRequest(route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
