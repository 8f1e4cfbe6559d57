// Package metrics holds the Prometheus collectors of the service on a registry of
// its own.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sync operations.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
)

// Sync outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeNotFound  = "not_found"
	OutcomeRejected  = "rejected"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	syncRequests      *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	outboxPublished   prometheus.Counter
}

// New registers the service collectors together with the Go runtime and process
// collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		syncRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crmsync_sync_requests_total",
				Help: "Sync requests received from the CRM by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		statusTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crmsync_status_transitions_total",
				Help: "CRM statuses applied to orders by status code",
			},
			[]string{"code"},
		),
		outboxPublished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "crmsync_outbox_events_published_total",
				Help: "Outbox events published to the broker",
			},
		),
	}

	registry.MustRegister(
		m.syncRequests,
		m.statusTransitions,
		m.outboxPublished,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) SyncRequest(operation, outcome string) {
	m.syncRequests.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) StatusTransition(code int) {
	m.statusTransitions.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (m *Metrics) OutboxPublished(n int) {
	if n > 0 {
		m.outboxPublished.Add(float64(n))
	}
}

// Registry exposes the underlying registry, for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
