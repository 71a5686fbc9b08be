// Package metrics provides Prometheus metrics for the judging service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the slice of metrics the services report into
type Recorder interface {
	AssignmentCreated(eventType string)
	ResultSubmitted(eventType string)
	EmailSent(ok bool)
}

// Manager owns a registry and every collector registered on it.
type Manager struct {
	registry *prometheus.Registry

	assignmentsCreated  *prometheus.CounterVec
	resultsSubmitted    *prometheus.CounterVec
	emails              *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates a Manager on a fresh registry. A custom registry keeps the Go
// runtime collectors and other packages' globals out of /metrics.
func New() *Manager {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Manager{
		registry: registry,
		assignmentsCreated: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackjudge",
			Subsystem: "judging",
			Name:      "assignments_created_total",
			Help:      "Total number of judge assignments created",
		}, []string{"event_type"}),
		resultsSubmitted: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackjudge",
			Subsystem: "judging",
			Name:      "results_submitted_total",
			Help:      "Total number of judging results accepted",
		}, []string{"event_type"}),
		emails: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackjudge",
			Subsystem: "mail",
			Name:      "emails_total",
			Help:      "Emails handed to the relay by outcome",
		}, []string{"outcome"}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackjudge",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route, method and status",
		}, []string{"route", "method", "status_code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hackjudge",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

func (m *Manager) AssignmentCreated(eventType string) {
	m.assignmentsCreated.WithLabelValues(eventType).Inc()
}

func (m *Manager) ResultSubmitted(eventType string) {
	m.resultsSubmitted.WithLabelValues(eventType).Inc()
}

func (m *Manager) EmailSent(ok bool) {
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	m.emails.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records one served request
func (m *Manager) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry for tests
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Nop discards all metrics
type Nop struct{}

func (Nop) AssignmentCreated(string) {}
func (Nop) ResultSubmitted(string)   {}
func (Nop) EmailSent(bool)           {}

var (
	_ Recorder = (*Manager)(nil)
	_ Recorder = Nop{}
)
