// Package metrics exposes pipeline counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "carehome"

// Metrics owns a private registry so tests can create independent instances.
type Metrics struct {
	reg *prometheus.Registry

	events        *prometheus.CounterVec
	queued        *prometheus.CounterVec
	emails        *prometheus.CounterVec
	drainRuns     *prometheus.CounterVec
	drainDuration prometheus.Histogram
}

// New creates the registry and registers all collectors, including the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		reg: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_events_total",
			Help:      "Workflow events received, by type and result.",
		}, []string{"event_type", "result"}),
		queued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_queued_total",
			Help:      "Notification queue rows inserted, by channel.",
		}, []string{"channel"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Email delivery attempts, by final row status.",
		}, []string{"status"}),
		drainRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drain_runs_total",
			Help:      "Drain passes, by result.",
		}, []string{"result"}),
		drainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "drain_duration_seconds",
			Help:      "Wall time of a drain pass.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}

	reg.MustRegister(m.events, m.queued, m.emails, m.drainRuns, m.drainDuration)
	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) EventDispatched(eventType, result string) {
	m.events.WithLabelValues(eventType, result).Inc()
}

func (m *Metrics) NotificationsQueued(channel string, n int) {
	m.queued.WithLabelValues(channel).Add(float64(n))
}

func (m *Metrics) EmailDelivered(status string) {
	m.emails.WithLabelValues(status).Inc()
}

func (m *Metrics) DrainCompleted(d time.Duration, failed bool) {
	result := "ok"
	if failed {
		result = "error"
	}
	m.drainRuns.WithLabelValues(result).Inc()
	m.drainDuration.Observe(d.Seconds())
}

// Noop discards all observations.
type Noop struct{}

func (Noop) EventDispatched(string, string)     {}
func (Noop) NotificationsQueued(string, int)    {}
func (Noop) EmailDelivered(string)              {}
func (Noop) DrainCompleted(time.Duration, bool) {}
