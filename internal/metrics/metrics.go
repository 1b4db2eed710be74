// Package metrics exposes Prometheus collectors for hub traffic.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deppfellow/xenaviz/internal/xena"
)

const namespace = "xenaviz"

// Call outcomes used as the "outcome" label.
const (
	OutcomeSuccess     = "success"
	OutcomeFetchError  = "fetch_error"
	OutcomeDecodeError = "decode_error"
	OutcomeError       = "error"
)

// HubMetrics records hub calls. It implements xena.Observer.
type HubMetrics struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHubMetrics creates the collectors on a dedicated registry that also
// carries the Go runtime and process collectors.
func NewHubMetrics() *HubMetrics {
	registry := prometheus.NewRegistry()

	m := &HubMetrics{
		registry: registry,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "calls_total",
			Help:      "Number of Xena hub calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "call_duration_seconds",
			Help:      "Latency of Xena hub calls by operation and outcome.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"op", "outcome"}),
	}

	registry.MustRegister(
		m.calls,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveHubCall records a single call.
func (m *HubMetrics) ObserveHubCall(op string, duration time.Duration, err error) {
	outcome := Outcome(err)
	m.calls.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op, outcome).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *HubMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Outcome classifies a hub call error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case xena.IsFetchError(err):
		return OutcomeFetchError
	case xena.IsDecodeError(err):
		return OutcomeDecodeError
	default:
		return OutcomeError
	}
}
