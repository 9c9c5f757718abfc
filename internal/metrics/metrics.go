// Package metrics exposes the portal's Prometheus counters. A nil *Metrics
// is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry   *prometheus.Registry
	uploads    *prometheus.CounterVec
	rejections *prometheus.CounterVec
	gate       *prometheus.CounterVec
	reviews    *prometheus.CounterVec
}

// New registers the portal collectors plus the Go runtime and process
// collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "uploads_total",
			Help:      "Accepted uploads by entry point.",
		}, []string{"path"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "upload_rejections_total",
			Help:      "Rejected uploads by validation failure.",
		}, []string{"path", "kind"}),
		gate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "gate_decisions_total",
			Help:      "Session gate decisions by flavor and state.",
		}, []string{"role", "state"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "review_decisions_total",
			Help:      "Admin review decisions.",
		}, []string{"decision"}),
	}
	m.registry.MustRegister(
		m.uploads, m.rejections, m.gate, m.reviews,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Upload(path string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(path).Inc()
}

func (m *Metrics) Rejection(path, kind string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(path, kind).Inc()
}

func (m *Metrics) GateDecision(role, state string) {
	if m == nil {
		return
	}
	m.gate.WithLabelValues(role, state).Inc()
}

func (m *Metrics) ReviewDecision(decision string) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(decision).Inc()
}

// Registry is the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
