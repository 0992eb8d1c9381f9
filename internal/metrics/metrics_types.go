package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for one engine.
type Registry struct {
	// Command Metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Link Metrics
	LinkRejectionsTotal *prometheus.CounterVec
	AutoUnlinksTotal    prometheus.Counter

	// Compile Metrics
	CompilesTotal        *prometheus.CounterVec
	CompileDuration      prometheus.Histogram
	CompileWarningsTotal prometheus.Counter

	// Graph Metrics
	GraphNodes prometheus.Gauge
	GraphLinks prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric registered on a fresh
// Prometheus registry.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initCommandMetrics()
	r.initLinkMetrics()
	r.initCompileMetrics()
	r.initGraphMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
