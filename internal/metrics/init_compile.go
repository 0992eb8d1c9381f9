package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCompileMetrics() {
	r.CompilesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "filtergrid_compiles_total",
			Help: "Total number of graph compilations",
		},
		[]string{"status"},
	)

	r.CompileDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filtergrid_compile_duration_seconds",
			Help:    "Graph compilation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	r.CompileWarningsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "filtergrid_compile_warnings_total",
			Help: "Total number of warnings reported by compilations",
		},
	)
}

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "filtergrid_graph_nodes",
			Help: "Number of node instances in the graph",
		},
	)

	r.GraphLinks = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "filtergrid_graph_links",
			Help: "Number of links in the graph",
		},
	)
}
