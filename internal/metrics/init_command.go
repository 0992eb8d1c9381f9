package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCommandMetrics() {
	r.CommandsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "filtergrid_commands_total",
			Help: "Total number of engine commands applied",
		},
		[]string{"command", "status"},
	)

	r.CommandDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filtergrid_command_duration_seconds",
			Help:    "Engine command duration in seconds, including the state recompute",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"command"},
	)
}

func (r *Registry) initLinkMetrics() {
	r.LinkRejectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "filtergrid_link_rejections_total",
			Help: "Total number of rejected link attempts",
		},
		[]string{"reason"},
	)

	r.AutoUnlinksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "filtergrid_auto_unlinks_total",
			Help: "Total number of links removed because their input became hidden",
		},
	)
}
