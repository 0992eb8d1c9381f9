package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordCommand records the outcome and duration of an engine command.
func (r *Registry) RecordCommand(command, status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.CommandsTotal.WithLabelValues(command, status).Inc()
	r.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordLinkRejection counts a rejected link attempt.
func (r *Registry) RecordLinkRejection(reason string) {
	if r == nil {
		return
	}
	r.LinkRejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordAutoUnlinks counts links removed by the visibility sweep.
func (r *Registry) RecordAutoUnlinks(n int) {
	if r == nil || n == 0 {
		return
	}
	r.AutoUnlinksTotal.Add(float64(n))
}

// RecordCompile records one compilation.
func (r *Registry) RecordCompile(status string, warnings int, duration time.Duration) {
	if r == nil {
		return
	}
	r.CompilesTotal.WithLabelValues(status).Inc()
	r.CompileDuration.Observe(duration.Seconds())
	r.CompileWarningsTotal.Add(float64(warnings))
}

// UpdateGraphSize sets the node and link gauges.
func (r *Registry) UpdateGraphSize(nodes, links int) {
	if r == nil {
		return
	}
	r.GraphNodes.Set(float64(nodes))
	r.GraphLinks.Set(float64(links))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
