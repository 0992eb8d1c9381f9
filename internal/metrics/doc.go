// Package metrics exposes Prometheus instrumentation for the engine: command
// outcomes, link rejections, compile durations and graph size.
package metrics
