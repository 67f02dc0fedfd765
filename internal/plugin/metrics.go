// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for event delivery and invocation metrics.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusNotFound = "not_found"
	StatusDisabled = "disabled"
)

// PluginLoads is the counter for plugin load attempts by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var PluginLoads = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "drover_plugin_loads_total",
		Help: "Total number of plugin load attempts",
	},
	[]string{"outcome"},
)

// EventDeliveries is the counter for per-plugin event deliveries.
// Use RegisterMetrics to register this with a Prometheus registry.
var EventDeliveries = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "drover_event_deliveries_total",
		Help: "Total number of event deliveries to plugins",
	},
	[]string{"event", "status"},
)

// Invocations is the counter for command invocations.
// Use RegisterMetrics to register this with a Prometheus registry.
var Invocations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "drover_invocations_total",
		Help: "Total number of command invocations",
	},
	[]string{"command", "status"},
)

// InvocationDuration is the histogram for end-to-end invocation duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var InvocationDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "drover_invocation_duration_seconds",
		Help:    "Command invocation duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"command"},
)

// RegisterMetrics registers plugin package metrics with the given Prometheus
// registry. This must be called at startup to make metrics available.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(PluginLoads)
	reg.MustRegister(EventDeliveries)
	reg.MustRegister(Invocations)
	reg.MustRegister(InvocationDuration)
}

// RecordPluginLoad increments the load counter for one candidate outcome.
func RecordPluginLoad(outcome Outcome) {
	PluginLoads.WithLabelValues(string(outcome)).Inc()
}

// RecordEventDelivery increments the delivery counter for one plugin's
// handling of one event.
func RecordEventDelivery(event, status string) {
	EventDeliveries.WithLabelValues(event, status).Inc()
}

// RecordInvocation increments the invocation counter with the given status.
func RecordInvocation(command, status string) {
	Invocations.WithLabelValues(command, status).Inc()
}

// RecordInvocationDuration records how long an invocation took.
func RecordInvocationDuration(command string, duration time.Duration) {
	InvocationDuration.WithLabelValues(command).Observe(duration.Seconds())
}
