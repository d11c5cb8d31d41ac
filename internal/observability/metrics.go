// Package observability wires tracing and metrics for the sync engine.
//
// This file exposes Prometheus instrumentation for the reconciler. Label
// cardinality is deliberately zero: flush outcomes are low-volume process
// counters, and anything per-trip or per-action would explode series counts
// for no dashboarding benefit.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// FlushRuns counts reconciler passes, including offline no-ops.
	FlushRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tripsync_flush_runs_total",
		Help: "Total number of pending-action flush passes.",
	})

	// ActionsFlushed counts pending actions confirmed by the remote store.
	ActionsFlushed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tripsync_actions_flushed_total",
		Help: "Total number of pending actions successfully replayed.",
	})

	// ActionsDropped counts actions permanently rejected for non-network
	// reasons and removed from the queue.
	ActionsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tripsync_actions_dropped_total",
		Help: "Total number of pending actions dropped as unprocessable.",
	})

	// ActionsRequeued counts actions preserved for retry after a
	// network-shaped failure paused a flush pass.
	ActionsRequeued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tripsync_actions_requeued_total",
		Help: "Total number of pending actions requeued after a paused flush.",
	})

	// PendingActions gauges the queue length after the latest flush pass.
	PendingActions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tripsync_pending_actions",
		Help: "Pending actions remaining after the most recent flush.",
	})
)

func init() {
	prometheus.MustRegister(FlushRuns, ActionsFlushed, ActionsDropped, ActionsRequeued, PendingActions)
}
