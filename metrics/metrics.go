// Package metrics defines and registers the dashboard's Prometheus
// metrics. It is the single source of truth for metric names, labels,
// and help strings; everything registers with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gastromanager"

// SyncRunsTotal counts full snapshot resynchronizations.
// Label:
//   - trigger: what caused the run ("startup", "change_feed", "write_through")
var SyncRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_runs_total",
		Help:      "Total number of full snapshot resynchronizations.",
	},
	[]string{"trigger"},
)

// ChangeEventsTotal counts change-feed rows processed.
// Labels:
//   - table: source table ("orders", "reservations")
//   - action: "INSERT", "UPDATE" or "DELETE"
var ChangeEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_total",
		Help:      "Total number of change notifications processed, by table and action.",
	},
	[]string{"table", "action"},
)

// OrderTransitionsTotal counts accepted order status transitions.
// Label:
//   - status: the new status applied
var OrderTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Total number of accepted order status transitions, by target status.",
	},
	[]string{"status"},
)

// OrderTransitionRejectedTotal counts writes refused by the
// forward-only transition guard.
var OrderTransitionRejectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transition_rejected_total",
		Help:      "Total number of order status transitions rejected by the guard.",
	},
)

// WSClients tracks the number of connected dashboard websocket
// clients.
var WSClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_clients",
		Help:      "Current number of connected dashboard websocket clients.",
	},
)
