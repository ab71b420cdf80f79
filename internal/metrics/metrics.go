package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "parking"

// Admission metrics
var (
	AdmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admissions_total",
			Help:      "Total number of admission decisions",
		},
		[]string{"category", "result"},
	)

	OccupancyCurrent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "occupancy_current",
			Help:      "Current occupancy per branch and vehicle category",
		},
		[]string{"branch", "category"},
	)
)

// Billing metrics
var (
	ExitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exits_total",
			Help:      "Total number of processed exits",
		},
		[]string{"subscriber"},
	)

	ChargedAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charged_amount_total",
			Help:      "Cumulative charged amount",
		},
	)
)

// Reconciliation metrics
var (
	ReconcileRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Total number of occupancy reconciliation passes",
		},
	)

	ReconcileDriftTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_drift_total",
			Help:      "Counter corrections applied by reconciliation",
		},
		[]string{"branch", "category"},
	)
)
