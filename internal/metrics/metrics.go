// Package metrics exposes Prometheus collectors for the ledger service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tripledger"

// Metrics holds every collector the service records to.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reconcileRuns      *prometheus.CounterVec
	reconcileDuration  prometheus.Histogram
	transfersCreated   prometheus.Counter
	transfersCompleted prometheus.Counter
	dirtyTrips         prometheus.Gauge
	rpcRequests        *prometheus.CounterVec
	rpcDuration        *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors, which is handy in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		reconcileRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation runs by mode and result.",
		}, []string{"mode", "result"}),
		reconcileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Time spent reconciling a trip's pending transfers.",
			Buckets:   prometheus.DefBuckets,
		}),
		transfersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_created_total",
			Help:      "Pending transfer records inserted by reconciliation.",
		}),
		transfersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_completed_total",
			Help:      "Transfers confirmed by their creditor.",
		}),
		dirtyTrips: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dirty_trips",
			Help:      "Trips whose last reconciliation failed.",
		}),
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC requests by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling time by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}
}

// ObserveReconcile records one reconciliation run.
func (m *Metrics) ObserveReconcile(mode string, err error, created int, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reconcileRuns.WithLabelValues(mode, result).Inc()
	m.reconcileDuration.Observe(elapsed.Seconds())
	if err == nil && created > 0 {
		m.transfersCreated.Add(float64(created))
	}
}

// IncCompleted counts one completed transfer.
func (m *Metrics) IncCompleted() {
	if m == nil {
		return
	}
	m.transfersCompleted.Inc()
}

// SetDirtyTrips sets the number of trips awaiting a retry.
func (m *Metrics) SetDirtyTrips(n int) {
	if m == nil {
		return
	}
	m.dirtyTrips.Set(float64(n))
}

// ObserveRPC records one handled RPC.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}
