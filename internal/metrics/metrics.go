// README: Prometheus collectors shared by the worker and dispatcher stacks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts price requests by response status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dopc_requests_total",
		Help: "Delivery price requests served, by HTTP status code.",
	}, []string{"code"})

	// RequestDuration observes end-to-end price request latency.
	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dopc_request_duration_seconds",
		Help:    "Delivery price request latency.",
		Buckets: prometheus.DefBuckets,
	})

	// GateRejections counts requests turned away by the concurrency gate.
	GateRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dopc_gate_rejections_total",
		Help: "Requests rejected because the in-flight limit was reached.",
	})

	// PoolReplacements counts upstream connection slots replaced by the
	// health monitor, per pool category.
	PoolReplacements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dopc_pool_slot_replacements_total",
		Help: "Upstream connection slots torn down and re-established.",
	}, []string{"category"})

	// HealthyWorkers tracks how many workers the dispatcher routes to.
	HealthyWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dopc_healthy_workers",
		Help: "Workers currently in the dispatcher's routing set.",
	})

	// WorkerRestarts counts supervised worker restarts.
	WorkerRestarts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dopc_worker_restarts_total",
		Help: "Workers restarted after failing consecutive health probes.",
	})
)
