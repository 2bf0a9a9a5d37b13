package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cluster shape, sampled after each scheduling pass.
	NodesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pcmk_scheduler_nodes_total",
			Help: "Total number of nodes by kind and online status",
		},
		[]string{"kind", "online"},
	)

	ResourcesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pcmk_scheduler_resources_total",
			Help: "Total number of resources by variant",
		},
		[]string{"variant"},
	)

	ActionsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pcmk_scheduler_actions_total",
			Help: "Total number of emitted transition graph actions by task",
		},
		[]string{"task"},
	)

	// Diagnostics emitted during the last scheduling pass.
	DiagnosticsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pcmk_scheduler_diagnostics_total",
			Help: "Total number of diagnostics by severity from the last scheduling pass",
		},
		[]string{"severity"},
	)

	// Pipeline-stage latency and outcome.
	SchedulingLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pcmk_scheduler_pass_duration_seconds",
			Help:    "Time taken to compute a transition graph, by pipeline stage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	SchedulingRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pcmk_scheduler_runs_total",
			Help: "Total number of scheduling passes by outcome",
		},
		[]string{"outcome"}, // "ok", "cycle-detected", "decode-error"
	)

	NextRecheckSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pcmk_scheduler_next_recheck_seconds",
			Help: "Seconds from the last scheduling pass's \"now\" until its computed next-recheck time",
		},
	)
)

func init() {
	prometheus.MustRegister(
		NodesTotal,
		ResourcesTotal,
		ActionsTotal,
		DiagnosticsTotal,
		SchedulingLatency,
		SchedulingRunsTotal,
		NextRecheckSeconds,
	)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
