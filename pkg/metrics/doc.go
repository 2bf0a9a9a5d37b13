/*
Package metrics provides Prometheus metrics collection and exposition for
the scheduler.

Unlike a ticking container orchestrator, this scheduler is a pure function
invoked once per CIB transition: there is no background poll loop to
instrument. Instead, pkg/metrics.Observe is called once per completed
scheduling pass and records the shape of its input (nodes, resources) and
output (actions, diagnostics), plus per-stage latency.

# Architecture

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │          Prometheus Registry                │          │
	│  │  - Global DefaultRegistry                   │          │
	│  │  - MustRegister at package init             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │              Metric Categories               │          │
	│  │                                              │          │
	│  │  Cluster shape: nodes, resources             │          │
	│  │  Output shape: actions by task, diagnostics │          │
	│  │  Latency: per-stage and total pass duration │          │
	│  │  Recheck horizon: seconds until next pass   │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          HTTP Metrics Endpoint               │          │
	│  │  - Path: /metrics                           │          │
	│  │  - Handler: metrics.Handler()                │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Metrics Catalog

pcmk_scheduler_nodes_total{kind, online}:
  - Type: Gauge
  - Description: Nodes in the decoded CIB, by kind
    (cluster-member/remote/guest/bundle) and online status

pcmk_scheduler_resources_total{variant}:
  - Type: Gauge
  - Description: Resources by variant (primitive/group/clone/promotable-clone/bundle)

pcmk_scheduler_actions_total{task}:
  - Type: Gauge
  - Description: Emitted transition-graph actions by task
    (start/stop/promote/demote/monitor/migrate_to/migrate_from/fence)

pcmk_scheduler_diagnostics_total{severity}:
  - Type: Gauge
  - Description: Diagnostics produced by the last pass, by severity

pcmk_scheduler_pass_duration_seconds{stage}:
  - Type: Histogram
  - Description: Duration of each pipeline stage (decode/unpack/total)

pcmk_scheduler_runs_total{outcome}:
  - Type: Counter
  - Description: Completed scheduling passes by outcome
    (ok/cycle-detected/decode-error)

pcmk_scheduler_next_recheck_seconds:
  - Type: Gauge
  - Description: Seconds from "now" until the computed next-recheck time

# Usage

	import "github.com/cuemby/pcmk-scheduler/pkg/metrics"

	timer := metrics.NewTimer()
	result, err := scheduler.Schedule(configXML, statusXML, time.Now())
	timer.ObserveDurationVec(metrics.SchedulingLatency, "total")

	http.Handle("/metrics", metrics.Handler())
	http.ListenAndServe(":9099", nil)

pkg/scheduler.Schedule calls metrics.Observe(ws, graph) itself at the end
of every pass - callers do not need to instrument it manually.

# Integration Points

This package integrates with:

  - pkg/scheduler: calls Observe once per pass, records per-stage latency
  - pkg/diag: supplies the severity counts Observe records
  - cmd/pcmk-scheduld: serves /metrics, /health, /ready, /live

# Design Patterns

Package Init Registration:
  - All metrics registered in init(), MustRegister panics on duplicate
    registration, so metrics are available before main() runs

Stateless Observation:
  - Observe takes the pass's own WorkingSet and Graph as arguments; there
    is no polling goroutine and nothing to start or stop

# See Also

  - Prometheus documentation: https://prometheus.io/docs/
  - Prometheus client library: https://github.com/prometheus/client_golang
*/
package metrics
