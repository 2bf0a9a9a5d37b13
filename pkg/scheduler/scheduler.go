package scheduler

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cuemby/pcmk-scheduler/pkg/actions"
	"github.com/cuemby/pcmk-scheduler/pkg/cib"
	"github.com/cuemby/pcmk-scheduler/pkg/constraints"
	"github.com/cuemby/pcmk-scheduler/pkg/log"
	"github.com/cuemby/pcmk-scheduler/pkg/metrics"
	"github.com/cuemby/pcmk-scheduler/pkg/notify"
	"github.com/cuemby/pcmk-scheduler/pkg/ordering"
	"github.com/cuemby/pcmk-scheduler/pkg/placement"
	"github.com/cuemby/pcmk-scheduler/pkg/rules"
	"github.com/cuemby/pcmk-scheduler/pkg/transition"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// Result is Schedule's output: the assembled transition graph, the
// diagnostics collected along the way, and the cluster's next-recheck
// time.
type Result struct {
	Graph       *transition.Graph
	Diagnostics []types.Diagnostic
	NextRecheck time.Time
}

// Schedule computes one transition graph from configurationXML and
// statusXML as of now. It is the module's single entry point and carries
// no state between calls: identical inputs always produce an identical
// Result (spec.md §5).
func Schedule(configurationXML, statusXML []byte, now time.Time) (*Result, error) {
	total := metrics.NewTimer()
	logger := log.WithComponent("scheduler")

	ws, in, err := timedDecode(configurationXML, statusXML, now)
	if err != nil {
		metrics.SchedulingRunsTotal.WithLabelValues("decode-error").Inc()
		return nil, fmt.Errorf("scheduler: decode: %w", err)
	}
	// The transition ID is derived from the inputs, so identical inputs
	// yield an identical graph.
	seed := append(append([]byte{}, configurationXML...), 0)
	seed = append(append(seed, statusXML...), 0)
	seed = append(seed, now.UTC().Format(time.RFC3339Nano)...)
	ws.TransitionID = uuid.NewSHA1(uuid.NameSpaceOID, seed).String()
	logger = log.WithTransitionID(ws.TransitionID)

	cs := timedUnpack(ws, in)
	placement.Allocate(ws, cs)
	actions.Generate(ws, cs)
	notify.Generate(ws)

	for _, d := range ws.Diagnostics {
		switch d.Severity {
		case types.SeverityConfigError:
			logger.Warn().Str("object_id", d.ObjectID).Msg(d.Message)
		case types.SeverityError:
			logger.Error().Str("object_id", d.ObjectID).Msg(d.Message)
		}
	}

	if err := ordering.Build(ws, cs); err != nil {
		metrics.SchedulingRunsTotal.WithLabelValues("cycle-detected").Inc()
		metrics.RecordSchedulingPass(ws.Diagnostics)
		logger.Error().Err(err).Msg("ordering graph contains a cycle; aborting graph emission")
		return &Result{Diagnostics: ws.Diagnostics}, err
	}

	graph := transition.Assemble(ws)
	ws.NextRecheck = computeNextRecheck(ws, cs)

	metrics.Observe(ws, graph)
	metrics.SchedulingRunsTotal.WithLabelValues("ok").Inc()
	metrics.NextRecheckSeconds.Set(ws.NextRecheck.Sub(now).Seconds())
	total.ObserveDurationVec(metrics.SchedulingLatency, "total")

	logger.Info().
		Int("actions", len(graph.Actions)).
		Int("diagnostics", len(ws.Diagnostics)).
		Time("next_recheck", ws.NextRecheck).
		Msg("scheduling pass complete")

	return &Result{Graph: graph, Diagnostics: ws.Diagnostics, NextRecheck: ws.NextRecheck}, nil
}

func timedDecode(configurationXML, statusXML []byte, now time.Time) (*types.WorkingSet, *constraints.Input, error) {
	t := metrics.NewTimer()
	defer t.ObserveDurationVec(metrics.SchedulingLatency, "decode")
	return cib.Decode(configurationXML, statusXML, now)
}

func timedUnpack(ws *types.WorkingSet, in *constraints.Input) *constraints.Set {
	t := metrics.NewTimer()
	defer t.ObserveDurationVec(metrics.SchedulingLatency, "unpack")
	return constraints.Unpack(ws, in)
}

// computeNextRecheck folds the configured cluster-recheck-interval with
// every rule-evaluation hint collected while unpacking constraints
// (spec.md invariant 8).
func computeNextRecheck(ws *types.WorkingSet, cs *constraints.Set) time.Time {
	interval := ws.Options.ClusterRecheckIntervalMS
	if interval <= 0 {
		interval = 15 * 60 * 1000
	}
	periodic := ws.Now.Add(time.Duration(interval) * time.Millisecond)

	best := rules.NextRecheck(ws.Now, cs.RecheckHints...)
	if best == nil || best.After(periodic) {
		return periodic
	}
	return *best
}

// EncodeGraph is a thin convenience wrapper so callers outside pkg/cib
// don't need to import it directly just to serialize a Result's graph.
func EncodeGraph(r *Result) ([]byte, error) {
	if r == nil || r.Graph == nil {
		return nil, fmt.Errorf("scheduler: no graph to encode")
	}
	return cib.EncodeGraph(r.Graph)
}
