package metrics

import (
	"strconv"

	"github.com/cuemby/pcmk-scheduler/pkg/diag"
	"github.com/cuemby/pcmk-scheduler/pkg/transition"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// Observe records the cluster shape, emitted actions and diagnostics of
// one completed scheduling pass. The scheduler calls this once per pass
// (SPEC_FULL.md §1); there is no background polling loop here, since
// there is no external cluster state to poll - everything worth observing
// arrives as the pass's own output.
func Observe(ws *types.WorkingSet, g *transition.Graph) {
	observeNodes(ws)
	observeResources(ws)
	observeDiagnostics(ws)
	observeActions(g)
	RecordSchedulingPass(ws.Diagnostics)
}

func observeNodes(ws *types.WorkingSet) {
	counts := map[[2]string]int{}
	for _, id := range ws.SortedNodeIDs() {
		n := ws.Nodes[id]
		key := [2]string{string(n.Kind), strconv.FormatBool(n.Online)}
		counts[key]++
	}
	for key, count := range counts {
		NodesTotal.WithLabelValues(key[0], key[1]).Set(float64(count))
	}
}

func observeResources(ws *types.WorkingSet) {
	counts := map[types.ResourceVariant]int{}
	for _, id := range ws.SortedResourceIDs() {
		counts[ws.Resources[id].Variant]++
	}
	for variant, count := range counts {
		ResourcesTotal.WithLabelValues(string(variant)).Set(float64(count))
	}
}

func observeDiagnostics(ws *types.WorkingSet) {
	counts := diag.CountBySeverity(ws.Diagnostics)
	for _, sev := range []types.Severity{
		types.SeverityTrace, types.SeverityInfo, types.SeverityWarn,
		types.SeverityConfigError, types.SeverityError,
	} {
		DiagnosticsTotal.WithLabelValues(string(sev)).Set(float64(counts[sev]))
	}
}

func observeActions(g *transition.Graph) {
	if g == nil {
		return
	}
	counts := map[types.Task]int{}
	for _, a := range g.Actions {
		counts[a.Task]++
	}
	for task, count := range counts {
		ActionsTotal.WithLabelValues(string(task)).Set(float64(count))
	}
}
