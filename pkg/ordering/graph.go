package ordering

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/cuemby/pcmk-scheduler/pkg/constraints"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// Build links every action already present on ws into a directed graph and
// populates each Action's Predecessors/Successors, then checks for cycles.
// A cycle is reported as a SeverityConfigError diagnostic named by the
// involved action IDs and Build returns an error: the caller (pkg/scheduler)
// stops before emitting a graph, since no action ordering exists.
func Build(ws *types.WorkingSet, cs *constraints.Set) error {
	g := simple.NewDirectedGraph()
	for _, key := range ws.SortedActionKeys() {
		g.AddNode(simple.Node(ws.Actions[key].ID))
	}

	addEdge := func(fromID, toID int) {
		if fromID == toID || fromID == 0 || toID == 0 {
			return
		}
		g.SetEdge(simple.Edge{F: simple.Node(fromID), T: simple.Node(toID)})
	}

	intrinsicOrders(ws, addEdge)
	constraintOrders(ws, cs, addEdge)
	gateOrders(ws, cs, addEdge)
	notifyOrders(ws, addEdge)
	migrationOrders(ws, g, addEdge)

	if _, err := topo.Sort(g); err != nil {
		ws.AddDiagnostic(types.SeverityConfigError, "", fmt.Sprintf("ordering graph contains a cycle: %v", err))
		return fmt.Errorf("ordering: %w", err)
	}

	materialize(ws, g)
	return nil
}

// intrinsicOrders adds the edges implied by the action factory's role
// transition matrix regardless of any configured constraint: a resource
// must stop before it starts again, demote before promote, and
// migrate_to before migrate_from on a migration pair (spec.md §4.4).
func intrinsicOrders(ws *types.WorkingSet, addEdge func(from, to int)) {
	for _, resourceID := range ws.SortedResourceIDs() {
		pairs := [][2]types.Task{
			{types.TaskStop, types.TaskStart},
			{types.TaskDemote, types.TaskPromote},
			{types.TaskStop, types.TaskDemote},
			{types.TaskPromote, types.TaskMonitor},
			{types.TaskMigrateTo, types.TaskMigrateFrom},
			{types.TaskStart, types.TaskMonitor},
		}
		for _, p := range pairs {
			from, fromOK := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: p[0]}]
			to, toOK := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: p[1]}]
			if fromOK && toOK {
				addEdge(from.ID, to.ID)
			}
		}
	}
}

// constraintOrders adds the edges a constraints.Set's Order constraints
// demand. Kind == Serialize is modeled identically to Mandatory here: both
// force a strict predecessor relationship, differing only in whether
// pkg/actions allowed the pair to run concurrently absent this constraint -
// a distinction that does not change the graph's edge set.
func constraintOrders(ws *types.WorkingSet, cs *constraints.Set, addEdge func(from, to int)) {
	for _, o := range cs.Orders {
		first, firstOK := resolveOrderEndpoint(ws, o.FirstResource, o.FirstTask)
		then, thenOK := resolveOrderEndpoint(ws, o.ThenResource, o.ThenTask)
		if !firstOK || !thenOK {
			continue
		}
		if o.Kind == constraints.KindOptional && (!first.HasFlag(types.FlagRunnable) || !then.HasFlag(types.FlagRunnable)) {
			continue
		}
		addEdge(first.ID, then.ID)
	}
}

// resolveOrderEndpoint looks up the action an order constraint's resourceID
// side refers to. A clone's bare ID never owns a literal start/stop action
// of its own - only its materialized instances do - so when resourceID
// names a clone with a configured clone-min, the lookup is redirected to
// that clone's relaxed-clone pseudo-action instead of failing outright: the
// constraint is satisfied once clone-min instances have started, not by any
// single instance's start action (spec.md §4.4 "clone-min gating").
func resolveOrderEndpoint(ws *types.WorkingSet, resourceID string, task types.Task) (*types.Action, bool) {
	if a, ok := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: task}]; ok {
		return a, true
	}
	if r, ok := ws.Resources[resourceID]; ok && r.IsClone() && r.CloneMin > 0 {
		a, ok := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: types.TaskPseudoRelaxedClone}]
		return a, ok
	}
	return nil, false
}

// gateOrders wires a one-or-more pseudo-action: every feeder points into
// the gate, and the gate points out to every gated action. The gate action
// itself is expected to already exist on ws (pkg/actions creates it from
// constraints.Set.Gates before ordering runs).
func gateOrders(ws *types.WorkingSet, cs *constraints.Set, addEdge func(from, to int)) {
	for _, gate := range cs.Gates {
		gateAction, ok := ws.Actions[types.ActionKey{ResourceID: gate.ID, Task: types.TaskPseudoOneOrMore}]
		if !ok {
			continue
		}
		for _, f := range gate.Feeders {
			if a, ok := ws.Actions[types.ActionKey{ResourceID: f.ResourceID, Task: f.Task}]; ok {
				addEdge(a.ID, gateAction.ID)
			}
		}
		for _, gtd := range gate.Gated {
			if a, ok := ws.Actions[types.ActionKey{ResourceID: gtd.ResourceID, Task: gtd.Task}]; ok {
				addEdge(gateAction.ID, a.ID)
			}
		}
	}
}

// migrationOrders mirrors whatever constraintOrders/gateOrders already
// wired onto a migrating resource's phantom stop/start actions back onto
// its real migrate_to/migrate_from actions: the phantom actions exist only
// so an order constraint written against plain stop/start still resolves,
// but since pkg/transition drops phantom actions before emission, anything
// a predecessor demanded of the phantom stop must instead gate migrate_to,
// and anything a successor expected of the phantom start must instead wait
// on migrate_from (spec.md §4.4 "phantom-action mirroring migration").
func migrationOrders(ws *types.WorkingSet, g graph.Directed, addEdge func(from, to int)) {
	for _, resourceID := range ws.SortedResourceIDs() {
		migTo, hasMigTo := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: types.TaskMigrateTo}]
		migFrom, hasMigFrom := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: types.TaskMigrateFrom}]
		if !hasMigTo || !hasMigFrom {
			continue
		}
		if stop, ok := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: types.TaskStop}]; ok && stop.HasFlag(types.FlagPhantom) {
			preds := g.To(int64(stop.ID))
			for preds.Next() {
				addEdge(int(preds.Node().ID()), migTo.ID)
			}
		}
		if start, ok := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: types.TaskStart}]; ok && start.HasFlag(types.FlagPhantom) {
			succs := g.From(int64(start.ID))
			for succs.Next() {
				addEdge(migFrom.ID, int(succs.Node().ID()))
			}
		}
	}
}

// notifyOrders chains a resource's notify pseudo-actions around the real
// action(s) they bracket: pre-notify feeds every per-node pre-notify call,
// which all feed pre-notify-done, which precedes the real action(s);
// post-notify follows the real action(s) and feeds every per-node
// post-notify call, which all feed post-notify-done (spec.md §4.5). Without
// this, pkg/notify's pseudo-actions have no predecessors or successors and
// pkg/transition.Assemble silently drops them from the emitted graph.
func notifyOrders(ws *types.WorkingSet, addEdge func(from, to int)) {
	for _, resourceID := range ws.SortedResourceIDs() {
		r := ws.Resources[resourceID]
		if !r.Flags.Notify {
			continue
		}
		pre, hasPre := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: types.TaskPseudoPreNotify}]
		preDone, hasPreDone := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: types.TaskPseudoPreNotifyDone}]
		post, hasPost := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: types.TaskPseudoPostNotify}]
		postDone, hasPostDone := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: types.TaskPseudoPostNotifyDone}]
		if !hasPre || !hasPreDone || !hasPost || !hasPostDone {
			continue
		}

		var realActions []*types.Action
		for _, task := range []types.Task{types.TaskStart, types.TaskStop, types.TaskPromote, types.TaskDemote, types.TaskMigrateTo, types.TaskMigrateFrom} {
			if a, ok := ws.Actions[types.ActionKey{ResourceID: resourceID, Task: task}]; ok {
				realActions = append(realActions, a)
			}
		}

		notifyPrefix := resourceID + "@notify:"
		notifiedPrefix := resourceID + "@notified:"
		for key, a := range ws.Actions {
			if key.Task != types.TaskNotify || !strings.HasPrefix(key.ResourceID, notifyPrefix) {
				continue
			}
			addEdge(pre.ID, a.ID)
			addEdge(a.ID, preDone.ID)
		}
		for _, a := range realActions {
			addEdge(preDone.ID, a.ID)
			addEdge(a.ID, post.ID)
		}
		for key, a := range ws.Actions {
			if key.Task != types.TaskNotified || !strings.HasPrefix(key.ResourceID, notifiedPrefix) {
				continue
			}
			addEdge(post.ID, a.ID)
			addEdge(a.ID, postDone.ID)
		}
	}
}

// materialize copies the built graph's edges back onto each Action's
// Predecessors/Successors slices, sorted for deterministic emission.
func materialize(ws *types.WorkingSet, g graph.Directed) {
	byID := make(map[int64]*types.Action, len(ws.Actions))
	for _, a := range ws.Actions {
		byID[int64(a.ID)] = a
		a.Predecessors = nil
		a.Successors = nil
	}

	nodes := g.Nodes()
	for nodes.Next() {
		n := nodes.Node()
		a, ok := byID[n.ID()]
		if !ok {
			continue
		}
		to := g.From(n.ID())
		for to.Next() {
			succ := to.Node()
			if sa, ok := byID[succ.ID()]; ok {
				a.Successors = append(a.Successors, sa.ID)
				sa.Predecessors = append(sa.Predecessors, a.ID)
			}
		}
	}

	for _, a := range ws.Actions {
		sortInts(a.Predecessors)
		sortInts(a.Successors)
	}
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
