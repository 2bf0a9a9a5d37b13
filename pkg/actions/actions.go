package actions

import (
	"fmt"

	"github.com/cuemby/pcmk-scheduler/pkg/constraints"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// Generate creates every action implied by ws's allocation: it must run
// after pkg/placement.Allocate and before pkg/ordering.Build. cs supplies
// the one-or-more gate definitions that also need a pseudo-action created
// here so pkg/ordering has something to wire edges to.
func Generate(ws *types.WorkingSet, cs *constraints.Set) {
	ticketFenceNodes := applyTicketLossPolicies(ws, cs)

	for _, resourceID := range ws.SortedResourceIDs() {
		r := ws.Resources[resourceID]
		if r.Parent != "" {
			if parent, ok := ws.Resources[r.Parent]; ok && parent.IsClone() {
				// Clone instances are generated below, from the parent's
				// Children list, so each gets its own diff against its own
				// CurrentRole/NextRole rather than being visited twice.
				continue
			}
		}
		switch r.Variant {
		case types.VariantClone, types.VariantPromotableClone:
			generateCloneActions(ws, r)
		default:
			generatePrimitiveActions(ws, r)
		}
	}
	generateFencingActions(ws, ticketFenceNodes)
	generateGateActions(ws, cs)
}

// applyTicketLossPolicies enforces spec.md §4.3's ticket loss-policy for
// every resource bound to a ticket that isn't currently granted: "stop"
// clears the resource's target so the usual before/after diff emits a
// stop, "demote" drops an already-promoted target back to Started without
// stopping it, "freeze" pins the target to a node the resource is already
// running on (and keeps a stopped resource stopped), and "fence" stops
// the resource and reports every node it was running on so
// generateFencingActions treats them as needing fencing, since a ticket
// lost under loss-policy=fence means the resource can no longer be
// trusted to stop cleanly on its own.
func applyTicketLossPolicies(ws *types.WorkingSet, cs *constraints.Set) map[string]bool {
	fenceNodes := map[string]bool{}
	for _, resourceID := range ws.SortedResourceIDs() {
		r := ws.Resources[resourceID]
		for _, tc := range cs.TicketsFor(resourceID) {
			ticket := ws.Tickets[tc.TicketID]
			if ticket != nil && ticket.Granted {
				continue
			}
			switch tc.LossPolicy {
			case types.LossPolicyStop:
				r.AllocatedNode = ""
				r.NextRole = types.RoleStopped
			case types.LossPolicyDemote:
				if r.NextRole == types.RolePromoted {
					r.NextRole = types.RoleStarted
				}
			case types.LossPolicyFreeze:
				wasRunning := previouslyRunningOn(r)
				if len(wasRunning) > 0 {
					r.AllocatedNode = wasRunning[0]
				} else {
					r.AllocatedNode = ""
					r.NextRole = types.RoleStopped
				}
			case types.LossPolicyFence:
				for _, nodeID := range previouslyRunningOn(r) {
					fenceNodes[nodeID] = true
				}
				r.AllocatedNode = ""
				r.NextRole = types.RoleStopped
			}
		}
	}
	return fenceNodes
}

// previouslyRunningOn reports the nodes r.CurrentRole considers the
// resource to already be running on, independent of RunningOn (which
// pkg/placement may have overwritten with the new target set for clones).
func previouslyRunningOn(r *types.Resource) []string {
	var out []string
	for nodeID, role := range r.CurrentRole {
		if role != types.RoleStopped && role != types.RoleUnknown {
			out = append(out, nodeID)
		}
	}
	return out
}

func generatePrimitiveActions(ws *types.WorkingSet, r *types.Resource) {
	if r == nil {
		return
	}
	wasRunning := previouslyRunningOn(r)
	target := r.AllocatedNode

	if isMigratable(ws, r, wasRunning, target) {
		generateMigration(ws, r, wasRunning[0], target)
		return
	}

	for _, nodeID := range wasRunning {
		if nodeID != target {
			createAction(ws, r, types.TaskStop, nodeID, false)
		}
	}
	if target != "" && !contains(wasRunning, target) {
		createAction(ws, r, types.TaskStart, target, false)
	} else if target != "" && r.Flags.Failed {
		createAction(ws, r, types.TaskStart, target, false)
	}

	applyRoleChange(ws, r, target, wasRunning)

	if target != "" {
		createMonitors(ws, r, target)
	}
	if ws.Options.EnableStartupProbes {
		generateProbes(ws, r, target)
	}
}

// isMigratable reports whether a running-to-target relocation qualifies as
// a live migration: allow-migrate is set, exactly one prior running node,
// a different target, and the resource is not failed.
func isMigratable(ws *types.WorkingSet, r *types.Resource, wasRunning []string, target string) bool {
	return r.Flags.AllowMigrate && !r.Flags.Failed && len(wasRunning) == 1 &&
		target != "" && target != wasRunning[0]
}

// generateMigration creates migrate_to/migrate_from actions for the
// executor, plus phantom stop/start actions flagged FlagPhantom so
// ordering and notification logic can still key off the usual stop/start
// pair (spec.md §4.4).
func generateMigration(ws *types.WorkingSet, r *types.Resource, from, to string) {
	migTo, _ := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID, Task: types.TaskMigrateTo}, from)
	migTo.SetFlag(types.FlagMigrateRunnable)
	migTo.SetFlag(types.FlagRunnable)
	migTo.MetaAttributes["migrate_target"] = to

	migFrom, _ := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID, Task: types.TaskMigrateFrom}, to)
	migFrom.SetFlag(types.FlagMigrateRunnable)
	migFrom.SetFlag(types.FlagRunnable)
	migFrom.MetaAttributes["migrate_source"] = from

	stop, _ := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID, Task: types.TaskStop}, from)
	stop.SetFlag(types.FlagPhantom)
	stop.SetFlag(types.FlagRunnable)

	start, _ := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID, Task: types.TaskStart}, to)
	start.SetFlag(types.FlagPhantom)
	start.SetFlag(types.FlagRunnable)

	r.CurrentRole = map[string]types.Role{to: types.RoleStarted}
	createMonitors(ws, r, to)
}

func applyRoleChange(ws *types.WorkingSet, r *types.Resource, target string, wasRunning []string) {
	wasPromoted := ""
	for nodeID, role := range r.CurrentRole {
		if role == types.RolePromoted {
			wasPromoted = nodeID
		}
	}
	wantsPromoted := r.NextRole == types.RolePromoted && target != ""

	switch {
	case wantsPromoted && wasPromoted != target:
		if wasPromoted != "" {
			createAction(ws, r, types.TaskDemote, wasPromoted, false)
		}
		createAction(ws, r, types.TaskPromote, target, false)
	case !wantsPromoted && wasPromoted != "" && wasPromoted == target:
		createAction(ws, r, types.TaskDemote, target, false)
	}
}

func createMonitors(ws *types.WorkingSet, r *types.Resource, nodeID string) {
	for _, op := range r.Operations {
		if op.Name != "monitor" || op.IntervalMS <= 0 {
			continue
		}
		a, created := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID, Task: types.TaskMonitor, IntervalMS: op.IntervalMS}, nodeID)
		if created {
			a.TimeoutMS = op.TimeoutMS
			a.SetFlag(types.FlagRunnable)
			a.SetFlag(types.FlagOptional)
		}
	}
}

// generateProbes creates a zero-interval monitor ("probe") on every
// runnable node other than the allocated one, so the scheduler confirms
// the resource isn't already active somewhere unexpected (spec.md §4.4
// "startup probes").
func generateProbes(ws *types.WorkingSet, r *types.Resource, target string) {
	for _, nodeID := range ws.SortedNodeIDs() {
		if nodeID == target {
			continue
		}
		node := ws.Nodes[nodeID]
		if !node.Runnable() {
			continue
		}
		a, created := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID, Task: types.TaskMonitor, IntervalMS: 0}, nodeID)
		if created {
			a.SetFlag(types.FlagProbe)
			a.SetFlag(types.FlagRunnable)
			a.SetFlag(types.FlagOptional)
		}
	}
}

func createAction(ws *types.WorkingSet, r *types.Resource, task types.Task, nodeID string, optional bool) *types.Action {
	a, created := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID, Task: task}, nodeID)
	if created {
		a.SetFlag(types.FlagRunnable)
		if optional {
			a.SetFlag(types.FlagOptional)
		}
		for _, op := range r.Operations {
			if op.Name == string(task) {
				a.TimeoutMS = op.TimeoutMS
			}
		}
	}
	return a
}

// generateCloneActions generates start/stop/promote/demote/monitor for
// every one of a clone's materialized instances. Each instance is its own
// *types.Resource with its own ID, CurrentRole and NextRole, so it gets
// the exact same primitive diff logic (including applyRoleChange's
// promote/demote branch and migration detection) as any standalone
// resource - a clone with N instances on N different nodes therefore
// produces N independently keyed action sets instead of one shared one.
func generateCloneActions(ws *types.WorkingSet, clone *types.Resource) {
	started := 0
	for _, childID := range clone.Children {
		inst := ws.Resources[childID]
		if inst == nil {
			continue
		}
		generatePrimitiveActions(ws, inst)
		if inst.AllocatedNode != "" {
			started++
		}
	}
	generateRelaxedCloneAction(ws, clone, started)
}

// generateRelaxedCloneAction creates clone's relaxed-clone pseudo-action,
// the stand-in pkg/ordering uses when an order constraint names the clone
// itself rather than one of its instances (spec.md §4.4 "clone-min
// gating"): it becomes runnable once at least CloneMin instances (or 1,
// if CloneMin is unset) have been allocated a node this pass.
func generateRelaxedCloneAction(ws *types.WorkingSet, clone *types.Resource, started int) {
	a, created := ws.GetOrCreateAction(types.ActionKey{ResourceID: clone.ID, Task: types.TaskPseudoRelaxedClone}, "")
	if created {
		a.SetFlag(types.FlagPseudo)
		a.MetaAttributes["order_id"] = fmt.Sprintf("relaxed-clone:%d", ws.NextOrderID())
	}
	min := clone.CloneMin
	if min <= 0 {
		min = 1
	}
	if started >= min {
		a.SetFlag(types.FlagRunnable)
	}
}

// generateFencingActions creates a runnable fence action for every node that
// needs one this pass - unclean nodes, plus any node applyTicketLossPolicies
// flagged under loss-policy=fence - when stonith is enabled. Each node gets
// its own ActionKey.ResourceID ("fence:"+nodeID) so simultaneous fencing of
// several nodes doesn't collapse onto a single shared action. Stop and
// zero-interval monitor actions already created on a fenced node are rewritten into
// pseudo-actions implied by fencing (spec.md §4.4 "fencing pseudo-action
// rewriting"); no ordering edge to the fence action is added for them.
func generateFencingActions(ws *types.WorkingSet, ticketFenceNodes map[string]bool) {
	if !ws.Options.StonithEnabled {
		return
	}
	for _, nodeID := range ws.SortedNodeIDs() {
		node := ws.Nodes[nodeID]
		if !node.Unclean && !ticketFenceNodes[nodeID] {
			continue
		}
		a, created := ws.GetOrCreateAction(types.ActionKey{ResourceID: "fence:" + nodeID, Task: types.TaskFence}, nodeID)
		if created {
			a.SetFlag(types.FlagRunnable)
			a.SetFlag(types.FlagImpliedByFencing)
		}
		for _, resourceID := range ws.SortedResourceIDs() {
			r := ws.Resources[resourceID]
			if contains(r.RunningOn, nodeID) {
				for _, key := range []types.ActionKey{
					{ResourceID: r.ID, Task: types.TaskStop},
					{ResourceID: r.ID, Task: types.TaskMonitor},
				} {
					if stopAction, ok := ws.Actions[key]; ok && stopAction.Node == nodeID {
						stopAction.SetFlag(types.FlagImpliedByFencing)
						stopAction.SetFlag(types.FlagPseudo)
					}
				}
			}
		}
	}
}

// generateGateActions pre-creates the one-or-more pseudo-action for every
// synthesized gate so pkg/ordering has a node to wire edges to.
func generateGateActions(ws *types.WorkingSet, cs *constraints.Set) {
	for _, gate := range cs.Gates {
		a, created := ws.GetOrCreateAction(types.ActionKey{ResourceID: gate.ID, Task: types.TaskPseudoOneOrMore}, "")
		if created {
			a.SetFlag(types.FlagPseudo)
			a.SetFlag(types.FlagRequiresAny)
			a.SetFlag(types.FlagRunnable)
		}
	}
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
