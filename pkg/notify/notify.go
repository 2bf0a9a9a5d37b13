package notify

import (
	"sort"
	"strings"

	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// entry is one (resource, node) pair contributed to a notify list.
type entry struct {
	resourceID string
	nodeID     string // "" sorts last, mirroring a NULL uname in pe_notif.c
}

// compare orders entries resource-id first, then node-id, with a missing
// node-id sorting after any present one - pe_notif.c's compare_notify_entries.
func compare(a, b entry) bool {
	if a.resourceID != b.resourceID {
		return a.resourceID < b.resourceID
	}
	if a.nodeID == "" && b.nodeID != "" {
		return false
	}
	if a.nodeID != "" && b.nodeID == "" {
		return true
	}
	return a.nodeID < b.nodeID
}

func sortEntries(entries []entry) []entry {
	out := append([]entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool { return compare(out[i], out[j]) })
	deduped := out[:0]
	for i, e := range out {
		if i > 0 && e == out[i-1] {
			continue
		}
		deduped = append(deduped, e)
	}
	return deduped
}

func formatList(entries []entry, field func(entry) string) string {
	sorted := sortEntries(entries)
	parts := make([]string, 0, len(sorted))
	for _, e := range sorted {
		if v := field(e); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// Generate creates pre/post-notify pseudo-actions for every notify-enabled
// resource that has at least one start/stop/promote/demote action this
// pass, and attaches the notify_* meta-attribute lists spec.md §4.5
// requires. Must run after pkg/actions.Generate and before
// pkg/ordering.Build, since the notify pseudo-actions need ordering edges
// around the real action they bracket.
func Generate(ws *types.WorkingSet) {
	for _, resourceID := range ws.SortedResourceIDs() {
		r := ws.Resources[resourceID]
		if !r.Flags.Notify {
			continue
		}
		generateForResource(ws, r)
	}
}

func generateForResource(ws *types.WorkingSet, r *types.Resource) {
	var starting, stopping, promoting, demoting []entry
	var active, inactive, promoted, unpromoted []entry

	for key, a := range ws.Actions {
		if key.ResourceID != r.ID {
			continue
		}
		e := entry{resourceID: r.ID, nodeID: a.Node}
		switch key.Task {
		case types.TaskStart:
			starting = append(starting, e)
		case types.TaskStop:
			stopping = append(stopping, e)
		case types.TaskPromote:
			promoting = append(promoting, e)
		case types.TaskDemote:
			demoting = append(demoting, e)
		}
	}
	if len(starting) == 0 && len(stopping) == 0 && len(promoting) == 0 && len(demoting) == 0 {
		return
	}

	for _, nodeID := range r.RunningOn {
		e := entry{resourceID: r.ID, nodeID: nodeID}
		active = append(active, e)
		if r.CurrentRole[nodeID] == types.RolePromoted {
			promoted = append(promoted, e)
		} else {
			unpromoted = append(unpromoted, e)
		}
	}
	for _, nodeID := range ws.SortedNodeIDs() {
		if !contains(r.RunningOn, nodeID) {
			inactive = append(inactive, entry{resourceID: r.ID, nodeID: nodeID})
		}
	}

	all := append(append(append(append([]entry{}, active...), inactive...), starting...), stopping...)
	var available []entry
	for _, nodeID := range ws.SortedNodeIDs() {
		if ws.Nodes[nodeID].Runnable() {
			available = append(available, entry{resourceID: r.ID, nodeID: nodeID})
		}
	}

	meta := map[string]string{
		"notify_start_resource":      formatList(starting, resourceField),
		"notify_start_uname":         formatList(starting, nodeField),
		"notify_stop_resource":       formatList(stopping, resourceField),
		"notify_stop_uname":          formatList(stopping, nodeField),
		"notify_promote_resource":    formatList(promoting, resourceField),
		"notify_promote_uname":       formatList(promoting, nodeField),
		"notify_demote_resource":     formatList(demoting, resourceField),
		"notify_demote_uname":        formatList(demoting, nodeField),
		"notify_active_resource":     formatList(active, resourceField),
		"notify_active_uname":        formatList(active, nodeField),
		"notify_inactive_resource":   formatList(inactive, resourceField),
		"notify_inactive_uname":      formatList(inactive, nodeField),
		"notify_promoted_resource":   formatList(promoted, resourceField),
		"notify_promoted_uname":      formatList(promoted, nodeField),
		"notify_unpromoted_resource": formatList(unpromoted, resourceField),
		"notify_unpromoted_uname":    formatList(unpromoted, nodeField),
		"notify_available_resource":  formatList(available, resourceField),
		"notify_available_uname":     formatList(available, nodeField),
		"notify_all_resource":        formatList(all, resourceField),
		"notify_all_uname":           formatList(all, nodeField),
	}

	// The four bracketing pseudo-actions are resource-wide barriers, not
	// per-node, so each gets exactly one Action with Node == "" (see
	// types.Task's "a pseudo-action's Node is always \"\"" comment).
	pre, _ := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID, Task: types.TaskPseudoPreNotify}, "")
	preDone, _ := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID, Task: types.TaskPseudoPreNotifyDone}, "")
	post, _ := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID, Task: types.TaskPseudoPostNotify}, "")
	postDone, _ := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID, Task: types.TaskPseudoPostNotifyDone}, "")
	for _, pseudo := range []*types.Action{pre, preDone, post, postDone} {
		for k, v := range meta {
			pseudo.MetaAttributes[k] = v
		}
		pseudo.SetFlag(types.FlagPseudo)
		pseudo.SetFlag(types.FlagRunnable)
	}

	// Every bracketed node gets its own real notify/notified action, keyed
	// by a synthetic per-node ResourceID so they don't collide into a
	// single shared Action the way a bare {r.ID, TaskNotify} key would
	// (pkg/ordering.notifyOrders discovers these via the resourceID@ prefix
	// rather than this exact key, since ActionKey has no node field).
	for _, nodeID := range activeAndTargetNodes(r, starting) {
		notify, _ := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID + "@notify:" + nodeID, Task: types.TaskNotify}, nodeID)
		notified, _ := ws.GetOrCreateAction(types.ActionKey{ResourceID: r.ID + "@notified:" + nodeID, Task: types.TaskNotified}, nodeID)
		for _, a := range []*types.Action{notify, notified} {
			for k, v := range meta {
				a.MetaAttributes[k] = v
			}
			a.MetaAttributes["notify_resource"] = r.ID
			a.SetFlag(types.FlagRunnable)
			a.SetFlag(types.FlagOptional)
		}
	}
}

func activeAndTargetNodes(r *types.Resource, starting []entry) []string {
	set := map[string]bool{}
	for _, n := range r.RunningOn {
		set[n] = true
	}
	for _, e := range starting {
		if e.nodeID != "" {
			set[e.nodeID] = true
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func resourceField(e entry) string { return e.resourceID }
func nodeField(e entry) string     { return e.nodeID }

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
