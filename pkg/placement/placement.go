package placement

import (
	"sort"

	"github.com/cuemby/pcmk-scheduler/pkg/constraints"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// Allocate scores every node for every resource in ws and assigns
// AllocatedNode (and, for clones, per-instance placement reflected through
// AllowedNodes) accordingly. It is idempotent: re-running it against the
// same inputs produces the same allocation.
func Allocate(ws *types.WorkingSet, cs *constraints.Set) {
	order := resourcesByPriority(ws)

	for _, r := range order {
		if r.IsClone() {
			allocateClone(ws, cs, r)
			continue
		}
		if r.Parent != "" {
			// Group and clone children are allocated by their parent's own
			// pass (allocateClone above, the group pass below); skip here to
			// avoid a double allocation.
			if parent, ok := ws.Resources[r.Parent]; ok && (parent.Variant == types.VariantGroup || parent.IsClone()) {
				continue
			}
		}
		allocatePrimitive(ws, cs, r)
	}

	// Each group child is allocated on its own, and the group records its
	// first child's node as its own allocation (spec.md §2 "children
	// (ordered; semantics variant-dependent)"). Children are not forced
	// onto the first child's node.
	for _, r := range order {
		if r.Variant != types.VariantGroup || len(r.Children) == 0 {
			continue
		}
		for _, childID := range r.Children {
			allocatePrimitive(ws, cs, ws.Resources[childID])
		}
		if first, ok := ws.Resources[r.Children[0]]; ok {
			r.AllocatedNode = first.AllocatedNode
		}
	}
}

func resourcesByPriority(ws *types.WorkingSet) []*types.Resource {
	ids := ws.SortedResourceIDs()
	out := make([]*types.Resource, 0, len(ids))
	for _, id := range ids {
		out = append(out, ws.Resources[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Score computes resourceID's total allocation score on nodeID: the sum of
// every applicable location score, stickiness toward the current node, the
// migration-threshold penalty, the node-health contribution, and
// colocation propagation from already-allocated primaries.
func Score(ws *types.WorkingSet, cs *constraints.Set, r *types.Resource, nodeID string) float64 {
	node := ws.Nodes[nodeID]
	if node == nil || !node.Runnable() || node.Standby || node.Maintenance {
		return types.ScoreNegInfinity
	}

	total := 0.0
	for _, loc := range cs.LocationsFor(r.ID) {
		total += locationScore(loc, nodeID)
		if types.IsInfinite(total) && total < 0 {
			return types.ScoreNegInfinity
		}
	}

	if contains(r.RunningOn, nodeID) {
		total += r.Stickiness
	}

	if r.MigrationThreshold > 0 && r.FailCount[nodeID] >= r.MigrationThreshold {
		total = types.ScoreNegInfinity
	}

	total += healthContribution(ws, node)
	total += colocationScore(ws, cs, r, nodeID)

	return total
}

func locationScore(loc constraints.LocationConstraint, nodeID string) float64 {
	if loc.Node != "" {
		if loc.Node == nodeID {
			return loc.Score
		}
		return 0
	}
	if loc.ResolvedScores != nil {
		return loc.ResolvedScores[nodeID]
	}
	return 0
}

// colocationScore implements spec.md §4.3's colocation propagation rule:
// for each colocation where r is dependent on an already-placed primary,
// add the constraint score if the primary sits on an equivalent node;
// otherwise restrict (±INFINITY) candidacy accordingly.
func colocationScore(ws *types.WorkingSet, cs *constraints.Set, r *types.Resource, nodeID string) float64 {
	total := 0.0
	node := ws.Nodes[nodeID]
	for _, c := range cs.ColocationsByDependent(r.ID) {
		primary, ok := ws.Resources[c.Primary]
		if !ok || primary.AllocatedNode == "" {
			continue
		}
		primaryNode := ws.Nodes[primary.AllocatedNode]
		equivalent := primaryNode != nil && nodeEquivalent(node, primaryNode, c.NodeAttribute)

		switch {
		case equivalent:
			total += c.Score
		case c.Score >= types.ScoreInfinity:
			return types.ScoreNegInfinity
		case c.Score <= types.ScoreNegInfinity:
			// Already not equivalent: nothing further to restrict.
		}
	}
	return total
}

func nodeEquivalent(a, b *types.Node, attr string) bool {
	if a == nil || b == nil {
		return false
	}
	if attr == "" || attr == "#uname" {
		return a.ID == b.ID
	}
	return a.Attributes[attr] == b.Attributes[attr] && a.Attributes[attr] != ""
}

// healthContribution applies the configured node-health strategy (spec.md
// §6): "migrate-on-red" zeroes out candidacy on a red node, "only-green"
// additionally excludes yellow, "progressive" sums every #health-* value,
// "none" and "custom" contribute nothing here (custom strategies are
// expected to have already been folded into location scores upstream).
func healthContribution(ws *types.WorkingSet, node *types.Node) float64 {
	switch ws.Options.HealthStrategy {
	case types.HealthStrategyMigrateOnRed:
		if healthStatus(node) == "red" {
			return types.ScoreNegInfinity
		}
	case types.HealthStrategyOnlyGreen:
		if healthStatus(node) != "green" {
			return types.ScoreNegInfinity
		}
	case types.HealthStrategyProgressive:
		total := 0.0
		for k, v := range node.Attributes {
			if len(k) > 8 && k[:8] == "#health-" {
				if f, ok := parseHealthValue(v); ok {
					total += f
				}
			}
		}
		return total
	}
	return 0
}

func healthStatus(node *types.Node) string {
	worst := "green"
	for k, v := range node.Attributes {
		if len(k) > 8 && k[:8] == "#health-" {
			switch v {
			case "red":
				return "red"
			case "yellow":
				worst = "yellow"
			}
		}
	}
	return worst
}

func parseHealthValue(v string) (float64, bool) {
	switch v {
	case "red":
		return types.ScoreNegInfinity, true
	case "yellow":
		return -1, true
	case "green":
		return 0, true
	}
	return 0, false
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// allocatePrimitive picks the highest-scoring node among the candidates
// hasUtilizationCapacity allows, breaking ties by node ID.
func allocatePrimitive(ws *types.WorkingSet, cs *constraints.Set, r *types.Resource) {
	if r == nil || !r.Flags.Managed {
		return
	}
	best, bestScore := "", types.ScoreNegInfinity
	for _, nodeID := range ws.SortedNodeIDs() {
		if !hasUtilizationCapacity(ws, r, nodeID) {
			continue
		}
		s := Score(ws, cs, r, nodeID)
		r.AllowedNodes[nodeID] = s
		if s > bestScore || (s == bestScore && best != "" && nodeID < best) {
			best, bestScore = nodeID, s
		}
	}
	if bestScore <= types.ScoreNegInfinity {
		r.AllocatedNode = ""
		r.NextRole = types.RoleStopped
		return
	}
	r.AllocatedNode = best
	r.NextRole = types.RoleStarted
}

// hasUtilizationCapacity reports whether nodeID's configured capacity covers
// every one of r's named utilization attributes, when the cluster uses a
// utilization-aware placement strategy (spec.md §4.3). It compares against
// the node's total capacity; what other resources placed on the node
// already use is not subtracted.
func hasUtilizationCapacity(ws *types.WorkingSet, r *types.Resource, nodeID string) bool {
	if ws.Options.PlacementStrategy != types.PlacementUtilization && ws.Options.PlacementStrategy != types.PlacementBalanced && ws.Options.PlacementStrategy != types.PlacementMinimal {
		return true
	}
	node := ws.Nodes[nodeID]
	if node == nil {
		return false
	}
	for attr, need := range resourceUtilization(r) {
		if node.Utilization[attr] < need {
			return false
		}
	}
	return true
}

func resourceUtilization(r *types.Resource) map[string]int {
	out := make(map[string]int)
	for k, v := range r.InstanceAttributes {
		if n, ok := parseInt(v); ok {
			out[k] = n
		}
	}
	return out
}

func parseInt(s string) (int, bool) {
	n := 0
	neg := false
	if s == "" {
		return 0, false
	}
	for i, c := range s {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// allocateClone allocates each of a clone's materialized instance
// resources (pkg/cib.materializeClones already split the template into
// "<id>:<n>" instances, one per clone-max slot) to its own node, up to
// clone-node-max per node, then, for promotable clones, ranks the
// allocated instances by promotion score and promotes the top
// promoted-max (respecting promoted-node-max) - spec.md §4.3's "Clones and
// promotable clones".
func allocateClone(ws *types.WorkingSet, cs *constraints.Set, clone *types.Resource) {
	instances := make([]*types.Resource, 0, len(clone.Children))
	for _, childID := range clone.Children {
		if inst, ok := ws.Resources[childID]; ok {
			instances = append(instances, inst)
		}
	}
	if len(instances) == 0 {
		return
	}

	cloneNodeMax := clone.CloneNodeMax
	if cloneNodeMax <= 0 {
		cloneNodeMax = 1
	}

	// An instance already running somewhere gets first claim on scoring so
	// a steady-state clone doesn't reshuffle instance-to-node assignments
	// every pass; unallocated instances are placed after.
	ordered := append([]*types.Resource(nil), instances...)
	sort.SliceStable(ordered, func(i, j int) bool {
		iRunning, jRunning := len(ordered[i].RunningOn) > 0, len(ordered[j].RunningOn) > 0
		if iRunning != jRunning {
			return iRunning
		}
		return ordered[i].ID < ordered[j].ID
	})

	type scored struct {
		nodeID string
		score  float64
	}
	nodeUsage := map[string]int{}
	var allocatedNodes []string

	for _, inst := range ordered {
		var candidates []scored
		for _, nodeID := range ws.SortedNodeIDs() {
			if nodeUsage[nodeID] >= cloneNodeMax || !hasUtilizationCapacity(ws, inst, nodeID) {
				continue
			}
			candidates = append(candidates, scored{nodeID, Score(ws, cs, inst, nodeID)})
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].score != candidates[j].score {
				return candidates[i].score > candidates[j].score
			}
			return candidates[i].nodeID < candidates[j].nodeID
		})

		inst.AllowedNodes = map[string]float64{}
		for _, c := range candidates {
			inst.AllowedNodes[c.nodeID] = c.score
		}

		if len(candidates) == 0 || candidates[0].score <= types.ScoreNegInfinity {
			inst.AllocatedNode = ""
			inst.NextRole = types.RoleStopped
			continue
		}
		chosen := candidates[0].nodeID
		inst.AllocatedNode = chosen
		inst.NextRole = types.RoleStarted
		nodeUsage[chosen]++
		allocatedNodes = append(allocatedNodes, chosen)
	}

	sort.Strings(allocatedNodes)
	clone.AllowedNodes = map[string]float64{}
	for _, inst := range instances {
		for nodeID, score := range inst.AllowedNodes {
			if cur, ok := clone.AllowedNodes[nodeID]; !ok || score > cur {
				clone.AllowedNodes[nodeID] = score
			}
		}
	}
	clone.AllocatedNode = ""
	if len(allocatedNodes) > 0 {
		clone.AllocatedNode = allocatedNodes[0]
	}
	clone.RunningOn = allocatedNodes

	if clone.Variant != types.VariantPromotableClone {
		return
	}
	promotePromotableInstances(ws, clone, instances)
}

// promotePromotableInstances ranks each allocated instance by promotion
// score (the node's "master-<rsc>" attribute plus stickiness toward an
// already-promoted node) and sets NextRole to Promoted on the top
// PromotedMax instances (honoring PromotedNodeMax), leaving the rest at
// Started. It never touches CurrentRole, the decode/status-derived "was
// this running and in what role" snapshot pkg/actions needs untouched to
// diff the old role against NextRole and decide promote vs. demote.
func promotePromotableInstances(ws *types.WorkingSet, clone *types.Resource, instances []*types.Resource) {
	type scored struct {
		inst  *types.Resource
		score float64
	}
	var ranked []scored
	for _, inst := range instances {
		if inst.AllocatedNode == "" {
			continue
		}
		nodeID := inst.AllocatedNode
		node := ws.Nodes[nodeID]
		score := 0.0
		if v, ok := node.Attributes["master-"+inst.ID]; ok {
			if f, ok := parseInt(v); ok {
				score = float64(f)
			}
		} else if v, ok := node.Attributes["master-"+clone.ID]; ok {
			if f, ok := parseInt(v); ok {
				score = float64(f)
			}
		}
		if inst.CurrentRole[nodeID] == types.RolePromoted {
			score += inst.Stickiness
		}
		ranked = append(ranked, scored{inst, score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].inst.ID < ranked[j].inst.ID
	})

	max := clone.PromotedMax
	if max <= 0 {
		max = 1
	}
	promotedNodeMax := clone.PromotedNodeMax
	if promotedNodeMax <= 0 {
		promotedNodeMax = 1
	}

	promoted := 0
	nodePromotions := map[string]int{}
	for _, r := range ranked {
		if promoted >= max {
			break
		}
		if nodePromotions[r.inst.AllocatedNode] >= promotedNodeMax {
			continue
		}
		r.inst.NextRole = types.RolePromoted
		nodePromotions[r.inst.AllocatedNode]++
		promoted++
	}
}
