package constraints

import (
	"fmt"

	"github.com/cuemby/pcmk-scheduler/pkg/rules"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// Unpack lowers a raw Input into a typed Set, attached to the resources and
// tickets already present in ws. Every detected configuration error is
// recorded as a SeverityConfigError diagnostic on ws and the offending
// constraint is skipped; unpacking never aborts early (spec.md §7).
func Unpack(ws *types.WorkingSet, in *Input) *Set {
	u := &unpacker{ws: ws, in: in, out: &Set{}}
	u.resolveLocations()
	u.resolveColocations()
	u.resolveOrders()
	u.resolveTickets()
	return u.out
}

type unpacker struct {
	ws  *types.WorkingSet
	in  *Input
	out *Set
}

// resolveRef expands a resource or tag ID into the concrete resource IDs it
// names, in declaration order. A bare resource ID that exists in
// ws.Resources resolves to itself; a tag ID resolves to its members; any
// other value is unknown and the caller records a diagnostic.
func (u *unpacker) resolveRef(ref string) ([]string, bool) {
	if members, ok := u.in.Tags[ref]; ok {
		var out []string
		for _, m := range members {
			if _, exists := u.ws.Resources[m]; exists {
				out = append(out, m)
			}
		}
		return out, true
	}
	if _, ok := u.ws.Resources[ref]; ok {
		return []string{ref}, true
	}
	return nil, false
}

func (u *unpacker) configError(objectID, format string, args ...any) {
	u.ws.AddDiagnostic(types.SeverityConfigError, objectID, fmt.Sprintf(format, args...))
}

// --- locations ---

func (u *unpacker) resolveLocations() {
	for _, raw := range u.in.Locations {
		refs, ok := u.resolveRef(raw.ResourceID)
		if !ok {
			u.configError(raw.ID, "location constraint references unknown resource or tag %q", raw.ResourceID)
			continue
		}
		for _, resourceID := range refs {
			lc := LocationConstraint{
				ID:         constraintMemberID(raw.ID, resourceID),
				ResourceID: resourceID,
				Node:       raw.Node,
				Score:      raw.Score,
				Role:       raw.Role,
				Discovery:  raw.Discovery,
			}
			if len(raw.Rules) > 0 {
				lc.Rules = raw.Rules
				lc.CombineOp = raw.CombineOp
				lc.ResolvedScores = u.resolveRuleScores(raw.Rules, raw.CombineOp)
			}
			u.out.Locations = append(u.out.Locations, lc)
		}
	}
}

// resolveRuleScores evaluates every rule against each node's attributes and
// combines the contributing scores per spec.md §4.1: with boolean-op "and",
// a node failing any rule is excluded from the result map entirely; with
// "or" (the default), every true rule's score is summed for that node. Each
// rule's next-recheck hint is folded into Set.RecheckHints regardless of
// the node it was evaluated against: a rule's truth can vary by node, but
// its hint comes only from date expressions, which never read node
// attributes.
func (u *unpacker) resolveRuleScores(ruleScores []RuleScore, op rules.BooleanOp) map[string]float64 {
	result := make(map[string]float64)
	and := op == rules.BooleanAnd

	for _, nodeID := range u.ws.SortedNodeIDs() {
		node := u.ws.Nodes[nodeID]
		total := 0.0
		satisfiedAny := false
		failedAny := false

		for _, rs := range ruleScores {
			truth, hint := rs.Rule.Evaluate(u.ws.Now, node.Attributes)
			u.out.RecheckHints = append(u.out.RecheckHints, hint)
			if !truth {
				failedAny = true
				continue
			}
			satisfiedAny = true
			score := rs.Score
			if rs.ScoreAttribute != "" {
				score = scoreFromAttribute(node, rs.ScoreAttribute)
			}
			total += score
		}

		switch {
		case and && failedAny:
			continue
		case !and && !satisfiedAny:
			continue
		}
		result[nodeID] = total
	}
	return result
}

func scoreFromAttribute(node *types.Node, attr string) float64 {
	v, ok := node.Attributes[attr]
	if !ok {
		return 0
	}
	f, ok := parseScore(v)
	if !ok {
		return 0
	}
	return f
}

// --- colocations ---

func (u *unpacker) resolveColocations() {
	for _, raw := range u.in.Colocations {
		u.resolveOneColocation(raw)
	}
}

func (u *unpacker) resolveOneColocation(raw RawColocation) {
	if len(raw.Sets) > 0 {
		u.resolveColocationSets(raw)
		return
	}

	dependents, ok := u.resolveRef(raw.Dependent)
	if !ok {
		u.configError(raw.ID, "colocation constraint references unknown dependent %q", raw.Dependent)
		return
	}
	primaries, ok := u.resolveRef(raw.Primary)
	if !ok {
		u.configError(raw.ID, "colocation constraint references unknown primary %q", raw.Primary)
		return
	}
	if len(dependents) > 1 && len(primaries) > 1 {
		u.configError(raw.ID, "colocation between two tags is not supported")
		return
	}

	nodeAttr := raw.NodeAttribute
	if nodeAttr == "" {
		nodeAttr = "#uname"
	}

	for _, dep := range dependents {
		for _, pri := range primaries {
			if dep == pri {
				u.configError(raw.ID, "colocation constraint %s cannot reference itself", raw.ID)
				continue
			}
			influence := raw.Influence
			if !raw.InfluenceSet {
				if r, ok := u.ws.Resources[dep]; ok {
					influence = r.Flags.Critical
				}
			}
			cc := ColocationConstraint{
				ID:            constraintMemberID(raw.ID, dep+"-"+pri),
				Dependent:     dep,
				Primary:       pri,
				Score:         raw.Score,
				DependentRole: raw.DependentRole,
				PrimaryRole:   raw.PrimaryRole,
				NodeAttribute: nodeAttr,
				Influence:     influence,
			}
			u.out.Colocations = append(u.out.Colocations, cc)

			// A score <= -INFINITY anti-colocation additionally synthesizes a
			// mandatory stop-before-start ordering edge so that the two
			// resources are never briefly co-located mid-transition
			// (spec.md §4.1).
			if raw.Score <= types.ScoreNegInfinity {
				u.out.Orders = append(u.out.Orders, OrderConstraint{
					ID:             cc.ID + "-anti-colocation",
					FirstResource:  dep,
					FirstTask:      types.TaskStop,
					ThenResource:   pri,
					ThenTask:       types.TaskStart,
					Kind:           KindMandatory,
					Symmetric:      false,
					AntiColocation: true,
				})
			}
		}
	}
}

// resolveColocationSets lowers a <rsc_colocation> using the <resource_set>
// grouping form. Sets are listed most-primary-first: within a sequential
// set each member is colocated with the previous member, and each set's
// members are colocated with the previous set's members, all carrying the
// constraint's single score (spec.md §4.1).
func (u *unpacker) resolveColocationSets(raw RawColocation) {
	nodeAttr := raw.NodeAttribute
	if nodeAttr == "" {
		nodeAttr = "#uname"
	}

	for _, s := range raw.Sets {
		for _, ref := range s.Members {
			if _, ok := u.resolveRef(ref); !ok {
				u.configError(raw.ID, "colocation set references unknown resource or tag %q", ref)
				return
			}
		}
	}

	var expanded [][]string
	for _, s := range raw.Sets {
		var members []string
		for _, ref := range s.Members {
			m, _ := u.resolveRef(ref)
			members = append(members, m...)
		}
		expanded = append(expanded, members)

		if s.Sequential {
			for i := 0; i+1 < len(members); i++ {
				u.out.Colocations = append(u.out.Colocations, ColocationConstraint{
					ID:            fmt.Sprintf("%s-seq-%s-%s", raw.ID, members[i], members[i+1]),
					Dependent:     members[i+1],
					Primary:       members[i],
					Score:         raw.Score,
					NodeAttribute: nodeAttr,
				})
			}
		}
	}

	for i := 0; i+1 < len(expanded); i++ {
		dependents, primaries := expanded[i+1], expanded[i]
		for _, d := range dependents {
			for _, p := range primaries {
				u.out.Colocations = append(u.out.Colocations, ColocationConstraint{
					ID:            fmt.Sprintf("%s-xset-%s-%s", raw.ID, d, p),
					Dependent:     d,
					Primary:       p,
					Score:         raw.Score,
					NodeAttribute: nodeAttr,
				})
			}
		}
	}
}

// --- orders ---

func (u *unpacker) resolveOrders() {
	for _, raw := range u.in.Orders {
		u.resolveOneOrder(raw)
	}
}

func (u *unpacker) resolveOneOrder(raw RawOrder) {
	if raw.KindSet {
		switch raw.Kind {
		case KindMandatory, KindOptional, KindSerialize:
		default:
			u.configError(raw.ID, "order constraint has invalid kind %q", raw.Kind)
			return
		}
	}
	if len(raw.Sets) > 0 {
		for _, s := range raw.Sets {
			for _, ref := range s.Members {
				if _, ok := u.resolveRef(ref); !ok {
					u.configError(raw.ID, "order set references unknown resource or tag %q", ref)
					return
				}
			}
		}
		kind := raw.Kind
		if !raw.KindSet {
			kind = KindMandatory
		}
		orders, gates := LowerOrderSets(raw.ID, raw.Sets, kind, u.resolveRef)
		u.out.Orders = append(u.out.Orders, orders...)
		u.out.Gates = append(u.out.Gates, gates...)
		return
	}

	firsts, ok := u.resolveRef(raw.FirstResource)
	if !ok {
		u.configError(raw.ID, "order constraint references unknown first resource %q", raw.FirstResource)
		return
	}
	thens, ok := u.resolveRef(raw.ThenResource)
	if !ok {
		u.configError(raw.ID, "order constraint references unknown then resource %q", raw.ThenResource)
		return
	}

	kind := raw.Kind
	if !raw.KindSet {
		// Legacy score-based order: score 0 is Optional, anything else
		// (including -INFINITY/INFINITY) is Mandatory (spec.md §4.1).
		if raw.Score == 0 {
			kind = KindOptional
		} else {
			kind = KindMandatory
		}
		u.ws.AddDiagnostic(types.SeverityWarn, raw.ID, "order constraint uses deprecated \"score\" attribute instead of \"kind\"")
	}

	for _, f := range firsts {
		for _, t := range thens {
			if f == t {
				continue
			}
			u.out.Orders = append(u.out.Orders, OrderConstraint{
				ID:            constraintMemberID(raw.ID, f+"-"+t),
				FirstResource: f,
				FirstTask:     raw.FirstTask,
				ThenResource:  t,
				ThenTask:      raw.ThenTask,
				Kind:          kind,
				Symmetric:     raw.Symmetric,
			})
		}
	}
}

// LowerOrderSets lowers a sequence of resource sets attached to one
// <rsc_order> (or the freestanding <resource_set> grouping syntax) into
// pairwise OrderConstraints plus any one-or-more gates the sets require.
// Within a set, members chain sequentially when Sequential is true (each
// consecutive pair gets its own edge) or are left mutually unordered when
// false. Between adjacent sets, every member of the earlier set orders
// before every member of the later set (a full cross-product), unless the
// earlier set has require-all=false: then its members feed a one-or-more
// gate and the gate orders before every member of the later set.
func LowerOrderSets(orderID string, sets []RawResourceSet, kind OrderKind, resolveRef func(string) ([]string, bool)) ([]OrderConstraint, []OneOrMoreGate) {
	var orders []OrderConstraint
	var gates []OneOrMoreGate

	type side struct {
		members []string // concrete resource IDs, expanded from refs
		gateID  string   // non-empty if this set synthesized a one-or-more gate
	}

	sides := make([]side, 0, len(sets))
	for i, s := range sets {
		var members []string
		for _, ref := range s.Members {
			expanded, _ := resolveRef(ref)
			members = append(members, expanded...)
		}

		if s.Sequential {
			for j := 0; j+1 < len(members); j++ {
				orders = append(orders, OrderConstraint{
					ID:            fmt.Sprintf("%s-seq-%d-%d", orderID, i, j),
					FirstResource: members[j],
					FirstTask:     types.TaskStart,
					ThenResource:  members[j+1],
					ThenTask:      types.TaskStart,
					Kind:          kind,
					Symmetric:     true,
				})
			}
		}

		sd := side{members: members}
		if !s.RequireAll && len(members) > 0 {
			gateID := fmt.Sprintf("%s-one-or-more-%d", orderID, i)
			sd.gateID = gateID
		}
		sides = append(sides, sd)
	}

	for i := 0; i+1 < len(sides); i++ {
		left, right := sides[i], sides[i+1]

		if left.gateID != "" {
			var feeders []ResourceTaskRef
			for _, m := range left.members {
				feeders = append(feeders, ResourceTaskRef{ResourceID: m, Task: types.TaskStart})
			}
			var gated []ResourceTaskRef
			for _, m := range right.members {
				gated = append(gated, ResourceTaskRef{ResourceID: m, Task: types.TaskStart})
			}
			gates = append(gates, OneOrMoreGate{ID: left.gateID, Feeders: feeders, Gated: gated, Kind: kind})
			continue
		}

		for _, lm := range left.members {
			for _, rm := range right.members {
				orders = append(orders, OrderConstraint{
					ID:            fmt.Sprintf("%s-xprod-%d-%s-%s", orderID, i, lm, rm),
					FirstResource: lm,
					FirstTask:     types.TaskStart,
					ThenResource:  rm,
					ThenTask:      types.TaskStart,
					Kind:          kind,
					Symmetric:     true,
				})
			}
		}
	}

	return orders, gates
}

// --- tickets ---

func (u *unpacker) resolveTickets() {
	for _, raw := range u.in.Tickets {
		refs, ok := u.resolveRef(raw.ResourceID)
		if !ok {
			u.configError(raw.ID, "ticket constraint references unknown resource or tag %q", raw.ResourceID)
			continue
		}
		for _, resourceID := range refs {
			u.out.Tickets = append(u.out.Tickets, TicketConstraint{
				ID:         constraintMemberID(raw.ID, resourceID),
				ResourceID: resourceID,
				TicketID:   raw.TicketID,
				Role:       raw.Role,
				LossPolicy: raw.LossPolicy,
			})
		}
	}
}

func constraintMemberID(constraintID, member string) string {
	if member == "" {
		return constraintID
	}
	return constraintID + "/" + member
}

// parseScore parses a score literal, recognizing the "INFINITY"/"-INFINITY"
// sentinels in addition to plain integers.
func parseScore(s string) (float64, bool) {
	switch s {
	case "INFINITY":
		return types.ScoreInfinity, true
	case "-INFINITY":
		return types.ScoreNegInfinity, true
	}
	var f float64
	_, err := fmt.Sscanf(s, "%g", &f)
	return f, err == nil
}
