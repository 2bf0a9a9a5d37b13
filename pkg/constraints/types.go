package constraints

import (
	"time"

	"github.com/cuemby/pcmk-scheduler/pkg/rules"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// OrderKind classifies an ordering constraint's strength.
type OrderKind string

const (
	KindMandatory OrderKind = "Mandatory"
	KindOptional  OrderKind = "Optional"
	KindSerialize OrderKind = "Serialize"
)

// LocationConstraint places or bans a resource relative to one node, or
// scores it across every node via a rule tree.
type LocationConstraint struct {
	ID         string
	ResourceID string

	// Node is set for a plain (non-rule) location constraint; empty when
	// Rule is used instead.
	Node  string
	Score float64

	Role      types.RoleFilter
	Discovery types.DiscoveryPolicy

	// Rules is populated instead of Node/Score for a rule-based location
	// constraint: each child rule contributes its own score when true. With
	// CombineOp == "and" a node failing any rule is excluded outright; with
	// "or" (the default) each node's contributing rule scores are summed.
	Rules     []RuleScore
	CombineOp rules.BooleanOp

	// ResolvedScores holds the per-node score computed once during
	// unpacking by evaluating every RuleScore against that node's
	// attributes (spec.md §4.1 "Location with rule"). Populated only when
	// Rules is non-empty.
	ResolvedScores map[string]float64
}

// RuleScore is one <rule> child of a rule-based location constraint: its
// own boolean expression tree and the score it contributes when true.
type RuleScore struct {
	Rule           *rules.Rule
	Score          float64
	ScoreAttribute string
}

// ColocationConstraint binds a dependent resource's placement to a
// primary resource's placement.
type ColocationConstraint struct {
	ID        string
	Dependent string
	Primary   string
	Score     float64

	DependentRole types.RoleFilter
	PrimaryRole   types.RoleFilter

	// NodeAttribute is the node attribute whose value must match between
	// dependent and primary candidates; defaults to "#uname" (node identity).
	NodeAttribute string

	// Influence decides whether the dependent dragging out of place can
	// evict the primary. Defaults to the dependent resource's Critical flag
	// when not explicitly set on the XML element.
	Influence bool
}

// OrderConstraint sequences two actions.
type OrderConstraint struct {
	ID string

	FirstResource string
	FirstTask     types.Task
	ThenResource  string
	ThenTask      types.Task

	Kind      OrderKind
	Symmetric bool

	// GateID, when non-empty, names a synthesized one-or-more pseudo-action
	// that ThenResource/ThenTask actually waits on instead of FirstResource/
	// FirstTask directly (see OneOrMoreGate).
	GateID string

	// AntiColocation marks an order synthesized from a score <= -INFINITY
	// colocation constraint (spec.md §4.1): it carries the "anti-colocation"
	// ordering-edge flag instead of the usual implies-then/implies-first
	// pair built by pkg/ordering.
	AntiColocation bool
}

// ResourceTaskRef names one (resource, task) pair inside a resource set.
type ResourceTaskRef struct {
	ResourceID string
	Task       types.Task
}

// OneOrMoreGate models a require-all=false resource-set boundary: every
// Feeder action feeds the gate with a "one-or-more" edge, and the gate
// mandatorily precedes every Gated action via a "runnable-left" edge
// (spec.md §4.1, §4.4).
type OneOrMoreGate struct {
	ID      string
	Feeders []ResourceTaskRef
	Gated   []ResourceTaskRef
	Kind    OrderKind
}

// TicketConstraint binds a resource's role to a ticket's grant state.
type TicketConstraint struct {
	ID         string
	ResourceID string
	TicketID   string
	Role       types.RoleFilter
	LossPolicy types.LossPolicy
}

// Set is the fully unpacked collection of typed constraints a scheduling
// pass operates on, attached nowhere but here - placement and ordering
// take a *Set as an explicit parameter rather than reaching into a global.
type Set struct {
	Locations   []LocationConstraint
	Colocations []ColocationConstraint
	Orders      []OrderConstraint
	Gates       []OneOrMoreGate
	Tickets     []TicketConstraint

	// RecheckHints carries every rule evaluation's next-change time
	// discovered while resolving rule-based location constraints. The
	// scheduler folds these together with the ones found elsewhere (e.g.
	// operation-enabled rules) via rules.NextRecheck.
	RecheckHints []*time.Time
}

// ColocationsByDependent returns every colocation constraint where resourceID is the
// dependent, for use by pkg/placement when accumulating a candidate's
// colocation score contributions. Results are in stable declaration order.
func (s *Set) ColocationsByDependent(resourceID string) []ColocationConstraint {
	var out []ColocationConstraint
	for _, c := range s.Colocations {
		if c.Dependent == resourceID {
			out = append(out, c)
		}
	}
	return out
}

// LocationsFor returns every location constraint targeting resourceID, in
// stable declaration order.
func (s *Set) LocationsFor(resourceID string) []LocationConstraint {
	var out []LocationConstraint
	for _, l := range s.Locations {
		if l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	return out
}

// TicketsFor returns every ticket constraint targeting resourceID.
func (s *Set) TicketsFor(resourceID string) []TicketConstraint {
	var out []TicketConstraint
	for _, t := range s.Tickets {
		if t.ResourceID == resourceID {
			out = append(out, t)
		}
	}
	return out
}
