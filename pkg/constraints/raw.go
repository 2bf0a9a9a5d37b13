package constraints

import (
	"github.com/cuemby/pcmk-scheduler/pkg/rules"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// Input is the CIB constraints section in its closest-to-XML shape: still
// carrying tag/template references and resource-set groupings, before
// Unpack lowers it into a typed Set. pkg/cib builds an Input by decoding
// <constraints> plus the <tags>/<template> sections it references.
type Input struct {
	Locations   []RawLocation
	Colocations []RawColocation
	Orders      []RawOrder
	Tickets     []RawTicket

	// Tags maps a tag ID to the resource IDs it names, in declaration
	// order. Tags is the only expansion Unpack performs: a reference that
	// names a resource template is not expanded, and pkg/cib does not apply
	// a primitive's "template" attribute either.
	Tags map[string][]string
}

// RawLocation is a <rsc_location> element before rule evaluation.
type RawLocation struct {
	ID         string
	ResourceID string // may name a tag; resolved via Input.Tags

	Node  string
	Score float64

	Role      types.RoleFilter
	Discovery types.DiscoveryPolicy

	Rules     []RuleScore
	CombineOp rules.BooleanOp
}

// RawColocation is a <rsc_colocation> element, or one pair synthesized by
// lowering a <resource_set> sequence.
type RawColocation struct {
	ID        string
	Dependent string // may name a tag
	Primary   string // may name a tag

	Score float64

	DependentRole types.RoleFilter
	PrimaryRole   types.RoleFilter

	NodeAttribute string

	// InfluenceSet reports whether the influence attribute was present in
	// the XML at all; when false, Unpack falls back to the dependent
	// resource's Critical flag (spec.md §4.1 legacy default).
	InfluenceSet bool
	Influence    bool

	// Sets, when non-empty, means this <rsc_colocation> used the
	// <resource_set> grouping form; Dependent/Primary are unused.
	Sets []RawResourceSet
}

// RawOrder is an <rsc_order> element, or one pair synthesized by lowering a
// <resource_set> sequence.
type RawOrder struct {
	ID string

	FirstResource string // may name a tag
	FirstTask     types.Task
	ThenResource  string // may name a tag
	ThenTask      types.Task

	Kind      OrderKind
	KindSet   bool // true when "kind" was present; false means legacy "score" was used instead
	Score     float64
	Symmetric bool

	// Sets, when non-empty, means this <rsc_order> used the <resource_set>
	// grouping form instead of first-resource/then-resource attributes;
	// FirstResource/ThenResource are unused in that case and Unpack lowers
	// Sets via LowerOrderSets instead.
	Sets []RawResourceSet
}

// RawResourceSet is one <resource_set> child of an <rsc_order> or
// <rsc_colocation>, or the freestanding set-based constraint forms.
type RawResourceSet struct {
	ID         string
	Members    []string // resource or tag IDs, in declaration order
	Sequential bool     // default true
	RequireAll bool     // default true; false synthesizes a one-or-more gate
	Role       types.RoleFilter
}

// RawTicket is a <rsc_ticket> element.
type RawTicket struct {
	ID         string
	ResourceID string // may name a tag
	TicketID   string
	Role       types.RoleFilter
	LossPolicy types.LossPolicy
}
