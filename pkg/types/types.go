package types

import (
	"math"
	"sort"
	"time"
)

// NodeKind distinguishes the hosting relationship a node has to the cluster.
type NodeKind string

const (
	NodeKindClusterMember NodeKind = "cluster-member"
	NodeKindRemote        NodeKind = "remote"
	NodeKindGuest         NodeKind = "guest"
	NodeKindBundle        NodeKind = "bundle"
)

// Node is a machine (or remote/guest/bundle connection) the scheduler may
// place resources on.
type Node struct {
	ID   string
	Name string
	Kind NodeKind

	Online      bool
	Unclean     bool
	Shutdown    bool
	Standby     bool
	Maintenance bool
	Pending     bool

	// Attributes holds node attributes, including "#health-*" entries
	// consulted by the configured node-health strategy.
	Attributes map[string]string

	// Utilization holds named utilization capacities (e.g. "cpu", "memory")
	// for the utilization placement strategy.
	Utilization map[string]int
}

// SortedAttributeNames returns Attributes' keys sorted, for deterministic
// iteration.
func (n *Node) SortedAttributeNames() []string {
	return sortedKeys(n.Attributes)
}

// Runnable reports whether the node can currently host any action at all:
// online, not shutting down, not unclean.
func (n *Node) Runnable() bool {
	return n.Online && !n.Unclean && !n.Shutdown
}

// ResourceVariant is the sum-type discriminant for Resource.
type ResourceVariant string

const (
	VariantPrimitive       ResourceVariant = "primitive"
	VariantGroup           ResourceVariant = "group"
	VariantClone           ResourceVariant = "clone"
	VariantPromotableClone ResourceVariant = "promotable-clone"
	VariantBundle          ResourceVariant = "bundle"
)

// Role is a resource's operating role.
type Role string

const (
	RoleUnknown    Role = "Unknown"
	RoleStopped    Role = "Stopped"
	RoleStarted    Role = "Started"
	RoleUnpromoted Role = "Unpromoted"
	RolePromoted   Role = "Promoted"
)

// RestartType captures the legacy restart-type meta-attribute. It is
// parsed and stored only: nothing reads it and it is never written back
// out; see SPEC_FULL.md Open Question 1.
type RestartType string

const (
	RestartTypeDefault RestartType = ""
	RestartTypeRestart RestartType = "restart"
	RestartTypeIgnore  RestartType = "ignore"
)

// ResourceFlags are boolean resource meta-attributes.
type ResourceFlags struct {
	Managed      bool
	Orphan       bool
	Failed       bool
	AllowMigrate bool
	Critical     bool
	Unique       bool
	Notify       bool
	Promotable   bool
	GloballyUniq bool
	Maintenance  bool
}

// OperationDef is one <op> entry from the resource definition.
type OperationDef struct {
	Name       string // "monitor", "start", "stop", "promote", "demote", ...
	Role       Role   // role this op applies to, for monitor ops; "" otherwise
	IntervalMS int
	TimeoutMS  int
}

// Resource is a schedulable unit: primitive, group, clone, promotable
// clone or bundle. Variant-specific fields are zero-valued when unused.
type Resource struct {
	ID string

	Variant  ResourceVariant
	Parent   string   // non-owning back-reference; "" if top-level
	Children []string // ordered; owning in declaration order only

	// Clone/promotable-clone fields.
	CloneMax        int
	CloneNodeMax    int
	CloneMin        int // instances that must be started before order constraints naming this clone are satisfied; 0 disables the gate
	PromotedMax     int
	PromotedNodeMax int
	Interleave      bool
	Ordered         bool

	Flags ResourceFlags

	// Placement state.
	AllowedNodes map[string]float64 // node ID -> score, updated through allocation
	Stickiness   float64
	Priority     int
	FailCount    map[string]int // node ID -> fail count

	MigrationThreshold int // 0 = INFINITY (no threshold)

	// Role state.
	CurrentRole   map[string]Role // node ID -> role, from status
	RunningOn     []string        // node IDs from status, sorted
	NextRole      Role            // computed
	AllocatedNode string          // computed; "" if unallocated

	RestartType RestartType

	MetaAttributes     map[string]string
	InstanceAttributes map[string]string

	// Operations configured for this resource.
	Operations []OperationDef
}

// SortedAllowedNodes returns AllowedNodes' keys sorted, for deterministic
// iteration during placement.
func (r *Resource) SortedAllowedNodes() []string {
	return sortedKeys(r.AllowedNodes)
}

// IsClone reports whether the resource's variant is clone or promotable
// clone.
func (r *Resource) IsClone() bool {
	return r.Variant == VariantClone || r.Variant == VariantPromotableClone
}

// Task identifies the kind of action requested against a resource.
type Task string

const (
	TaskStart       Task = "start"
	TaskStop        Task = "stop"
	TaskPromote     Task = "promote"
	TaskDemote      Task = "demote"
	TaskMonitor     Task = "monitor"
	TaskMigrateTo   Task = "migrate_to"
	TaskMigrateFrom Task = "migrate_from"
	TaskNotify      Task = "notify"
	TaskNotified    Task = "notified"
	TaskCancel      Task = "cancel"
	TaskFence       Task = "fence"

	// Pseudo-action task names. A pseudo-action's Node is always "".
	TaskPseudoRelaxedClone   Task = "pseudo-relaxed-clone"
	TaskPseudoOneOrMore      Task = "pseudo-one-or-more"
	TaskPseudoPreNotify      Task = "pseudo-pre-notify"
	TaskPseudoPreNotifyDone  Task = "pseudo-pre-notify-done"
	TaskPseudoPostNotify     Task = "pseudo-post-notify"
	TaskPseudoPostNotifyDone Task = "pseudo-post-notify-done"
	TaskPseudoStonithDone    Task = "pseudo-stonith-complete"
)

// ActionKey uniquely identifies an action: (resource, task, interval).
type ActionKey struct {
	ResourceID string
	Task       Task
	IntervalMS int
}

// ActionFlag bits describe an action's scheduling state and provenance.
type ActionFlag string

const (
	FlagOptional         ActionFlag = "optional"
	FlagRunnable         ActionFlag = "runnable"
	FlagPseudo           ActionFlag = "pseudo"
	FlagRequiresAny      ActionFlag = "requires-any"
	FlagMigrateRunnable  ActionFlag = "migrate-runnable"
	FlagPhantom          ActionFlag = "phantom" // migration-mirror stop/start, no executor invocation
	FlagImpliedByFencing ActionFlag = "implied-by-fencing"
	FlagProbe            ActionFlag = "probe"
	FlagFailureIsFatal   ActionFlag = "failure-is-fatal"
)

// Action is one node in the transition graph.
type Action struct {
	ID   int
	Key  ActionKey
	Node string // "" for pseudo-actions

	Flags     map[ActionFlag]bool
	Priority  int
	TimeoutMS int

	MetaAttributes map[string]string

	// Predecessors/successors in the ordering DAG, by action ID. Populated
	// by pkg/ordering.
	Predecessors []int
	Successors   []int

	// Blocked/runnable scheduling status, finalized by pkg/ordering.
	Blocked bool
}

// HasFlag reports whether a flag is set.
func (a *Action) HasFlag(f ActionFlag) bool {
	return a.Flags != nil && a.Flags[f]
}

// SetFlag sets a flag.
func (a *Action) SetFlag(f ActionFlag) {
	if a.Flags == nil {
		a.Flags = make(map[ActionFlag]bool)
	}
	a.Flags[f] = true
}

// RoleFilter restricts a constraint to a single role.
type RoleFilter string

const (
	RoleFilterNone       RoleFilter = ""
	RoleFilterStarted    RoleFilter = "Started"
	RoleFilterStopped    RoleFilter = "Stopped"
	RoleFilterPromoted   RoleFilter = "Promoted"
	RoleFilterUnpromoted RoleFilter = "Unpromoted"
)

// DiscoveryPolicy controls where a location constraint's probes run.
type DiscoveryPolicy string

const (
	DiscoveryAlways    DiscoveryPolicy = "always"
	DiscoveryNever     DiscoveryPolicy = "never"
	DiscoveryExclusive DiscoveryPolicy = "exclusive"
)

const (
	// ScoreInfinity represents the configured "INFINITY" score sentinel.
	// Kept well below math.MaxFloat64 so that INFINITY + INFINITY and
	// similar accumulations during scoring never overflow to +Inf.
	ScoreInfinity = 1e15
	// ScoreNegInfinity represents "-INFINITY".
	ScoreNegInfinity = -ScoreInfinity
)

// IsInfinite reports whether score is at or beyond the INFINITY sentinel
// in either direction.
func IsInfinite(score float64) bool {
	return score >= ScoreInfinity || score <= ScoreNegInfinity || math.IsInf(score, 0)
}

// Ticket gates a set of resources cluster-wide.
type Ticket struct {
	ID          string
	Granted     bool
	Standby     bool
	LastGranted time.Time
}

// LossPolicy decides what happens to a ticket-bound resource when its
// ticket is revoked.
type LossPolicy string

const (
	LossPolicyStop   LossPolicy = "stop"
	LossPolicyDemote LossPolicy = "demote"
	LossPolicyFreeze LossPolicy = "freeze"
	LossPolicyFence  LossPolicy = "fence"
)

// NoQuorumPolicy is the cluster-wide behavior when quorum is lost.
type NoQuorumPolicy string

const (
	NoQuorumStop    NoQuorumPolicy = "stop"
	NoQuorumFreeze  NoQuorumPolicy = "freeze"
	NoQuorumIgnore  NoQuorumPolicy = "ignore"
	NoQuorumDemote  NoQuorumPolicy = "demote"
	NoQuorumSuicide NoQuorumPolicy = "suicide"
)

// HealthStrategy is the cluster-wide node-health contribution strategy.
type HealthStrategy string

const (
	HealthStrategyNone         HealthStrategy = "none"
	HealthStrategyMigrateOnRed HealthStrategy = "migrate-on-red"
	HealthStrategyOnlyGreen    HealthStrategy = "only-green"
	HealthStrategyProgressive  HealthStrategy = "progressive"
	HealthStrategyCustom       HealthStrategy = "custom"
)

// PlacementStrategy is the cluster-wide tie-break / utilization strategy.
type PlacementStrategy string

const (
	PlacementDefault     PlacementStrategy = "default"
	PlacementUtilization PlacementStrategy = "utilization"
	PlacementBalanced    PlacementStrategy = "balanced"
	PlacementMinimal     PlacementStrategy = "minimal"
)

// ClusterOptions holds cluster-wide property options (spec.md §6).
type ClusterOptions struct {
	NoQuorumPolicy           NoQuorumPolicy
	SymmetricCluster         bool
	MaintenanceMode          bool
	StartFailureIsFatal      bool
	StonithEnabled           bool
	ConcurrentFencing        bool
	PriorityFencingDelayMS   int
	HealthStrategy           HealthStrategy
	PlacementStrategy        PlacementStrategy
	BatchLimit               int
	MigrationLimit           int
	ShutdownLock             bool
	ShutdownLockLimitMS      int
	ClusterRecheckIntervalMS int
	DCDeadtimeMS             int
	ElectionTimeoutMS        int
	StonithWatchdogTimeoutMS int
	EnableStartupProbes      bool
	HasQuorum                bool
}

// Severity is a diagnostic's importance, from spec.md §7.
type Severity string

const (
	SeverityTrace       Severity = "trace"
	SeverityInfo        Severity = "info"
	SeverityWarn        Severity = "warn"
	SeverityError       Severity = "error"
	SeverityConfigError Severity = "config-error"
)

var severityRank = map[Severity]int{
	SeverityTrace:       0,
	SeverityInfo:        1,
	SeverityWarn:        2,
	SeverityConfigError: 3,
	SeverityError:       4,
}

// Rank returns a severity's relative importance, for sorting diagnostics
// most-severe first.
func (s Severity) Rank() int { return severityRank[s] }

// Diagnostic is one (severity, message) pair, optionally tied to the
// constraint or resource that produced it.
type Diagnostic struct {
	Severity   Severity
	Message    string
	ObjectID   string // constraint ID, resource ID, or "" for cluster-wide
	DetectedAt time.Time
}

// WorkingSet is the root container for one scheduling pass: every node,
// resource, ticket and cluster option, plus "now", the computed
// next-recheck time, and the monotonic ID counters.
type WorkingSet struct {
	TransitionID string // minted via google/uuid by pkg/scheduler

	Now     time.Time
	Options ClusterOptions

	Nodes     map[string]*Node
	Resources map[string]*Resource
	Tickets   map[string]*Ticket

	Diagnostics []Diagnostic

	NextRecheck time.Time // zero value means "undefined"

	nextActionID int
	nextOrderID  int

	// Actions, keyed by ActionKey, populated by pkg/actions and consumed by
	// pkg/ordering, pkg/notify and pkg/transition.
	Actions map[ActionKey]*Action
}

// NewWorkingSet constructs an empty working set ready for population by
// pkg/cib.
func NewWorkingSet(now time.Time) *WorkingSet {
	return &WorkingSet{
		Now:       now,
		Nodes:     make(map[string]*Node),
		Resources: make(map[string]*Resource),
		Tickets:   make(map[string]*Ticket),
		Actions:   make(map[ActionKey]*Action),
	}
}

// NextActionID returns the next monotonic action ID.
func (ws *WorkingSet) NextActionID() int {
	ws.nextActionID++
	return ws.nextActionID
}

// NextOrderID returns the next monotonic order ID, used to name
// synthesized pseudo-actions (e.g. "relaxed-clone:<id>").
func (ws *WorkingSet) NextOrderID() int {
	ws.nextOrderID++
	return ws.nextOrderID
}

// AddDiagnostic appends a diagnostic to the working set and returns it.
func (ws *WorkingSet) AddDiagnostic(sev Severity, objectID, message string) Diagnostic {
	d := Diagnostic{Severity: sev, Message: message, ObjectID: objectID, DetectedAt: ws.Now}
	ws.Diagnostics = append(ws.Diagnostics, d)
	return d
}

// GetOrCreateAction returns the existing action for key, or creates one.
// This is invariant 2 from spec.md §3: duplicate creation returns the
// existing action rather than erroring.
func (ws *WorkingSet) GetOrCreateAction(key ActionKey, node string) (action *Action, created bool) {
	if existing, ok := ws.Actions[key]; ok {
		return existing, false
	}
	a := &Action{
		ID:             ws.NextActionID(),
		Key:            key,
		Node:           node,
		Flags:          make(map[ActionFlag]bool),
		MetaAttributes: make(map[string]string),
	}
	ws.Actions[key] = a
	return a, true
}

// SortedNodeIDs returns Nodes' keys sorted, for deterministic iteration.
func (ws *WorkingSet) SortedNodeIDs() []string {
	return sortedKeys(ws.Nodes)
}

// SortedResourceIDs returns Resources' keys sorted, for deterministic
// iteration.
func (ws *WorkingSet) SortedResourceIDs() []string {
	return sortedKeys(ws.Resources)
}

// SortedTicketIDs returns Tickets' keys sorted, for deterministic
// iteration.
func (ws *WorkingSet) SortedTicketIDs() []string {
	return sortedKeys(ws.Tickets)
}

// SortedActionKeys returns Actions' keys sorted by (resource, task,
// interval), for deterministic iteration and emission.
func (ws *WorkingSet) SortedActionKeys() []ActionKey {
	keys := make([]ActionKey, 0, len(ws.Actions))
	for k := range ws.Actions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.ResourceID != b.ResourceID {
			return a.ResourceID < b.ResourceID
		}
		if a.Task != b.Task {
			return a.Task < b.Task
		}
		return a.IntervalMS < b.IntervalMS
	})
	return keys
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
