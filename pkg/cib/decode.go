package cib

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cuemby/pcmk-scheduler/pkg/constraints"
	"github.com/cuemby/pcmk-scheduler/pkg/rules"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// Decode parses configurationXML and statusXML into a ready-to-schedule
// WorkingSet plus the constraints Input still awaiting constraints.Unpack.
// now is stamped onto the working set verbatim; Decode never consults the
// real wall clock (spec.md §5).
func Decode(configurationXML, statusXML []byte, now time.Time) (*types.WorkingSet, *constraints.Input, error) {
	var doc xmlCIB
	if err := xml.Unmarshal(configurationXML, &doc); err != nil {
		return nil, nil, fmt.Errorf("cib: decode configuration: %w", err)
	}

	ws := types.NewWorkingSet(now)
	d := &decoder{ws: ws, doc: &doc.Configuration, in: &constraints.Input{Tags: map[string][]string{}}}

	d.decodeClusterOptions()
	d.decodeNodes()
	d.decodeTags()
	d.decodeTicketStates()
	d.decodeResources()
	d.decodeConstraints()

	if len(statusXML) > 0 {
		var st xmlStatus
		if err := xml.Unmarshal(statusXML, &st); err != nil {
			return nil, nil, fmt.Errorf("cib: decode status: %w", err)
		}
		d.decodeStatus(&st)
	}

	// Clone instances are expanded only after status has been folded in,
	// since a clone instance already running somewhere (per lrm_resource
	// history, matched against the single template ID) must keep that
	// node's role/fail-count history attached to the instance that inherits
	// it rather than starting every instance from a blank slate.
	d.materializeClones()

	return ws, d.in, nil
}

type decoder struct {
	ws  *types.WorkingSet
	doc *xmlConfigurationTag
	in  *constraints.Input

	// cloneTemplates records, for each decoded clone, the single child
	// resource decodeClone created from its wrapped <primitive> or <group>
	// - real Pacemaker CIB XML never repeats that element per instance, so
	// instance multiplicity has to be synthesized here once clone-max is
	// known, rather than read off the document directly.
	cloneTemplates []cloneTemplate
}

type cloneTemplate struct {
	clone    *types.Resource
	template *types.Resource
}

func nvMap(sets []xmlNVSet) map[string]string {
	out := make(map[string]string)
	for _, s := range sets {
		for _, p := range s.NVPairs {
			out[p.Name] = p.Value
		}
	}
	return out
}

func (d *decoder) decodeClusterOptions() {
	attrs := nvMap(d.doc.CRMConfig.ClusterPropertySets)
	opts := types.ClusterOptions{
		NoQuorumPolicy:           types.NoQuorumPolicy(orDefault(attrs["no-quorum-policy"], "stop")),
		SymmetricCluster:         boolAttr(attrs["symmetric-cluster"], true),
		MaintenanceMode:          boolAttr(attrs["maintenance-mode"], false),
		StartFailureIsFatal:      boolAttr(attrs["start-failure-is-fatal"], true),
		StonithEnabled:           boolAttr(attrs["stonith-enabled"], true),
		ConcurrentFencing:        boolAttr(attrs["concurrent-fencing"], false),
		PriorityFencingDelayMS:   msAttr(attrs["priority-fencing-delay"], 0),
		HealthStrategy:           types.HealthStrategy(orDefault(attrs["node-health-strategy"], "none")),
		PlacementStrategy:        types.PlacementStrategy(orDefault(attrs["placement-strategy"], "default")),
		BatchLimit:               intAttr(attrs["batch-limit"], 0),
		MigrationLimit:           intAttr(attrs["migration-limit"], -1),
		ShutdownLock:             boolAttr(attrs["shutdown-lock"], false),
		ShutdownLockLimitMS:      msAttr(attrs["shutdown-lock-limit"], 0),
		ClusterRecheckIntervalMS: msAttr(attrs["cluster-recheck-interval"], 15*60*1000),
		DCDeadtimeMS:             msAttr(attrs["dc-deadtime"], 20*1000),
		ElectionTimeoutMS:        msAttr(attrs["election-timeout"], 2*60*1000),
		StonithWatchdogTimeoutMS: msAttr(attrs["stonith-watchdog-timeout"], 0),
		EnableStartupProbes:      boolAttr(attrs["enable-startup-probes"], true),
		HasQuorum:                true,
	}
	d.ws.Options = opts
}

func (d *decoder) decodeNodes() {
	for _, n := range d.doc.Nodes {
		kind := types.NodeKindClusterMember
		switch n.Type {
		case "remote":
			kind = types.NodeKindRemote
		case "guest":
			kind = types.NodeKindGuest
		case "bundle":
			kind = types.NodeKindBundle
		}
		node := &types.Node{
			ID:          n.ID,
			Name:        orDefault(n.Uname, n.ID),
			Kind:        kind,
			Online:      true,
			Attributes:  nvMap(n.InstanceAttributes),
			Utilization: intMap(nvMap(n.Utilization)),
		}
		d.ws.Nodes[node.ID] = node
	}
}

func intMap(m map[string]string) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = intAttr(v, 0)
	}
	return out
}

func (d *decoder) decodeTags() {
	for _, t := range d.doc.Tags {
		var members []string
		for _, o := range t.Objs {
			members = append(members, o.ID)
		}
		d.in.Tags[t.ID] = members
	}
}

// decodeTicketStates populates ws.Tickets with every ticket's granted/
// standby state, so pkg/placement and pkg/actions can later consult
// Ticket.Granted when enforcing a rsc_ticket's loss-policy.
func (d *decoder) decodeTicketStates() {
	for _, t := range d.doc.Tickets {
		d.ws.Tickets[t.ID] = &types.Ticket{
			ID:      t.ID,
			Granted: t.Granted,
			Standby: t.Standby,
		}
	}
}

func (d *decoder) decodeResources() {
	for _, p := range d.doc.Resources.Primitives {
		d.ws.Resources[p.ID] = d.decodePrimitive(p, "")
	}
	for _, g := range d.doc.Resources.Groups {
		d.decodeGroup(g, "")
	}
	for _, c := range d.doc.Resources.Clones {
		d.decodeClone(c)
	}
	for _, b := range d.doc.Resources.Bundles {
		d.decodeBundle(b)
	}
}

func (d *decoder) decodePrimitive(p xmlPrimitive, parent string) *types.Resource {
	meta := nvMap(p.MetaAttributes)
	r := &types.Resource{
		ID:                 p.ID,
		Variant:             types.VariantPrimitive,
		Parent:              parent,
		Flags:               decodeFlags(meta),
		AllowedNodes:        map[string]float64{},
		Stickiness:          floatAttr(meta["resource-stickiness"], 0),
		Priority:            intAttr(meta["priority"], 0),
		FailCount:           map[string]int{},
		MigrationThreshold:  intAttr(meta["migration-threshold"], 0),
		CurrentRole:         map[string]types.Role{},
		RestartType:         types.RestartType(meta["restart-type"]),
		MetaAttributes:      meta,
		InstanceAttributes:  nvMap(p.InstanceAttributes),
		NextRole:            types.RoleStopped,
	}
	for _, op := range p.Operations {
		r.Operations = append(r.Operations, types.OperationDef{
			Name:       op.Name,
			Role:       types.Role(orDefault(op.Role, "")),
			IntervalMS: msAttr(op.Interval, 0),
			TimeoutMS:  msAttr(op.Timeout, 20*1000),
		})
	}
	return r
}

func decodeFlags(meta map[string]string) types.ResourceFlags {
	return types.ResourceFlags{
		Managed:      boolAttr(meta["is-managed"], true),
		AllowMigrate: boolAttr(meta["allow-migrate"], false),
		Critical:     boolAttr(meta["critical"], true),
		Unique:       boolAttr(meta["globally-unique"], false),
		Notify:       boolAttr(meta["notify"], false),
		Promotable:   boolAttr(meta["promotable"], false),
		GloballyUniq: boolAttr(meta["globally-unique"], false),
		Maintenance:  boolAttr(meta["maintenance"], false),
	}
}

func (d *decoder) decodeGroup(g xmlGroup, parent string) {
	meta := nvMap(g.MetaAttributes)
	group := &types.Resource{
		ID:                 g.ID,
		Variant:             types.VariantGroup,
		Parent:              parent,
		Flags:               decodeFlags(meta),
		AllowedNodes:        map[string]float64{},
		CurrentRole:         map[string]types.Role{},
		FailCount:           map[string]int{},
		MetaAttributes:      meta,
		NextRole:            types.RoleStopped,
	}
	for _, p := range g.Primitives {
		child := d.decodePrimitive(p, g.ID)
		d.ws.Resources[child.ID] = child
		group.Children = append(group.Children, child.ID)
	}
	d.ws.Resources[group.ID] = group
}

func (d *decoder) decodeClone(c xmlClone) {
	meta := nvMap(c.MetaAttributes)
	variant := types.VariantClone
	if boolAttr(meta["promotable"], false) {
		variant = types.VariantPromotableClone
	}
	clone := &types.Resource{
		ID:              c.ID,
		Variant:         variant,
		CloneMax:        intAttr(meta["clone-max"], len(d.ws.Nodes)),
		CloneNodeMax:    intAttr(meta["clone-node-max"], 1),
		CloneMin:        intAttr(meta["clone-min"], 0),
		PromotedMax:     intAttr(meta["promoted-max"], 1),
		PromotedNodeMax: intAttr(meta["promoted-node-max"], 1),
		Interleave:      boolAttr(meta["interleave"], false),
		Ordered:         boolAttr(meta["ordered"], false),
		Flags:           decodeFlags(meta),
		AllowedNodes:    map[string]float64{},
		CurrentRole:     map[string]types.Role{},
		FailCount:       map[string]int{},
		MetaAttributes:  meta,
		NextRole:        types.RoleStopped,
	}
	d.ws.Resources[clone.ID] = clone

	var template *types.Resource
	switch {
	case c.Primitive != nil:
		template = d.decodePrimitive(*c.Primitive, c.ID)
		d.ws.Resources[template.ID] = template
	case c.Group != nil:
		d.decodeGroup(*c.Group, c.ID)
		template = d.ws.Resources[c.Group.ID]
	}
	if template != nil {
		d.cloneTemplates = append(d.cloneTemplates, cloneTemplate{clone: clone, template: template})
	}
}

// materializeClones expands each clone's single decoded template resource
// into clone-max numbered instances ("<template-id>:<n>"), the way real
// Pacemaker names clone instances once it allocates them. decodeClone
// cannot do this itself: clone-max may default from the node count, and an
// instance already running per status history needs to keep that node's
// CurrentRole/FailCount, so expansion has to wait until both are known.
func (d *decoder) materializeClones() {
	for _, ct := range d.cloneTemplates {
		clone, template := ct.clone, ct.template

		max := clone.CloneMax
		if max <= 0 {
			max = len(d.ws.Nodes)
		}
		if max <= 0 {
			max = 1
		}

		runningSource := template
		if template.Variant == types.VariantGroup && len(template.Children) > 0 {
			if first := d.ws.Resources[template.Children[0]]; first != nil {
				runningSource = first
			}
		}
		runningNodes := append([]string(nil), runningSource.RunningOn...)
		sort.Strings(runningNodes)

		clone.Children = nil
		for i := 0; i < max; i++ {
			inst := cloneResourceTree(d.ws, template, i, clone.ID)
			if i < len(runningNodes) {
				stampRunningState(d.ws, template, inst, runningNodes[i])
			}
			d.ws.Resources[inst.ID] = inst
			clone.Children = append(clone.Children, inst.ID)
		}

		d.deleteResourceTree(template)
	}
}

// cloneResourceTree deep-copies src (and, if it is a group, every child)
// as instance n of a clone, renaming every ID with a ":n" suffix. Children
// are inserted into ws.Resources as they're created; the top-level copy is
// left for the caller to insert, since materializeClones still needs to
// read the original template after this call returns.
func cloneResourceTree(ws *types.WorkingSet, src *types.Resource, n int, parent string) *types.Resource {
	inst := copyResourceShape(src)
	inst.ID = fmt.Sprintf("%s:%d", src.ID, n)
	inst.Parent = parent
	inst.Children = nil
	for _, childID := range src.Children {
		child := ws.Resources[childID]
		if child == nil {
			continue
		}
		childInst := cloneResourceTree(ws, child, n, inst.ID)
		ws.Resources[childInst.ID] = childInst
		inst.Children = append(inst.Children, childInst.ID)
	}
	return inst
}

func copyResourceShape(src *types.Resource) *types.Resource {
	out := *src
	out.AllowedNodes = map[string]float64{}
	out.CurrentRole = map[string]types.Role{}
	out.FailCount = map[string]int{}
	out.RunningOn = nil
	out.NextRole = types.RoleStopped
	out.AllocatedNode = ""
	out.MetaAttributes = copyStringMap(src.MetaAttributes)
	out.InstanceAttributes = copyStringMap(src.InstanceAttributes)
	out.Operations = append([]types.OperationDef(nil), src.Operations...)
	return &out
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// stampRunningState copies src's per-node role/fail-count history for
// nodeID onto inst and, recursively, onto inst's children paired
// positionally with src's - a clone-of-group's instance moves as one unit,
// the same simplification pkg/placement.Allocate already makes for a
// plain group's children.
func stampRunningState(ws *types.WorkingSet, src, inst *types.Resource, nodeID string) {
	inst.CurrentRole[nodeID] = src.CurrentRole[nodeID]
	inst.FailCount[nodeID] = src.FailCount[nodeID]
	inst.RunningOn = []string{nodeID}
	for i, childID := range inst.Children {
		if i >= len(src.Children) {
			break
		}
		srcChild := ws.Resources[src.Children[i]]
		instChild := ws.Resources[childID]
		if srcChild != nil && instChild != nil {
			stampRunningState(ws, srcChild, instChild, nodeID)
		}
	}
}

func (d *decoder) deleteResourceTree(r *types.Resource) {
	for _, childID := range r.Children {
		if child, ok := d.ws.Resources[childID]; ok {
			d.deleteResourceTree(child)
		}
	}
	delete(d.ws.Resources, r.ID)
}

func (d *decoder) decodeBundle(b xmlBundle) {
	meta := nvMap(b.MetaAttributes)
	bundle := &types.Resource{
		ID:             b.ID,
		Variant:        types.VariantBundle,
		Flags:          decodeFlags(meta),
		AllowedNodes:   map[string]float64{},
		CurrentRole:    map[string]types.Role{},
		FailCount:      map[string]int{},
		MetaAttributes: meta,
		NextRole:       types.RoleStopped,
	}
	if b.Primitive != nil {
		child := d.decodePrimitive(*b.Primitive, b.ID)
		d.ws.Resources[child.ID] = child
		bundle.Children = append(bundle.Children, child.ID)
	}
	d.ws.Resources[bundle.ID] = bundle
}

// --- constraints ---

func (d *decoder) decodeConstraints() {
	for _, l := range d.doc.Constraints.Locations {
		d.decodeLocation(l)
	}
	for _, c := range d.doc.Constraints.Colocations {
		d.decodeColocation(c)
	}
	for _, o := range d.doc.Constraints.Orders {
		d.decodeOrder(o)
	}
	for _, t := range d.doc.Constraints.Tickets {
		d.in.Tickets = append(d.in.Tickets, constraints.RawTicket{
			ID:         t.ID,
			ResourceID: t.RSC,
			TicketID:   t.Ticket,
			Role:       types.RoleFilter(t.RSCRole),
			LossPolicy: types.LossPolicy(orDefault(t.LossPolicy, "stop")),
		})
	}
}

func (d *decoder) decodeLocation(l xmlLocation) {
	raw := constraints.RawLocation{
		ID:         l.ID,
		ResourceID: l.RSC,
		Node:       l.Node,
		Role:       types.RoleFilter(l.Role),
		Discovery:  types.DiscoveryPolicy(orDefault(l.Resources, "always")),
	}
	if l.Node != "" {
		score, ok := parseScore(l.Score)
		if !ok {
			d.ws.AddDiagnostic(types.SeverityConfigError, l.ID, fmt.Sprintf("invalid location score %q", l.Score))
			return
		}
		raw.Score = score
	}
	for _, xr := range l.Rules {
		r, ok := decodeRule(xr)
		if !ok {
			d.ws.AddDiagnostic(types.SeverityConfigError, l.ID, "invalid rule in location constraint")
			continue
		}
		score, _ := parseScore(xr.Score)
		raw.Rules = append(raw.Rules, constraints.RuleScore{Rule: r, Score: score, ScoreAttribute: xr.ScoreAttribute})
		if raw.CombineOp == "" {
			raw.CombineOp = rules.BooleanOp(orDefault(xr.BooleanOp, "or"))
		}
	}
	d.in.Locations = append(d.in.Locations, raw)
}

func (d *decoder) decodeColocation(c xmlColocation) {
	score, ok := parseScore(c.Score)
	if !ok {
		d.ws.AddDiagnostic(types.SeverityConfigError, c.ID, fmt.Sprintf("invalid colocation score %q", c.Score))
		return
	}
	if score == 0 {
		d.ws.AddDiagnostic(types.SeverityTrace, c.ID, "colocation with score 0 discarded")
		return
	}
	raw := constraints.RawColocation{
		ID:            c.ID,
		Dependent:     c.RSC,
		Primary:       c.WithRSC,
		Score:         score,
		DependentRole: types.RoleFilter(c.RSCRole),
		PrimaryRole:   types.RoleFilter(c.WithRSCRole),
		NodeAttribute: orDefault(c.NodeAttribute, "#uname"),
	}
	if c.Influence != "" {
		raw.InfluenceSet = true
		raw.Influence = boolAttr(c.Influence, false)
	}
	for _, rs := range c.ResourceSets {
		raw.Sets = append(raw.Sets, decodeResourceSet(rs))
	}
	d.in.Colocations = append(d.in.Colocations, raw)
}

func (d *decoder) decodeOrder(o xmlOrder) {
	raw := constraints.RawOrder{
		ID:            o.ID,
		FirstResource: o.First,
		FirstTask:     types.Task(orDefault(o.FirstAction, "start")),
		ThenResource:  o.Then,
		ThenTask:      types.Task(orDefault(o.ThenAction, "start")),
		Symmetric:     boolAttr(o.Symmetrical, true),
	}
	switch {
	case o.Kind != "":
		raw.Kind = constraints.OrderKind(o.Kind)
		raw.KindSet = true
	case o.Score != "":
		score, ok := parseScore(o.Score)
		if !ok {
			d.ws.AddDiagnostic(types.SeverityConfigError, o.ID, fmt.Sprintf("invalid order score %q", o.Score))
			return
		}
		raw.Score = score
	default:
		raw.Kind = constraints.KindMandatory
		raw.KindSet = true
	}
	if o.Symmetrical == "" && raw.Kind == constraints.KindSerialize {
		raw.Symmetric = false
	}
	for _, rs := range o.ResourceSets {
		raw.Sets = append(raw.Sets, decodeResourceSet(rs))
	}
	d.in.Orders = append(d.in.Orders, raw)
}

func decodeResourceSet(rs xmlResourceSet) constraints.RawResourceSet {
	var members []string
	for _, r := range rs.Refs {
		members = append(members, r.ID)
	}
	return constraints.RawResourceSet{
		ID:         rs.ID,
		Members:    members,
		Sequential: boolAttr(rs.Sequential, true),
		RequireAll: boolAttr(rs.RequireAll, true),
		Role:       types.RoleFilter(rs.Role),
	}
}

func decodeRule(xr xmlRule) (*rules.Rule, bool) {
	r := &rules.Rule{ID: xr.ID, BooleanOp: rules.BooleanOp(orDefault(xr.BooleanOp, "and"))}
	for _, e := range xr.Expressions {
		r.Expressions = append(r.Expressions, rules.Expression{Attr: &rules.AttributeExpression{
			Attribute: e.Attribute,
			Operation: rules.AttrOperation(e.Operation),
			Value:     e.Value,
			Type:      rules.AttrType(orDefault(e.Type, "string")),
		}})
	}
	for _, de := range xr.DateExprs {
		expr, ok := decodeDateExpr(de)
		if !ok {
			return nil, false
		}
		r.Expressions = append(r.Expressions, rules.Expression{Date: expr})
	}
	for _, sr := range xr.SubRules {
		sub, ok := decodeRule(sr)
		if !ok {
			return nil, false
		}
		r.SubRules = append(r.SubRules, sub)
	}
	return r, true
}

func decodeDateExpr(de xmlDateExpr) (*rules.DateExpression, bool) {
	expr := &rules.DateExpression{Operation: rules.DateOperation(de.Operation)}
	if de.Start != "" {
		t, err := time.Parse(time.RFC3339, de.Start)
		if err != nil {
			return nil, false
		}
		expr.Start = &t
	}
	if de.End != "" {
		t, err := time.Parse(time.RFC3339, de.End)
		if err != nil {
			return nil, false
		}
		expr.End = &t
	}
	if de.Spec != nil {
		expr.Spec = &rules.DateSpec{
			Years:    parseIntList(de.Spec.Years),
			Months:   parseIntList(de.Spec.Months),
			Weekdays: parseIntList(de.Spec.Weekdays),
			Hours:    parseIntList(de.Spec.Hours),
		}
	}
	return expr, true
}

func parseIntList(s string) []int {
	if s == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// --- status ---

func (d *decoder) decodeStatus(st *xmlStatus) {
	for _, ns := range st.NodeState {
		node, ok := d.ws.Nodes[ns.ID]
		if !ok {
			d.ws.AddDiagnostic(types.SeverityConfigError, ns.ID, "status references unknown node")
			continue
		}
		node.Online = ns.InCCM == "true" && ns.Crmd == "online"
		node.Unclean = boolAttr(ns.Unclean, false)
		node.Standby = boolAttr(ns.Standby, false)
		node.Maintenance = boolAttr(ns.Maintenance, false)
		node.Shutdown = ns.Shutdown != "" && ns.Shutdown != "0"
		for k, v := range nvMap(ns.TransientAttributes) {
			node.Attributes[k] = v
		}

		for _, lr := range ns.LRM.Resources {
			res, ok := d.ws.Resources[lr.ID]
			if !ok {
				continue
			}
			d.applyHistory(res, node.ID, lr.Ops)
		}
	}
}

func (d *decoder) applyHistory(res *types.Resource, nodeID string, ops []xmlLRMRscOp) {
	running := false
	role := types.RoleStopped
	for _, op := range ops {
		rc := intAttr(op.RC, 0)
		switch op.Operation {
		case "start", "migrate_from":
			if rc == 0 {
				running = true
				role = types.RoleStarted
			}
		case "promote":
			if rc == 0 {
				role = types.RolePromoted
			}
		case "demote":
			if rc == 0 && role == types.RolePromoted {
				role = types.RoleStarted
			}
		case "stop":
			if rc == 0 {
				running = false
				role = types.RoleStopped
			}
		case "monitor":
			if rc != 0 && rc != 7 { // 7 == OCF_NOT_RUNNING
				res.FailCount[nodeID]++
				res.Flags.Failed = true
			}
		}
	}
	if running {
		res.RunningOn = append(res.RunningOn, nodeID)
		res.CurrentRole[nodeID] = role
	}
}

// --- attribute parsing helpers ---

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func boolAttr(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func intAttr(v string, def int) int {
	if v == "" {
		return def
	}
	if v == "INFINITY" {
		return int(types.ScoreInfinity)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatAttr(v string, def float64) float64 {
	if v == "" {
		return def
	}
	f, ok := parseScore(v)
	if !ok {
		return def
	}
	return f
}

// msAttr parses a Pacemaker duration literal ("10s", "5min", "2h", or a
// bare millisecond integer) into milliseconds.
func msAttr(v string, def int) int {
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	for _, suffix := range []struct {
		s string
		d time.Duration
	}{
		{"ms", time.Millisecond}, {"s", time.Second}, {"sec", time.Second},
		{"min", time.Minute}, {"m", time.Minute}, {"h", time.Hour},
	} {
		if strings.HasSuffix(v, suffix.s) {
			n, err := strconv.Atoi(strings.TrimSuffix(v, suffix.s))
			if err == nil {
				return int(time.Duration(n) * suffix.d / time.Millisecond)
			}
		}
	}
	return def
}

func parseScore(s string) (float64, bool) {
	switch s {
	case "INFINITY":
		return types.ScoreInfinity, true
	case "-INFINITY":
		return types.ScoreNegInfinity, true
	case "":
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
