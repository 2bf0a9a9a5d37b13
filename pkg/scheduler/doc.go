/*
Package scheduler is the pure-function policy engine: given configuration
XML, live status XML and a target time, it computes a transition graph XML
and the cluster's next-recheck time (spec.md §1, "Non-goals").

# Architecture

Schedule runs every pass through the same fixed pipeline, each stage
consuming and enriching one *types.WorkingSet:

	┌──────────────────────────────────────────────────────────────┐
	│ 1. cib.Decode          configuration_xml, status_xml -> WorkingSet │
	│ 2. constraints.Unpack  raw constraints -> typed Set         │
	│ 3. placement.Allocate  score + assign a node per resource   │
	│ 4. actions.Generate    role diff -> start/stop/... actions  │
	│ 5. notify.Generate     pre/post-notify pseudo-actions       │
	│ 6. ordering.Build      DAG of predecessors/successors       │
	│ 7. transition.Assemble topological action list              │
	│ 8. cib.EncodeGraph     -> transition_graph_xml               │
	└──────────────────────────────────────────────────────────────┘

Every stage is deterministic: iteration is always over a sorted key set
(types.WorkingSet's Sorted* helpers), and no stage consults the real wall
clock - "now" flows in as a parameter from the caller (spec.md §5). Running
Schedule twice against byte-identical inputs always yields a byte-identical
transition_graph_xml.

# Determinism and diagnostics

A configuration problem (unknown resource reference, invalid rule, cycle
in the ordering graph) never aborts the whole pass except when pkg/ordering
detects a cycle, since no action ordering then exists to emit. Every other
problem is recorded as a types.Diagnostic on the working set and returned
alongside the graph; callers decide how loudly to surface them (spec.md
§7).

# Next-recheck time

The next-recheck time folds together the cluster's configured
cluster-recheck-interval with every rule's next-change hint collected
during constraint unpacking (constraints.Set.RecheckHints), via
rules.NextRecheck. A future scheduling pass should be triggered no later
than this instant even if nothing else changes (spec.md invariant 8).

# See Also

  - pkg/cib - the only package permitted to touch XML
  - pkg/types - the WorkingSet and its component types
  - pkg/constraints, pkg/placement, pkg/actions, pkg/notify, pkg/ordering,
    pkg/transition - one package per pipeline stage above
*/
package scheduler
