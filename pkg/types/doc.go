/*
Package types defines the core data structures used throughout the
scheduler.

This package contains the typed domain model that every other scheduler
package operates on: nodes, resources (in all their variants), actions,
constraints, tickets and the WorkingSet that owns them for the duration of
a single scheduling pass. These types are produced by pkg/cib from the raw
CIB configuration and status XML, consumed by pkg/constraints,
pkg/placement, pkg/actions, pkg/ordering and pkg/notify, and finally
assembled into the output graph by pkg/transition, which pkg/cib
serializes back to XML.

# Architecture

	  configuration_xml ─┐
	                      ├─► pkg/cib ─► *WorkingSet ─► ... ─► transition_graph_xml
	       status_xml ────┘

WorkingSet is the single container for everything a scheduling pass needs:
nodes, resources, tickets, cluster options, the input "now", and the
monotonic ID counters used to mint action and order IDs. It is constructed
fresh on every pass and discarded at the end of it - see pkg/scheduler.

# Resource variants

Resources form a forest, not a class hierarchy. A single Resource struct
carries a Variant tag (Primitive, Group, Clone, PromotableClone, Bundle)
plus variant-specific fields (CloneMax, PromotedMax, Interleave, ...).
Children are stored as ordered IDs, not owning pointers; Parent is a
non-owning back-reference by ID. Code that behaves differently per variant
switches explicitly on Variant - see pkg/placement.Allocate and
pkg/actions.Generate.

# Determinism

Every map that participates in iteration elsewhere in the scheduler
(Resource.AllowedNodes, Resource.FailCount, Node.Attributes) is keyed by a
stable string ID. Nothing in this package or its callers may range over
such a map without first collecting and sorting the keys - see the Sorted*
helpers below, which are the one sanctioned way to iterate them.

# Thread safety

A WorkingSet is built, used, and discarded within a single goroutine. It
carries no locks and none are needed: pkg/scheduler.Schedule does not
share a WorkingSet across concurrent callers.

# See Also

  - pkg/cib for XML decoding into this model
  - pkg/constraints for constraint types attached to resources
  - pkg/placement for allocation
  - pkg/transition for the output graph representation
*/
package types
