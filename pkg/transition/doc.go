/*
Package transition assembles the final transition graph from a scheduled
WorkingSet: the topologically-stable, ID-ordered list of actions each
carrying its predecessor set, timeout, priority and meta-attributes
(spec.md §4.8).

A pseudo-action left with neither a predecessor nor a successor after
pkg/ordering has run contributes nothing to the transition and is dropped
from the emitted graph, matching the source engine's output.

Graph is a plain value type; encoding it to transition_graph_xml happens in
pkg/cib, the sole package this module permits to import encoding/xml.
*/
package transition
