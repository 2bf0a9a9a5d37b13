/*
Package ordering builds the transition's directed action graph: every edge
pkg/actions' role-transition matrix implies intrinsically (stop before
start, demote before promote, migrate_to before migrate_from), every edge a
constraints.Set demands (Order constraints, one-or-more gates), clone-min
gating (an Order constraint naming a clone resolves through its
relaxed-clone pseudo-action once at least clone-min instances have
started, rather than through any single instance), the pre/post-notify
chain pkg/notify brackets real actions with, and the phantom-action
mirroring a migration needs so constraints written against a plain
stop/start pair still gate the real migrate_to/migrate_from actions
(spec.md §4.4, §4.5).

The graph is built with gonum.org/v1/gonum/graph/simple.DirectedGraph and
checked for cycles with gonum.org/v1/gonum/graph/topo.Sort: a cycle is a
configuration error (spec.md §7) that aborts graph emission (only), since
there is no well-defined action ordering to emit.
*/
package ordering
