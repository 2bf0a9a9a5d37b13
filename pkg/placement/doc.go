/*
Package placement scores every candidate node for every resource and
allocates each resource to its best-scoring node (spec.md §4.3).

Scoring folds together, per (resource, node) pair: location constraint
scores (including resolved rule scores), stickiness toward the resource's
current node, a migration-threshold penalty once a resource's fail count
on a node reaches its threshold, node-health contributions under the
configured health strategy, and colocation propagation from already-placed
primaries. Utilization-based placement additionally excludes nodes whose
configured capacity is below the resource's requirement; capacity already
taken by other resources on that node is not subtracted.

Allocation proceeds resource-by-resource in priority order (highest
Resource.Priority first, ID as a deterministic tie-break): clones and
promotable clones allocate each child instance subject to clone-node-max
and clone-max, then promotable clones run a second pass that ranks
instances by promotion score and promotes the top promoted-max instances.
*/
package placement
