/*
Package constraints unpacks raw CIB constraint XML into typed constraints
attached to resources (spec.md §4.1).

Unpacking happens in three passes:

 1. Tag expansion: every resource_set member, and every bare resource
    reference on a two-resource constraint, that names a tag is rewritten
    to the tag's concrete member resource IDs, in declaration order. A
    reference naming a resource template is not expanded.
 2. Resource-set lowering: ordered sequences of resource sets are lowered
    to pairwise Order/Colocation constraints, synthesizing a one-or-more
    pseudo-action gate wherever a set declares require-all=false.
 3. Legacy attribute resolution: an order using the deprecated "score"
    attribute instead of "kind" picks up the legacy kind with a
    deprecation (warn) diagnostic; a colocation without "influence" takes
    the dependent's critical flag, with no diagnostic.

Every error this package detects (unknown reference, invalid kind,
colocation between two tags) is a configuration error: the offending
constraint is skipped and a diagnostic is recorded on the WorkingSet, and
unpacking continues with the remaining constraints (spec.md §7). Invalid
rules are reported by pkg/cib while decoding, before Unpack runs.
*/
package constraints
