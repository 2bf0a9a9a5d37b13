/*
Package rules evaluates the boolean rule trees attached to location
constraints and resource/operation meta-attribute overrides (spec.md
§2.3, §4.1).

A Rule is a tree of date expressions and attribute expressions combined by
a boolean operator (and/or, default and). Evaluate reports both the
current truth value against a target time and node attribute set, and the
earliest future instant at which that truth value could change - the
contribution this rule makes to the cluster-wide next-recheck time
(spec.md invariant 8).

Rules never consult the real wall clock: every evaluation is relative to
the "now" the caller supplies, so that repeated evaluations of the same
rule against the same (now, attributes) always agree - this is the
scheduler's pure-function determinism requirement (spec.md §5) applied at
the rule-evaluator level.
*/
package rules
