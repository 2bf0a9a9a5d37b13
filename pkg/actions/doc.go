/*
Package actions turns an allocated WorkingSet into the set of per-resource
actions needed to converge current state to next state: start/stop,
promote/demote, recurring monitors, migration (migrate_to/migrate_from
replacing a stop/start pair when eligible), startup probes, and stonith
fencing actions for unclean nodes (spec.md §4.4).

A migration still creates "phantom" stop/start actions flagged
FlagPhantom: pkg/ordering and pkg/notify key off the stop/start pair for
their edges and notification lists, and migrate_to/migrate_from stand in
for the real executor invocations.
*/
package actions
