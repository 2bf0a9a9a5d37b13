/*
Package history provides an optional BoltDB-backed ring buffer of past
transition graphs and their diagnostics, for the "pcmk-scheduld history"
CLI subcommand. It is adapted from the teacher's pkg/storage: same bbolt
transaction model and JSON-per-key encoding, collapsed from a bucket per
entity kind down to a single "transitions" bucket keyed by a monotonic
sequence number (8-byte big-endian), since a transition record already carries its
own graph and diagnostics inline.

History is a read-side cache outside the scheduling function. Schedule
never reads from or writes to it; a caller records a Result into it after
Schedule returns, purely for later inspection. This keeps the pure
function free of I/O side effects (spec.md §5) while still giving
operators a way to look back at recent scheduling passes.

# Retention

Store caps the bucket at a configured number of entries (pkg/config's
HistoryRetain). Each Record insert deletes the oldest entries beyond that
cap, so the bucket never grows unbounded - the container-orchestration
teacher had no equivalent cap and it was flagged in its own doc.go as a
known gap ("Growth: Linear with entity count + history"); we close it
here since retention is part of what makes this feature usable
unattended.
*/
package history
