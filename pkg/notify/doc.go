/*
Package notify synthesizes the pre/post-notify pseudo-actions a
notify-enabled resource's state change requires, and orders them strictly
around the real action they announce (spec.md §4.5).

Notify entry lists (notify_start_resource, notify_start_uname, and the
stop/promote/demote/active/inactive/promoted/unpromoted/available/all
variants) are sorted resource-id first, then node-id, with entries missing
a node-id sorting last - the exact ordering
_examples/original_source/lib/pengine/pe_notif.c's compare_notify_entries
uses, adopted here since spec.md left the tie-break unspecified
(SPEC_FULL.md §4).
*/
package notify
