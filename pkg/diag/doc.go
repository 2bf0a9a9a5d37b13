// Package diag provides sink-side helpers for the diagnostics a scheduling
// pass collects on its types.WorkingSet: sorting by severity for
// presentation, and grouping for the CLI's plain-text printer. It holds no
// state of its own — every helper is a pure function over a
// []types.Diagnostic slice.
package diag
