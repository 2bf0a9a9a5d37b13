package diag

import (
	"sort"

	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// SortBySeverity orders diagnostics most severe first, breaking ties by
// object ID so the ordering is stable across identical runs (spec.md §5's
// determinism invariant applies to anything a scheduling pass returns, not
// just the transition graph).
func SortBySeverity(diags []types.Diagnostic) []types.Diagnostic {
	sorted := make([]types.Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Severity.Rank() != sorted[j].Severity.Rank() {
			return sorted[i].Severity.Rank() > sorted[j].Severity.Rank()
		}
		return sorted[i].ObjectID < sorted[j].ObjectID
	})
	return sorted
}

// GroupBySeverity buckets diagnostics by severity, following crm_mon's
// convention of grouping before display rather than printing a flat list.
func GroupBySeverity(diags []types.Diagnostic) map[types.Severity][]types.Diagnostic {
	groups := make(map[types.Severity][]types.Diagnostic)
	for _, d := range diags {
		groups[d.Severity] = append(groups[d.Severity], d)
	}
	return groups
}

// HasErrors reports whether any diagnostic is at error severity or above
// (error or config-error), the threshold cmd/pcmk-scheduld uses to decide
// its exit code.
func HasErrors(diags []types.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity.Rank() >= types.SeverityConfigError.Rank() {
			return true
		}
	}
	return false
}

// CountBySeverity returns the number of diagnostics at each severity,
// the shape pkg/metrics.Observe reports as a gauge vector.
func CountBySeverity(diags []types.Diagnostic) map[types.Severity]int {
	counts := make(map[types.Severity]int)
	for _, d := range diags {
		counts[d.Severity]++
	}
	return counts
}
