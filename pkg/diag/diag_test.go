package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

func diags() []types.Diagnostic {
	return []types.Diagnostic{
		{Severity: types.SeverityWarn, ObjectID: "b", Message: "warn b"},
		{Severity: types.SeverityError, ObjectID: "a", Message: "error a"},
		{Severity: types.SeverityInfo, ObjectID: "c", Message: "info c"},
		{Severity: types.SeverityConfigError, ObjectID: "a", Message: "config a"},
	}
}

func TestSortBySeverityMostSevereFirst(t *testing.T) {
	sorted := SortBySeverity(diags())
	require := sorted
	assert.Equal(t, types.SeverityError, require[0].Severity)
	assert.Equal(t, types.SeverityConfigError, require[1].Severity)
	assert.Equal(t, types.SeverityWarn, require[2].Severity)
	assert.Equal(t, types.SeverityInfo, require[3].Severity)
}

func TestSortBySeverityDoesNotMutateInput(t *testing.T) {
	in := diags()
	original := append([]types.Diagnostic(nil), in...)
	_ = SortBySeverity(in)
	assert.Equal(t, original, in)
}

func TestGroupBySeverityBucketsByKey(t *testing.T) {
	groups := GroupBySeverity(diags())
	assert.Len(t, groups[types.SeverityWarn], 1)
	assert.Len(t, groups[types.SeverityError], 1)
	assert.Len(t, groups[types.SeverityConfigError], 1)
}

func TestHasErrorsTrueForErrorAndConfigError(t *testing.T) {
	assert.True(t, HasErrors([]types.Diagnostic{{Severity: types.SeverityError}}))
	assert.True(t, HasErrors([]types.Diagnostic{{Severity: types.SeverityConfigError}}))
	assert.False(t, HasErrors([]types.Diagnostic{{Severity: types.SeverityWarn}}))
	assert.False(t, HasErrors(nil))
}

func TestCountBySeverityCountsEachBucket(t *testing.T) {
	counts := CountBySeverity(diags())
	assert.Equal(t, 1, counts[types.SeverityWarn])
	assert.Equal(t, 1, counts[types.SeverityError])
	assert.Equal(t, 1, counts[types.SeverityInfo])
	assert.Equal(t, 1, counts[types.SeverityConfigError])
}
