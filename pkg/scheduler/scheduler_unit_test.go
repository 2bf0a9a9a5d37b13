package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/pcmk-scheduler/pkg/constraints"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

func TestComputeNextRecheckFallsBackToClusterInterval(t *testing.T) {
	ws := types.NewWorkingSet(fixedNow)
	ws.Options.ClusterRecheckIntervalMS = 60_000
	cs := &constraints.Set{}

	got := computeNextRecheck(ws, cs)
	assert.Equal(t, fixedNow.Add(60*time.Second), got)
}

func TestComputeNextRecheckPrefersEarlierRuleHint(t *testing.T) {
	ws := types.NewWorkingSet(fixedNow)
	ws.Options.ClusterRecheckIntervalMS = 60 * 60 * 1000 // 1h
	hint := fixedNow.Add(5 * time.Second)
	cs := &constraints.Set{RecheckHints: []*time.Time{&hint}}

	got := computeNextRecheck(ws, cs)
	assert.Equal(t, hint, got)
}

func TestComputeNextRecheckIgnoresPastHints(t *testing.T) {
	ws := types.NewWorkingSet(fixedNow)
	ws.Options.ClusterRecheckIntervalMS = 60_000
	past := fixedNow.Add(-5 * time.Second)
	cs := &constraints.Set{RecheckHints: []*time.Time{&past}}

	got := computeNextRecheck(ws, cs)
	assert.Equal(t, fixedNow.Add(60*time.Second), got)
}

func TestComputeNextRecheckDefaultsWhenIntervalUnset(t *testing.T) {
	ws := types.NewWorkingSet(fixedNow)
	cs := &constraints.Set{}

	got := computeNextRecheck(ws, cs)
	assert.Equal(t, fixedNow.Add(15*time.Minute), got)
}
