package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/pcmk-scheduler/pkg/transition"
)

func newTestStore(t *testing.T, retain int) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(t.TempDir(), retain)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndGet(t *testing.T) {
	s := newTestStore(t, 10)

	rec := &Record{
		TransitionID: "t-1",
		RecordedAt:   time.Now(),
		Graph:        &transition.Graph{TransitionID: "t-1"},
	}
	require.NoError(t, s.Append(rec))

	got, err := s.Get("t-1")
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.TransitionID)
}

func TestGetMissingReturnsError(t *testing.T) {
	s := newTestStore(t, 10)
	_, err := s.Get("does-not-exist")
	assert.Error(t, err)
}

func TestListReturnsNewestFirst(t *testing.T) {
	s := newTestStore(t, 10)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Append(&Record{TransitionID: fmt.Sprintf("t-%d", i)}))
	}

	recs, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "t-2", recs[0].TransitionID)
	assert.Equal(t, "t-0", recs[2].TransitionID)
}

func TestAppendEvictsOldestBeyondRetentionCap(t *testing.T) {
	s := newTestStore(t, 2)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(&Record{TransitionID: fmt.Sprintf("t-%d", i)}))
	}

	recs, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "t-4", recs[0].TransitionID)
	assert.Equal(t, "t-3", recs[1].TransitionID)
}
