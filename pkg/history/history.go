package history

import (
	"time"

	"github.com/cuemby/pcmk-scheduler/pkg/transition"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// Record is one recorded scheduling pass: its assembled graph, the
// diagnostics collected alongside it, and when it was recorded.
type Record struct {
	Seq         uint64
	TransitionID string
	RecordedAt  time.Time
	Graph       *transition.Graph
	Diagnostics []types.Diagnostic
}

// Store persists and retrieves Records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Append records a new pass, evicting the oldest entry if the store
	// is already at its retention cap.
	Append(rec *Record) error
	// List returns up to limit most-recent records, newest first. A
	// limit of 0 returns everything currently retained.
	List(limit int) ([]*Record, error)
	// Get retrieves a single record by transition ID.
	Get(transitionID string) (*Record, error)
	Close() error
}
