package state

import (
	"context"
	"time"
)

// Store is the session history database: every toolchain run is
// recorded so a learner can review how an exercise went over time.
type Store interface {
	EnsureSchema(ctx context.Context) error
	RecordRun(ctx context.Context, run Run) (int64, error)
	ExerciseHistory(ctx context.Context, exercise string, limit int) ([]Run, error)
	GetSummary(ctx context.Context) (Summary, error)
	SaveSettings(ctx context.Context, values map[string]string) error
	LoadSettings(ctx context.Context) (map[string]string, error)
	Close() error
}

// Run is one finished toolchain invocation.
type Run struct {
	SessionID  string
	Exercise   string
	Mode       string
	Verdict    string
	DurationMS int64
	StartTS    time.Time
}

// Summary aggregates the whole history for the status pane.
type Summary struct {
	Runs      int
	Passes    int
	Exercises int
}
