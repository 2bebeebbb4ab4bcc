// Package history persists the runs of the lifecycle engine.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrRunNotFound indicates the run does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run is one execution of a workflow.
type Run struct {
	ID      uuid.UUID
	Kind    string
	Project string
	// Version is the formatted target version, empty until the version is known.
	Version   string
	Result    string
	StartedAt time.Time
	// Elapsed is zero while the run is not finished.
	Elapsed  time.Duration
	Finished bool
	Stages   []Stage
}

// Stage is one work unit executed by a run.
type Stage struct {
	// Position is assigned by the store, starting at 1.
	Position int
	From     string
	To       string
	Elapsed  time.Duration
}

// Store persists runs. Implementations must be safe for concurrent use.
type Store interface {
	// CreateRun stores a new unfinished run.
	CreateRun(ctx context.Context, run Run) error
	// AddStage appends a stage to a run.
	// Returns ErrRunNotFound if the run does not exist.
	AddStage(ctx context.Context, runID uuid.UUID, stage Stage) error
	// FinishRun records the outcome of a run.
	// Returns ErrRunNotFound if the run does not exist.
	FinishRun(ctx context.Context, runID uuid.UUID, version, result string, elapsed time.Duration) error
	// GetRun returns a run with its stages.
	// Returns ErrRunNotFound if the run does not exist.
	GetRun(ctx context.Context, runID uuid.UUID) (Run, error)
	// ListRuns returns the most recent runs first, without their stages.
	// A limit lower than 1 returns every run.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}
