package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunOption observes a run. Errors returned by an option are reported but never stop the run.
type RunOption interface {
	// BeforeRun runs once, before the first work unit.
	BeforeRun(ctx context.Context, m Model) error
	// AfterUnit runs after every work unit with the stages before and after it.
	AfterUnit(ctx context.Context, m Model, from, to State, elapsed time.Duration) error
	// AfterRun runs once the run stopped, whatever the reason.
	AfterRun(ctx context.Context, m Model, elapsed time.Duration) error
}

type runIDKey struct{}

// WithRunID attaches the identifier of the current run to ctx.
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the identifier attached by WithRunID.
func RunID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(runIDKey{}).(uuid.UUID)

	return id, ok
}
