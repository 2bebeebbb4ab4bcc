package history

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

type recorder struct {
	store Store
	now   func() time.Time
}

// Recorder stores every run in store. Runs must carry an id, see model.WithRunID.
func Recorder(store Store) model.RunOption {
	return &recorder{store: store, now: time.Now}
}

func (r *recorder) BeforeRun(ctx context.Context, m model.Model) error {
	id, ok := model.RunID(ctx)
	if !ok {
		return errors.Wrap(model.ErrInvalidArgument, "run id is missing")
	}

	base := m.Base()

	return r.store.CreateRun(ctx, Run{
		ID:        id,
		Kind:      m.Kind().String(),
		Project:   base.Project.FullName,
		Result:    base.Result.String(),
		StartedAt: r.now(),
	})
}

func (r *recorder) AfterUnit(ctx context.Context, _ model.Model, from, to model.State, elapsed time.Duration) error {
	id, ok := model.RunID(ctx)
	if !ok {
		return errors.Wrap(model.ErrInvalidArgument, "run id is missing")
	}

	return r.store.AddStage(ctx, id, Stage{From: from.String(), To: to.String(), Elapsed: elapsed})
}

func (r *recorder) AfterRun(ctx context.Context, m model.Model, elapsed time.Duration) error {
	id, ok := model.RunID(ctx)
	if !ok {
		return errors.Wrap(model.ErrInvalidArgument, "run id is missing")
	}

	base := m.Base()

	return r.store.FinishRun(ctx, id, base.FormattedTargetVersion, base.Result.String(), elapsed)
}
