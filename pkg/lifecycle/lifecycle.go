package lifecycle

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/workunit"
)

// UnitFactory resolves the unit producing the next stage of a model.
type UnitFactory interface {
	GetNextWorkUnit(m model.Model) (workunit.WorkUnit, error)
}

var _ UnitFactory = (*workunit.Factory)(nil)

// Service runs one workflow at a time.
type Service struct {
	factory UnitFactory
	logger  access.Logger
	opts    []model.RunOption
	running atomic.Bool
	now     func() time.Time
}

// New creates a new service.
func New(factory UnitFactory, logger access.Logger, opts ...model.RunOption) (*Service, error) {
	if factory == nil {
		return nil, errors.Wrap(model.ErrInvalidArgument, "work unit factory must be set")
	}

	if logger == nil {
		return nil, errors.Wrap(model.ErrInvalidArgument, "logger must be set")
	}

	return &Service{
		factory: factory,
		logger:  logger,
		opts:    opts,
		now:     time.Now,
	}, nil
}

// IsRunning reports whether a run is in progress.
func (s *Service) IsRunning() bool {
	return s.running.Load()
}

// Scaffold produces the first version of project.
func (s *Service) Scaffold(
	ctx context.Context,
	project *model.SqlProject,
	cfg model.Configuration,
	target model.Version,
	onProgress model.ProgressFunc,
) (model.Result, error) {
	m, err := model.NewScaffoldingStateModel(project, &cfg, &target, onProgress)
	if err != nil {
		return model.ResultPending, err
	}

	return s.Run(ctx, m)
}

// CreateScript produces the upgrade script of project from previous.
func (s *Service) CreateScript(
	ctx context.Context,
	project *model.SqlProject,
	cfg model.Configuration,
	previous model.Version,
	latest bool,
	onProgress model.ProgressFunc,
) (model.Result, error) {
	m, err := model.NewScriptCreationStateModel(project, &cfg, &previous, latest, onProgress)
	if err != nil {
		return model.ResultPending, err
	}

	return s.Run(ctx, m)
}

// Run executes the units of m until the terminal stage, the first failure or the cancellation of ctx.
// It returns the result held by the model when the run stopped.
func (s *Service) Run(ctx context.Context, m model.Model) (model.Result, error) {
	if model.IsNil(m) {
		return model.ResultPending, errors.Wrap(model.ErrInvalidArgument, "state model must be set")
	}

	if !s.running.CompareAndSwap(false, true) {
		return model.ResultPending, ErrAlreadyRunning
	}
	defer s.running.Store(false)

	ctx = model.WithRunID(ctx, uuid.New())
	base := m.Base()

	base.SetWorkInProgress(ctx, true)
	defer base.SetWorkInProgress(ctx, false)

	start := s.now()

	s.logger.Log(ctx, "Initializing "+m.Kind().String()+" ...")
	s.observe(ctx, func(opt model.RunOption) error { return opt.BeforeRun(ctx, m) })

	err := s.loop(ctx, m, start)

	elapsed := s.now().Sub(start)
	s.observe(ctx, func(opt model.RunOption) error { return opt.AfterRun(ctx, m, elapsed) })

	if err != nil {
		s.logger.Log(ctx, "ERROR: "+failureLabel(m.Kind())+" failed: "+err.Error())

		return base.Result, err
	}

	return base.Result, nil
}

func (s *Service) loop(ctx context.Context, m model.Model, start time.Time) error {
	base := m.Base()

	for {
		unit, err := s.factory.GetNextWorkUnit(m)
		if err != nil {
			return errors.Wrap(err, "unable to get the next work unit")
		}

		if unit == nil {
			s.logger.Log(ctx, finishedBanner(m, s.now().Sub(start)))

			return nil
		}

		if ctx.Err() != nil {
			s.logger.Log(ctx, "Creation was canceled by the user.")

			return nil
		}

		from := base.CurrentState()
		unitStart := s.now()

		err = unit.Work(ctx, m)
		if err != nil {
			return errors.Wrapf(err, "unit producing %s", from)
		}

		to := base.CurrentState()
		elapsed := s.now().Sub(unitStart)
		s.observe(ctx, func(opt model.RunOption) error { return opt.AfterUnit(ctx, m, from, to, elapsed) })

		if ctx.Err() != nil && to != m.Kind().Terminal() {
			s.logger.Log(ctx, "Creation was canceled by the user.")

			return nil
		}

		if base.Result == model.ResultFailed {
			return nil
		}

		if to <= from {
			return errors.Wrapf(model.ErrOutOfRange, "unit did not leave %s", from)
		}
	}
}

func (s *Service) observe(ctx context.Context, fn func(opt model.RunOption) error) {
	for _, opt := range s.opts {
		err := fn(opt)
		if err != nil {
			s.logger.Log(ctx, "WARNING: "+err.Error())
		}
	}
}

func failureLabel(kind model.WorkflowKind) string {
	if kind == model.Scaffolding {
		return "Scaffolding"
	}

	return "Script creation"
}

func finishedBanner(m model.Model, elapsed time.Duration) string {
	action := "Creating script"
	if m.Kind() == model.Scaffolding {
		action = "Scaffolding"
	}

	return fmt.Sprintf("========== %s version %s finished after %d milliseconds. ==========",
		action, m.Base().FormattedTargetVersion, elapsed.Milliseconds())
}
