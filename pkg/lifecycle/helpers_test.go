package lifecycle_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access/accesstest"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/modifier"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/workunit"
)

type unitFunc func(ctx context.Context, m model.Model) error

func (f unitFunc) Work(ctx context.Context, m model.Model) error {
	return f(ctx, m)
}

type factoryFunc func(m model.Model) (workunit.WorkUnit, error)

func (f factoryFunc) GetNextWorkUnit(m model.Model) (workunit.WorkUnit, error) {
	return f(m)
}

// advanceTo returns a factory whose units move the model one stage further until last.
func advanceTo(last model.State) factoryFunc {
	return func(m model.Model) (workunit.WorkUnit, error) {
		if m.Base().CurrentState() >= last {
			return nil, nil
		}

		return unitFunc(func(_ context.Context, m model.Model) error {
			return m.Base().Advance(m.Base().CurrentState() + 1)
		}), nil
	}
}

type progress struct {
	mu    sync.Mutex
	calls []bool
}

func (p *progress) record(_ context.Context, inProgress bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, inProgress)

	return nil
}

func (p *progress) values() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]bool(nil), p.calls...)
}

func noProgress(context.Context, bool) error { return nil }

func newScaffolding(t *testing.T, project *model.SqlProject, cfg model.Configuration, target string, onProgress model.ProgressFunc) *model.ScaffoldingStateModel {
	t.Helper()

	v := model.MustParseVersion(target)
	m, err := model.NewScaffoldingStateModel(project, &cfg, &v, onProgress)
	require.NoError(t, err)

	return m
}

type collaborators struct {
	logger   *accesstest.Logger
	projects *accesstest.ProjectService
	builder  *accesstest.BuildService
	dac      *accesstest.DacAccess
	notifier *accesstest.Notifier
}

func newCollaborators() *collaborators {
	return &collaborators{
		logger:   &accesstest.Logger{},
		projects: &accesstest.ProjectService{},
		builder:  &accesstest.BuildService{},
		dac:      &accesstest.DacAccess{},
		notifier: &accesstest.Notifier{},
	}
}

func (c *collaborators) factory(t *testing.T, fs access.FileSystem, versions access.VersionService) *workunit.Factory {
	t.Helper()

	modifiers, err := modifier.NewFactory(c.dac, c.logger)
	require.NoError(t, err)

	f, err := workunit.NewFactory(workunit.Dependencies{
		Logger:     c.logger,
		FileSystem: fs,
		Projects:   c.projects,
		Builder:    c.builder,
		Dac:        c.dac,
		Versions:   versions,
		Notifier:   c.notifier,
		Modifiers:  modifiers,
	})
	require.NoError(t, err)

	return f
}

type failingOption struct{}

func (failingOption) BeforeRun(context.Context, model.Model) error {
	return errFailingOption
}

func (failingOption) AfterUnit(context.Context, model.Model, model.State, model.State, time.Duration) error {
	return nil
}

func (failingOption) AfterRun(context.Context, model.Model, time.Duration) error {
	return nil
}
