package model

import (
	"context"

	"github.com/pkg/errors"
)

// ProgressFunc is called whenever the work in progress flag of a run toggles.
type ProgressFunc func(ctx context.Context, inProgress bool) error

// Model is implemented by the state model of each workflow.
type Model interface {
	Kind() WorkflowKind
	Base() *StateModel
}

// IsNil reports whether m is nil or wraps a nil state model.
func IsNil(m Model) bool {
	return m == nil || m.Base() == nil
}

// StateModel holds everything a run accumulates. A run owns its model exclusively.
type StateModel struct {
	Project       *SqlProject
	Configuration Configuration
	Result        Result
	// Paths is set once by the unit that loads them.
	Paths                  *PathCollection
	FormattedTargetVersion string

	currentState State
	inProgress   bool
	onProgress   ProgressFunc
}

func newStateModel(project *SqlProject, cfg *Configuration, onProgress ProgressFunc) (StateModel, error) {
	if project == nil {
		return StateModel{}, errors.Wrap(ErrInvalidArgument, "project must be set")
	}

	if cfg == nil {
		return StateModel{}, errors.Wrap(ErrInvalidArgument, "configuration must be set")
	}

	if onProgress == nil {
		return StateModel{}, errors.Wrap(ErrInvalidArgument, "progress callback must be set")
	}

	return StateModel{
		Project:       project,
		Configuration: *cfg,
		currentState:  Initialized,
		onProgress:    onProgress,
	}, nil
}

// CurrentState returns the last stage reached.
func (m *StateModel) CurrentState() State {
	return m.currentState
}

// Advance moves the run to next. Stages never regress.
func (m *StateModel) Advance(next State) error {
	if next <= m.currentState {
		return errors.Wrapf(ErrOutOfRange, "cannot move from %s to %s", m.currentState, next)
	}

	m.currentState = next

	return nil
}

// WorkInProgress reports the last value passed to SetWorkInProgress.
func (m *StateModel) WorkInProgress() bool {
	return m.inProgress
}

// SetWorkInProgress notifies the progress callback when the flag toggles.
// Callback errors are ignored so that a broken listener cannot stop a run.
func (m *StateModel) SetWorkInProgress(ctx context.Context, inProgress bool) {
	if m.inProgress == inProgress {
		return
	}

	m.inProgress = inProgress

	if m.onProgress != nil {
		_ = m.onProgress(ctx, inProgress)
	}
}

// ScaffoldingStateModel carries a run producing the first version of a project.
type ScaffoldingStateModel struct {
	StateModel
	TargetVersion Version
}

// NewScaffoldingStateModel returns a model in the Initialized stage.
func NewScaffoldingStateModel(project *SqlProject, cfg *Configuration, target *Version, onProgress ProgressFunc) (*ScaffoldingStateModel, error) {
	base, err := newStateModel(project, cfg, onProgress)
	if err != nil {
		return nil, err
	}

	if target == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "target version must be set")
	}

	return &ScaffoldingStateModel{StateModel: base, TargetVersion: *target}, nil
}

func (m *ScaffoldingStateModel) Kind() WorkflowKind {
	return Scaffolding
}

func (m *ScaffoldingStateModel) Base() *StateModel {
	if m == nil {
		return nil
	}

	return &m.StateModel
}

// ScriptCreationStateModel carries a run producing an upgrade script from PreviousVersion.
type ScriptCreationStateModel struct {
	StateModel
	PreviousVersion Version
	// LatestVersion writes the new artifacts to the rolling latest directory.
	LatestVersion            bool
	FormattedPreviousVersion string
	PreDeploymentScript      string
	PostDeploymentScript     string
}

// NewScriptCreationStateModel returns a model in the Initialized stage.
func NewScriptCreationStateModel(
	project *SqlProject,
	cfg *Configuration,
	previous *Version,
	latest bool,
	onProgress ProgressFunc,
) (*ScriptCreationStateModel, error) {
	base, err := newStateModel(project, cfg, onProgress)
	if err != nil {
		return nil, err
	}

	if previous == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "previous version must be set")
	}

	return &ScriptCreationStateModel{StateModel: base, PreviousVersion: *previous, LatestVersion: latest}, nil
}

func (m *ScriptCreationStateModel) Kind() WorkflowKind {
	return ScriptCreation
}

func (m *ScriptCreationStateModel) Base() *StateModel {
	if m == nil {
		return nil
	}

	return &m.StateModel
}

var (
	_ Model = (*ScaffoldingStateModel)(nil)
	_ Model = (*ScriptCreationStateModel)(nil)
)
