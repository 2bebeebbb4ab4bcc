package workunit

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// Dependencies are the collaborators injected into the work units.
type Dependencies struct {
	Logger     access.Logger
	FileSystem access.FileSystem
	Projects   access.ProjectService
	Builder    access.BuildService
	Dac        access.DacAccess
	Versions   access.VersionService
	Notifier   access.Notifier
	Modifiers  ModifierFactory
}

func (d Dependencies) validate() error {
	checks := []struct {
		name    string
		missing bool
	}{
		{"logger", d.Logger == nil},
		{"file system", d.FileSystem == nil},
		{"project service", d.Projects == nil},
		{"build service", d.Builder == nil},
		{"dac access", d.Dac == nil},
		{"version service", d.Versions == nil},
		{"notifier", d.Notifier == nil},
		{"modifier factory", d.Modifiers == nil},
	}

	for _, c := range checks {
		if c.missing {
			return errors.Wrapf(model.ErrInvalidArgument, "%s must be set", c.name)
		}
	}

	return nil
}

// Factory resolves the next work unit from the current stage of a state model.
type Factory struct {
	table map[model.WorkflowKind]map[model.State]func() WorkUnit
}

// NewFactory creates a new factory and validates the dispatch table of every workflow.
func NewFactory(deps Dependencies) (*Factory, error) {
	err := deps.validate()
	if err != nil {
		return nil, err
	}

	producers := map[model.State]func() WorkUnit{
		model.SqlProjectPropertiesLoaded: func() WorkUnit {
			return NewLoadSqlProjectPropertiesUnit(deps.Projects, deps.Logger)
		},
		model.FormattedTargetVersionLoaded: func() WorkUnit {
			return NewFormatTargetVersionUnit(deps.Versions)
		},
		model.FormattedTargetVersionValidated: func() WorkUnit {
			return NewValidateTargetVersionUnit(deps.Logger, deps.Notifier)
		},
		model.PathsLoaded: func() WorkUnit {
			return NewLoadPathsUnit(deps.Logger)
		},
		model.PathsVerified: func() WorkUnit {
			return NewVerifyPathsUnit(deps.FileSystem, deps.Logger)
		},
		model.TriedToBuildProject: func() WorkUnit {
			return NewBuildProjectUnit(deps.Builder, deps.Logger)
		},
		model.TriedToCopyBuildResult: func() WorkUnit {
			return NewCopyBuildResultUnit(deps.FileSystem, deps.Logger)
		},
		model.TriedToCreateDeploymentFiles: func() WorkUnit {
			return NewCreateDeploymentFilesUnit(deps.Dac, deps.FileSystem, deps.Logger)
		},
		model.ModifiedDeploymentScript: func() WorkUnit {
			return NewModifyDeploymentScriptUnit(deps.Modifiers, deps.FileSystem, deps.Logger)
		},
		model.TriedToCopyDacpacToSharedDacpacRepository: func() WorkUnit {
			return NewCopyDacpacToSharedDacpacRepositoryUnit(deps.FileSystem, deps.Logger)
		},
	}

	f := &Factory{table: make(map[model.WorkflowKind]map[model.State]func() WorkUnit)}

	for _, kind := range Workflows() {
		err := validateLattice(kind, producers)
		if err != nil {
			return nil, errors.Wrap(err, "invalid dispatch table")
		}

		stages := workflows[kind]
		next := make(map[model.State]func() WorkUnit, len(stages))

		for i, s := range stages {
			if i == len(stages)-1 {
				next[s] = nil

				break
			}

			next[s] = producers[stages[i+1]]
		}

		f.table[kind] = next
	}

	return f, nil
}

// GetNextWorkUnit returns the unit producing the stage after the current one,
// or nil when the model reached the terminal stage of its workflow.
func (f *Factory) GetNextWorkUnit(m model.Model) (WorkUnit, error) {
	if model.IsNil(m) {
		return nil, errors.Wrap(model.ErrInvalidArgument, "state model must be set")
	}

	table, ok := f.table[m.Kind()]
	if !ok {
		return nil, errors.Wrapf(model.ErrOutOfRange, "unknown workflow %s", m.Kind())
	}

	state := m.Base().CurrentState()

	create, ok := table[state]
	if !ok {
		return nil, errors.Wrapf(model.ErrOutOfRange, "stage %s is not part of the %s workflow", state, m.Kind())
	}

	if create == nil {
		return nil, nil //nolint:nilnil // nil unit marks the end of the workflow
	}

	return create(), nil
}
