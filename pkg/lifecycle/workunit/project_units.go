package workunit

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// LoadSqlProjectPropertiesUnit reads the project properties.
type LoadSqlProjectPropertiesUnit struct {
	projects access.ProjectService
	logger   access.Logger
}

func NewLoadSqlProjectPropertiesUnit(projects access.ProjectService, logger access.Logger) *LoadSqlProjectPropertiesUnit {
	return &LoadSqlProjectPropertiesUnit{projects: projects, logger: logger}
}

func (u *LoadSqlProjectPropertiesUnit) Work(ctx context.Context, m model.Model) error {
	b, err := stateModel(m)
	if err != nil {
		return err
	}

	err = u.projects.LoadProperties(ctx, b.Project)
	if err != nil {
		u.logger.Log(ctx, fmt.Sprintf("ERROR: Cannot read properties of project '%s': %v", b.Project.Name, err))
		b.Result = model.ResultFailed
	}

	return b.Advance(model.SqlProjectPropertiesLoaded)
}

// FormatTargetVersionUnit renders the versions of the run with the configured pattern.
type FormatTargetVersionUnit struct {
	versions access.VersionService
}

func NewFormatTargetVersionUnit(versions access.VersionService) *FormatTargetVersionUnit {
	return &FormatTargetVersionUnit{versions: versions}
}

func (u *FormatTargetVersionUnit) Work(_ context.Context, m model.Model) error {
	b, err := stateModel(m)
	if err != nil {
		return err
	}

	pattern := b.Configuration.VersionPattern

	switch sm := m.(type) {
	case *model.ScaffoldingStateModel:
		sm.FormattedTargetVersion = u.versions.Format(sm.TargetVersion, pattern)
	case *model.ScriptCreationStateModel:
		sm.FormattedTargetVersion = u.versions.Format(sm.Project.Properties.DacVersion, pattern)
		sm.FormattedPreviousVersion = u.versions.Format(sm.PreviousVersion, pattern)
	default:
		return errors.Wrapf(model.ErrOutOfRange, "unknown state model %T", m)
	}

	return b.Advance(model.FormattedTargetVersionLoaded)
}

const changeDacVersionMessage = "Please change the DAC version in the SQL project settings (see output window)."

// ValidateTargetVersionUnit compares the project version with the versions requested for the run.
// Scaffolding needs the exact target version, script creation needs a version that is not
// lower than the previous one.
type ValidateTargetVersionUnit struct {
	logger   access.Logger
	notifier access.Notifier
}

func NewValidateTargetVersionUnit(logger access.Logger, notifier access.Notifier) *ValidateTargetVersionUnit {
	return &ValidateTargetVersionUnit{logger: logger, notifier: notifier}
}

func (u *ValidateTargetVersionUnit) Work(ctx context.Context, m model.Model) error {
	b, err := stateModel(m)
	if err != nil {
		return err
	}

	dacVersion := b.Project.Properties.DacVersion

	var message string

	switch sm := m.(type) {
	case *model.ScaffoldingStateModel:
		if dacVersion.Compare(sm.TargetVersion) != 0 {
			message = fmt.Sprintf("ERROR: DacVersion of SQL project (%s) doesn't match target version (%s).", dacVersion, sm.TargetVersion)
		}
	case *model.ScriptCreationStateModel:
		if dacVersion.Compare(sm.PreviousVersion) < 0 {
			message = fmt.Sprintf("ERROR: DacVersion of SQL project (%s) is lower than the previous version (%s).", dacVersion, sm.PreviousVersion)
		}
	default:
		return errors.Wrapf(model.ErrOutOfRange, "unknown state model %T", m)
	}

	if message != "" {
		u.logger.Log(ctx, message)
		u.notifier.ShowError(ctx, changeDacVersionMessage)
		b.Result = model.ResultFailed
	}

	return b.Advance(model.FormattedTargetVersionValidated)
}

// BuildProjectUnit builds the project. Script creation skips the build when the configuration
// says so and works with the existing build output.
type BuildProjectUnit struct {
	builder access.BuildService
	logger  access.Logger
}

func NewBuildProjectUnit(builder access.BuildService, logger access.Logger) *BuildProjectUnit {
	return &BuildProjectUnit{builder: builder, logger: logger}
}

func (u *BuildProjectUnit) Work(ctx context.Context, m model.Model) error {
	b, err := stateModel(m)
	if err != nil {
		return err
	}

	if m.Kind() == model.ScriptCreation && !b.Configuration.BuildBeforeScriptCreation {
		u.logger.Log(ctx, "Skipping build of the project (disabled in configuration).")

		return b.Advance(model.TriedToBuildProject)
	}

	u.logger.Log(ctx, "Building project ...")

	err = u.builder.Build(ctx, b.Project)
	if err != nil {
		u.logger.Log(ctx, "ERROR: Failed to build the project: "+err.Error())
		b.Result = model.ResultFailed
	}

	return b.Advance(model.TriedToBuildProject)
}

var (
	_ WorkUnit = (*LoadSqlProjectPropertiesUnit)(nil)
	_ WorkUnit = (*FormatTargetVersionUnit)(nil)
	_ WorkUnit = (*ValidateTargetVersionUnit)(nil)
	_ WorkUnit = (*BuildProjectUnit)(nil)
)
