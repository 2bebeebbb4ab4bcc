package workunit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/modifier"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/workunit"
)

func allUnits(t *testing.T, m *mocks) map[string]workunit.WorkUnit {
	t.Helper()

	deps := m.dependencies(t)

	return map[string]workunit.WorkUnit{
		"load properties": workunit.NewLoadSqlProjectPropertiesUnit(deps.Projects, deps.Logger),
		"format version":  workunit.NewFormatTargetVersionUnit(deps.Versions),
		"validate":        workunit.NewValidateTargetVersionUnit(deps.Logger, deps.Notifier),
		"load paths":      workunit.NewLoadPathsUnit(deps.Logger),
		"verify paths":    workunit.NewVerifyPathsUnit(deps.FileSystem, deps.Logger),
		"build":           workunit.NewBuildProjectUnit(deps.Builder, deps.Logger),
		"copy build":      workunit.NewCopyBuildResultUnit(deps.FileSystem, deps.Logger),
		"deploy files":    workunit.NewCreateDeploymentFilesUnit(deps.Dac, deps.FileSystem, deps.Logger),
		"modify script":   workunit.NewModifyDeploymentScriptUnit(deps.Modifiers, deps.FileSystem, deps.Logger),
		"shared copy":     workunit.NewCopyDacpacToSharedDacpacRepositoryUnit(deps.FileSystem, deps.Logger),
	}
}

func TestWorkNilModel(t *testing.T) {
	t.Parallel()

	m := newMocks()

	for name, unit := range allUnits(t, m) {
		err := unit.Work(context.Background(), nil)
		assert.ErrorIs(t, err, model.ErrInvalidArgument, name)

		var typed *model.ScriptCreationStateModel
		err = unit.Work(context.Background(), typed)
		assert.ErrorIs(t, err, model.ErrInvalidArgument, name)
	}

	m.assertNoSideEffect(t)
}

func TestScriptCreationUnitsRejectScaffolding(t *testing.T) {
	t.Parallel()

	m := newMocks()
	units := allUnits(t, m)

	for _, name := range []string{"verify paths", "deploy files", "modify script"} {
		sm := newScaffolding(t, model.DefaultConfiguration(), model.PathsLoaded)
		err := units[name].Work(context.Background(), sm)
		assert.ErrorIs(t, err, model.ErrOutOfRange, name)
	}

	m.assertNoSideEffect(t)
}

func TestLoadSqlProjectPropertiesUnit(t *testing.T) {
	t.Parallel()

	m := newMocks()
	sm := newScaffolding(t, model.DefaultConfiguration(), model.Initialized)
	m.projects.On("LoadProperties", mock.Anything, sm.Project).Return(nil).Once()

	err := workunit.NewLoadSqlProjectPropertiesUnit(m.projects, m.logger).Work(context.Background(), sm)
	require.NoError(t, err)
	assert.Equal(t, model.SqlProjectPropertiesLoaded, sm.CurrentState())
	assert.Equal(t, model.ResultPending, sm.Result)
	assert.Empty(t, m.logger.Lines())
	m.projects.AssertExpectations(t)
}

func TestLoadSqlProjectPropertiesUnitFailure(t *testing.T) {
	t.Parallel()

	m := newMocks()
	sm := newScaffolding(t, model.DefaultConfiguration(), model.Initialized)
	m.projects.On("LoadProperties", mock.Anything, sm.Project).Return(assert.AnError)

	err := workunit.NewLoadSqlProjectPropertiesUnit(m.projects, m.logger).Work(context.Background(), sm)
	require.NoError(t, err)
	assert.Equal(t, model.SqlProjectPropertiesLoaded, sm.CurrentState())
	assert.Equal(t, model.ResultFailed, sm.Result)
	assert.Equal(t, []string{"ERROR: Cannot read properties of project 'Database': " + assert.AnError.Error()}, m.logger.Lines())
}

func TestFormatTargetVersionUnit(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultConfiguration()
	m := newMocks()
	m.versions.On("Format", model.MustParseVersion("1.2.0.0"), cfg.VersionPattern).Return("1.2.0.0")
	m.versions.On("Format", model.MustParseVersion("1.1.0.0"), cfg.VersionPattern).Return("1.1.0.0")
	unit := workunit.NewFormatTargetVersionUnit(m.versions)

	scaffolding := newScaffolding(t, cfg, model.SqlProjectPropertiesLoaded)
	require.NoError(t, unit.Work(context.Background(), scaffolding))
	assert.Equal(t, "1.2.0.0", scaffolding.FormattedTargetVersion)
	assert.Equal(t, model.FormattedTargetVersionLoaded, scaffolding.CurrentState())

	scriptCreation := newScriptCreation(t, cfg, model.SqlProjectPropertiesLoaded)
	require.NoError(t, unit.Work(context.Background(), scriptCreation))
	assert.Equal(t, "1.2.0.0", scriptCreation.FormattedTargetVersion)
	assert.Equal(t, "1.1.0.0", scriptCreation.FormattedPreviousVersion)
	assert.Equal(t, model.ResultPending, scriptCreation.Result)
}

func TestValidateTargetVersionUnitScaffoldingMismatch(t *testing.T) {
	t.Parallel()

	m := newMocks()
	m.notifier.On("ShowError", mock.Anything, "Please change the DAC version in the SQL project settings (see output window).").Once()

	sm := newScaffolding(t, model.DefaultConfiguration(), model.FormattedTargetVersionLoaded)
	sm.TargetVersion = model.MustParseVersion("2.0.0.0")

	err := workunit.NewValidateTargetVersionUnit(m.logger, m.notifier).Work(context.Background(), sm)
	require.NoError(t, err)
	assert.Equal(t, model.FormattedTargetVersionValidated, sm.CurrentState())
	assert.Equal(t, model.ResultFailed, sm.Result)
	assert.Equal(t, []string{"ERROR: DacVersion of SQL project (1.2.0.0) doesn't match target version (2.0.0.0)."}, m.logger.Lines())
	m.notifier.AssertExpectations(t)
}

func TestValidateTargetVersionUnitScriptCreation(t *testing.T) {
	t.Parallel()

	m := newMocks()
	unit := workunit.NewValidateTargetVersionUnit(m.logger, m.notifier)

	sm := newScriptCreation(t, model.DefaultConfiguration(), model.FormattedTargetVersionLoaded)
	require.NoError(t, unit.Work(context.Background(), sm))
	assert.Equal(t, model.ResultPending, sm.Result)

	m.notifier.On("ShowError", mock.Anything, mock.Anything).Once()

	lower := newScriptCreation(t, model.DefaultConfiguration(), model.FormattedTargetVersionLoaded)
	lower.PreviousVersion = model.MustParseVersion("1.3.0.0")
	require.NoError(t, unit.Work(context.Background(), lower))
	assert.Equal(t, model.ResultFailed, lower.Result)
	assert.Equal(t, []string{"ERROR: DacVersion of SQL project (1.2.0.0) is lower than the previous version (1.3.0.0)."}, m.logger.Lines())
	m.notifier.AssertNumberOfCalls(t, "ShowError", 1)
}

func TestLoadPathsUnitScaffolding(t *testing.T) {
	t.Parallel()

	m := newMocks()
	sm := newScaffolding(t, model.DefaultConfiguration(), model.FormattedTargetVersionValidated)
	sm.FormattedTargetVersion = "1.2.0.0"

	require.NoError(t, workunit.NewLoadPathsUnit(m.logger).Work(context.Background(), sm))
	require.NotNil(t, sm.Paths)
	assert.Equal(t, model.PathsLoaded, sm.CurrentState())
	assert.Equal(t, model.PathCollection{
		Directories: model.DirectoryPaths{
			ProjectDirectory:         "/src/Database",
			LatestArtifactsDirectory: "/src/Database/_Deployment/latest",
			NewArtifactsDirectory:    "/src/Database/_Deployment/1.2.0.0",
		},
		DeploySource: model.DeploySourcePaths{
			NewDacpacPath:      "/src/Database/_Deployment/1.2.0.0/Database.dacpac",
			PublishProfilePath: "/src/Database/Database.publish.xml",
		},
	}, *sm.Paths)
}

func TestLoadPathsUnitScriptCreation(t *testing.T) {
	t.Parallel()

	m := newMocks()
	sm := newScriptCreation(t, model.DefaultConfiguration(), model.FormattedTargetVersionValidated)
	sm.FormattedTargetVersion = "1.2.0.0"
	sm.FormattedPreviousVersion = "1.1.0.0"

	require.NoError(t, workunit.NewLoadPathsUnit(m.logger).Work(context.Background(), sm))
	assert.Equal(t, *scriptCreationPaths(), *sm.Paths)
}

func TestLoadPathsUnitLatestVersion(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultConfiguration()
	cfg.ArtifactsPath = "/artifacts"

	m := newMocks()
	sm := newScriptCreation(t, cfg, model.FormattedTargetVersionValidated)
	sm.LatestVersion = true
	sm.FormattedTargetVersion = "1.2.0.0"
	sm.FormattedPreviousVersion = "1.1.0.0"

	require.NoError(t, workunit.NewLoadPathsUnit(m.logger).Work(context.Background(), sm))
	assert.Equal(t, "/artifacts/latest", sm.Paths.Directories.NewArtifactsDirectory)
	assert.Equal(t, "/artifacts/1.1.0.0/Database.dacpac", sm.Paths.DeploySource.PreviousDacpacPath)
	assert.Equal(t, "/artifacts/latest/Database_1.1.0.0_latest.sql", sm.Paths.DeployTarget.DeployScriptPath)
}

func TestLoadPathsUnitWithoutTargetName(t *testing.T) {
	t.Parallel()

	m := newMocks()
	sm := newScaffolding(t, model.DefaultConfiguration(), model.FormattedTargetVersionValidated)
	sm.FormattedTargetVersion = "1.2.0.0"
	sm.Project.Properties.SqlTargetName = ""

	require.NoError(t, workunit.NewLoadPathsUnit(m.logger).Work(context.Background(), sm))
	assert.Nil(t, sm.Paths)
	assert.Equal(t, model.ResultFailed, sm.Result)
	assert.Len(t, m.logger.Lines(), 1)
}

func TestVerifyPathsUnitMissingPreviousDacpac(t *testing.T) {
	t.Parallel()

	m := newMocks()
	paths := scriptCreationPaths()
	m.fs.On("FileExists", paths.DeploySource.PreviousDacpacPath).Return(false)

	sm := newScriptCreation(t, model.DefaultConfiguration(), model.PathsLoaded)
	sm.Paths = paths

	require.NoError(t, workunit.NewVerifyPathsUnit(m.fs, m.logger).Work(context.Background(), sm))
	assert.Equal(t, model.PathsVerified, sm.CurrentState())
	assert.Equal(t, model.ResultFailed, sm.Result)
	assert.Equal(t, []string{
		"Verifying paths ...",
		"ERROR: Previous DACPAC not found at '/src/Database/_Deployment/1.1.0.0/Database.dacpac'.",
	}, m.logger.Lines())
	m.fs.AssertNotCalled(t, "FileExists", paths.DeploySource.PublishProfilePath)
}

func TestVerifyPathsUnit(t *testing.T) {
	t.Parallel()

	m := newMocks()
	m.fs.On("FileExists", mock.Anything).Return(true)

	sm := newScriptCreation(t, model.DefaultConfiguration(), model.PathsLoaded)
	sm.Paths = scriptCreationPaths()

	require.NoError(t, workunit.NewVerifyPathsUnit(m.fs, m.logger).Work(context.Background(), sm))
	assert.Equal(t, model.ResultPending, sm.Result)
	m.fs.AssertNumberOfCalls(t, "FileExists", 2)
}

func TestBuildProjectUnit(t *testing.T) {
	t.Parallel()

	m := newMocks()
	sm := newScaffolding(t, model.DefaultConfiguration(), model.PathsLoaded)
	m.builder.On("Build", mock.Anything, sm.Project).Return(assert.AnError)

	require.NoError(t, workunit.NewBuildProjectUnit(m.builder, m.logger).Work(context.Background(), sm))
	assert.Equal(t, model.TriedToBuildProject, sm.CurrentState())
	assert.Equal(t, model.ResultFailed, sm.Result)
	assert.Equal(t, []string{"Building project ...", "ERROR: Failed to build the project: " + assert.AnError.Error()}, m.logger.Lines())
}

func TestBuildProjectUnitSkipped(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultConfiguration()
	cfg.BuildBeforeScriptCreation = false

	m := newMocks()
	sm := newScriptCreation(t, cfg, model.PathsVerified)

	require.NoError(t, workunit.NewBuildProjectUnit(m.builder, m.logger).Work(context.Background(), sm))
	assert.Equal(t, model.TriedToBuildProject, sm.CurrentState())
	assert.Equal(t, model.ResultPending, sm.Result)
	m.builder.AssertNotCalled(t, "Build", mock.Anything, mock.Anything)
}

func TestCopyBuildResultUnit(t *testing.T) {
	t.Parallel()

	m := newMocks()
	paths := scriptCreationPaths()
	m.fs.On("EnsureDirectoryExists", paths.Directories.NewArtifactsDirectory).Return(nil).Once()
	m.fs.On("CopyFile", "/src/Database/bin/Release/Database.dacpac", paths.DeploySource.NewDacpacPath).Return(nil).Once()

	sm := newScriptCreation(t, model.DefaultConfiguration(), model.TriedToBuildProject)
	sm.Paths = paths

	require.NoError(t, workunit.NewCopyBuildResultUnit(m.fs, m.logger).Work(context.Background(), sm))
	assert.Equal(t, model.TriedToCopyBuildResult, sm.CurrentState())
	assert.Equal(t, model.ResultPending, sm.Result)
	m.fs.AssertExpectations(t)
}

func TestCreateDeploymentFilesUnit(t *testing.T) {
	t.Parallel()

	m := newMocks()
	paths := scriptCreationPaths()
	m.dac.On("CreateDeployFiles", mock.Anything,
		paths.DeploySource.PreviousDacpacPath, paths.DeploySource.NewDacpacPath, paths.DeploySource.PublishProfilePath,
		true, true,
	).Return(access.DeployFiles{Script: "script", Report: "report", PreDeploymentScript: "pre", PostDeploymentScript: "post"}, nil)
	m.fs.On("WriteFile", paths.DeployTarget.DeployScriptPath, "script").Return(nil).Once()
	m.fs.On("WriteFile", paths.DeployTarget.DeployReportPath, "report").Return(nil).Once()

	sm := newScriptCreation(t, model.DefaultConfiguration(), model.TriedToCopyBuildResult)
	sm.Paths = paths

	require.NoError(t, workunit.NewCreateDeploymentFilesUnit(m.dac, m.fs, m.logger).Work(context.Background(), sm))
	assert.Equal(t, model.TriedToCreateDeploymentFiles, sm.CurrentState())
	assert.Equal(t, model.ResultPending, sm.Result)
	assert.Equal(t, "pre", sm.PreDeploymentScript)
	assert.Equal(t, "post", sm.PostDeploymentScript)
	m.fs.AssertExpectations(t)
}

func TestCreateDeploymentFilesUnitWithoutReport(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultConfiguration()
	cfg.CreateDocumentationWithScriptCreation = false

	m := newMocks()
	paths := scriptCreationPaths()
	m.dac.On("CreateDeployFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything, true, false).
		Return(access.DeployFiles{Script: "script"}, nil)
	m.fs.On("WriteFile", paths.DeployTarget.DeployScriptPath, "script").Return(assert.AnError)

	sm := newScriptCreation(t, cfg, model.TriedToCopyBuildResult)
	sm.Paths = paths

	require.NoError(t, workunit.NewCreateDeploymentFilesUnit(m.dac, m.fs, m.logger).Work(context.Background(), sm))
	assert.Equal(t, model.ResultFailed, sm.Result)
	m.fs.AssertNumberOfCalls(t, "WriteFile", 1)
	assert.Contains(t, m.logger.Lines(), "ERROR: Failed to write '"+paths.DeployTarget.DeployScriptPath+"': "+assert.AnError.Error())
}

func TestCreateDeploymentFilesUnitReportWriteFails(t *testing.T) {
	t.Parallel()

	m := newMocks()
	paths := scriptCreationPaths()
	m.dac.On("CreateDeployFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything, true, true).
		Return(access.DeployFiles{Script: "script", Report: "report"}, nil)
	m.fs.On("WriteFile", paths.DeployTarget.DeployScriptPath, "script").Return(nil).Once()
	m.fs.On("WriteFile", paths.DeployTarget.DeployReportPath, "report").Return(assert.AnError).Once()
	m.fs.On("DeleteFile", paths.DeployTarget.DeployScriptPath).Return(nil).Once()

	sm := newScriptCreation(t, model.DefaultConfiguration(), model.TriedToCopyBuildResult)
	sm.Paths = paths

	require.NoError(t, workunit.NewCreateDeploymentFilesUnit(m.dac, m.fs, m.logger).Work(context.Background(), sm))
	assert.Equal(t, model.TriedToCreateDeploymentFiles, sm.CurrentState())
	assert.Equal(t, model.ResultFailed, sm.Result)
	assert.Equal(t, []string{
		"Creating deployment files ...",
		"ERROR: Failed to write '" + paths.DeployTarget.DeployReportPath + "': " + assert.AnError.Error(),
	}, m.logger.Lines())
	m.fs.AssertExpectations(t)
}

func TestCreateDeploymentFilesUnitScriptWriteFailsSkipsReport(t *testing.T) {
	t.Parallel()

	m := newMocks()
	paths := scriptCreationPaths()
	m.dac.On("CreateDeployFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything, true, true).
		Return(access.DeployFiles{Script: "script", Report: "report"}, nil)
	m.fs.On("WriteFile", paths.DeployTarget.DeployScriptPath, "script").Return(assert.AnError).Once()

	sm := newScriptCreation(t, model.DefaultConfiguration(), model.TriedToCopyBuildResult)
	sm.Paths = paths

	require.NoError(t, workunit.NewCreateDeploymentFilesUnit(m.dac, m.fs, m.logger).Work(context.Background(), sm))
	assert.Equal(t, model.ResultFailed, sm.Result)
	m.fs.AssertNumberOfCalls(t, "WriteFile", 1)
	m.fs.AssertNotCalled(t, "DeleteFile", mock.Anything)
}

func TestCreateDeploymentFilesUnitReportedErrors(t *testing.T) {
	t.Parallel()

	m := newMocks()
	m.dac.On("CreateDeployFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(access.DeployFiles{Errors: []string{"first", "second"}}, nil)

	sm := newScriptCreation(t, model.DefaultConfiguration(), model.TriedToCopyBuildResult)
	sm.Paths = scriptCreationPaths()

	require.NoError(t, workunit.NewCreateDeploymentFilesUnit(m.dac, m.fs, m.logger).Work(context.Background(), sm))
	assert.Equal(t, model.ResultFailed, sm.Result)
	assert.Equal(t, []string{"Creating deployment files ...", "ERROR: first", "ERROR: second"}, m.logger.Lines())
	m.fs.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything)
}

func newModifyUnit(t *testing.T, m *mocks) *workunit.ModifyDeploymentScriptUnit {
	t.Helper()

	modifiers, err := modifier.NewFactory(m.dac, m.logger)
	require.NoError(t, err)

	return workunit.NewModifyDeploymentScriptUnit(modifiers, m.fs, m.logger)
}

func TestModifyDeploymentScriptUnitNothingEnabled(t *testing.T) {
	t.Parallel()

	m := newMocks()
	sm := newScriptCreation(t, model.DefaultConfiguration(), model.TriedToCreateDeploymentFiles)
	sm.Paths = scriptCreationPaths()

	require.NoError(t, newModifyUnit(t, m).Work(context.Background(), sm))
	assert.Equal(t, model.ModifiedDeploymentScript, sm.CurrentState())
	assert.Equal(t, model.ResultPending, sm.Result)
	m.assertNoSideEffect(t)
}

func TestModifyDeploymentScriptUnit(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultConfiguration()
	cfg.CustomHeader = "-- {PREVIOUS_VERSION} to {NEXT_VERSION}"
	cfg.CustomFooter = "-- end"

	m := newMocks()
	paths := scriptCreationPaths()
	m.fs.On("ReadFile", paths.DeployTarget.DeployScriptPath).Return("SELECT 1;", nil)
	m.fs.On("WriteFile", paths.DeployTarget.DeployScriptPath, "-- 1.1.0.0 to 1.2.0.0\nSELECT 1;\n-- end").Return(nil).Once()

	sm := newScriptCreation(t, cfg, model.TriedToCreateDeploymentFiles)
	sm.Paths = paths
	sm.FormattedPreviousVersion = "1.1.0.0"
	sm.FormattedTargetVersion = "1.2.0.0"

	require.NoError(t, newModifyUnit(t, m).Work(context.Background(), sm))
	assert.Equal(t, model.ResultPending, sm.Result)
	assert.Equal(t, []string{"Modifying deployment script ..."}, m.logger.Lines())
	m.fs.AssertExpectations(t)
}

func TestModifyDeploymentScriptUnitFailingModifier(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultConfiguration()
	cfg.CustomHeader = "-- header"
	cfg.TrackDacpacVersion = true
	cfg.CustomFooter = "-- footer"

	m := newMocks()
	paths := scriptCreationPaths()
	m.fs.On("ReadFile", paths.DeployTarget.DeployScriptPath).Return("SELECT 1;", nil)
	m.fs.On("WriteFile", paths.DeployTarget.DeployScriptPath, "-- header\nSELECT 1;\n-- footer").Return(nil).Once()

	sm := newScriptCreation(t, cfg, model.TriedToCreateDeploymentFiles)
	sm.Paths = paths
	sm.FormattedTargetVersion = ""

	require.NoError(t, newModifyUnit(t, m).Work(context.Background(), sm))
	assert.Equal(t, model.ModifiedDeploymentScript, sm.CurrentState())
	assert.Equal(t, model.ResultFailed, sm.Result)
	assert.Equal(t, []string{
		"Modifying deployment script ...",
		"ERROR: Script modifier 'TrackDacpacVersion' failed.",
	}, m.logger.Lines())
	m.fs.AssertExpectations(t)
}
