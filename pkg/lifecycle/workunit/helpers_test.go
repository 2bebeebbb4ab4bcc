package workunit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access/accesstest"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/modifier"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/workunit"
)

type mocks struct {
	logger   *accesstest.Logger
	fs       *accesstest.FileSystem
	projects *accesstest.ProjectService
	builder  *accesstest.BuildService
	dac      *accesstest.DacAccess
	versions *accesstest.VersionService
	notifier *accesstest.Notifier
}

func newMocks() *mocks {
	return &mocks{
		logger:   &accesstest.Logger{},
		fs:       &accesstest.FileSystem{},
		projects: &accesstest.ProjectService{},
		builder:  &accesstest.BuildService{},
		dac:      &accesstest.DacAccess{},
		versions: &accesstest.VersionService{},
		notifier: &accesstest.Notifier{},
	}
}

func (m *mocks) dependencies(t *testing.T) workunit.Dependencies {
	t.Helper()

	modifiers, err := modifier.NewFactory(m.dac, m.logger)
	require.NoError(t, err)

	return workunit.Dependencies{
		Logger:     m.logger,
		FileSystem: m.fs,
		Projects:   m.projects,
		Builder:    m.builder,
		Dac:        m.dac,
		Versions:   m.versions,
		Notifier:   m.notifier,
		Modifiers:  modifiers,
	}
}

// assertNoSideEffect checks that no collaborator was used.
func (m *mocks) assertNoSideEffect(t *testing.T) {
	t.Helper()

	require.Empty(t, m.logger.Lines())
	m.fs.AssertExpectations(t)
	require.Empty(t, m.fs.Calls)
	require.Empty(t, m.projects.Calls)
	require.Empty(t, m.builder.Calls)
	require.Empty(t, m.dac.Calls)
	require.Empty(t, m.versions.Calls)
	require.Empty(t, m.notifier.Calls)
}

func noProgress(context.Context, bool) error { return nil }

func newProject() *model.SqlProject {
	project := model.NewSqlProject("/src/Database/Database.sqlproj")
	project.Properties = model.ProjectProperties{
		SqlTargetName:   "Database",
		BinaryDirectory: "bin/Release",
		DacVersion:      model.MustParseVersion("1.2.0.0"),
	}

	return project
}

func newScaffolding(t *testing.T, cfg model.Configuration, at model.State) *model.ScaffoldingStateModel {
	t.Helper()

	target := model.MustParseVersion("1.2.0.0")
	m, err := model.NewScaffoldingStateModel(newProject(), &cfg, &target, noProgress)
	require.NoError(t, err)

	if at > model.Initialized {
		require.NoError(t, m.Advance(at))
	}

	return m
}

func newScriptCreation(t *testing.T, cfg model.Configuration, at model.State) *model.ScriptCreationStateModel {
	t.Helper()

	previous := model.MustParseVersion("1.1.0.0")
	m, err := model.NewScriptCreationStateModel(newProject(), &cfg, &previous, false, noProgress)
	require.NoError(t, err)

	if at > model.Initialized {
		require.NoError(t, m.Advance(at))
	}

	return m
}

func scriptCreationPaths() *model.PathCollection {
	return &model.PathCollection{
		Directories: model.DirectoryPaths{
			ProjectDirectory:         "/src/Database",
			LatestArtifactsDirectory: "/src/Database/_Deployment/latest",
			NewArtifactsDirectory:    "/src/Database/_Deployment/1.2.0.0",
		},
		DeploySource: model.DeploySourcePaths{
			NewDacpacPath:      "/src/Database/_Deployment/1.2.0.0/Database.dacpac",
			PublishProfilePath: "/src/Database/Database.publish.xml",
			PreviousDacpacPath: "/src/Database/_Deployment/1.1.0.0/Database.dacpac",
		},
		DeployTarget: model.DeployTargetPaths{
			DeployScriptPath: "/src/Database/_Deployment/1.2.0.0/Database_1.1.0.0_1.2.0.0.sql",
			DeployReportPath: "/src/Database/_Deployment/1.2.0.0/Database_1.1.0.0_1.2.0.0_DeployReport.xml",
		},
	}
}
