package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-ssdt-lifecycle/internal/config"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	project := filepath.Join(t.TempDir(), "Database.sqlproj")
	path := config.Path(project)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return project
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewLoader(config.WithoutEnv()).Load(filepath.Join(t.TempDir(), "Database.sqlproj"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfiguration(), cfg)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	project := writeConfig(t, `{
  "ArtifactsPath": "_Artifacts",
  "VersionPattern": "{MAJOR}.{MINOR}.0",
  "TrackDacpacVersion": true,
  "BuildBeforeScriptCreation": false,
  "CustomHeader": "-- {NEXT_VERSION}",
  "SharedDacpacRepositoryPath": "/srv/shared"
}`)

	cfg, err := config.NewLoader(config.WithoutEnv()).Load(project)
	require.NoError(t, err)
	assert.Equal(t, "_Artifacts", cfg.ArtifactsPath)
	assert.Equal(t, "Database.publish.xml", cfg.PublishProfilePath)
	assert.Equal(t, "{MAJOR}.{MINOR}.0", cfg.VersionPattern)
	assert.True(t, cfg.TrackDacpacVersion)
	assert.False(t, cfg.BuildBeforeScriptCreation)
	assert.True(t, cfg.CreateDocumentationWithScriptCreation)
	assert.Equal(t, "-- {NEXT_VERSION}", cfg.CustomHeader)
	assert.Equal(t, "/srv/shared", cfg.SharedDacpacRepositoryPath)
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	project := writeConfig(t, `{"CommentOutUnnamedDefaultConstraintDrops": true, "ReplaceUnnamedDefaultConstraintDrops": true}`)

	_, err := config.NewLoader(config.WithoutEnv()).Load(project)
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)

	project = writeConfig(t, `{not json`)
	_, err = config.NewLoader(config.WithoutEnv()).Load(project)
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	t.Parallel()

	project := filepath.Join(t.TempDir(), "Database.sqlproj")
	cfg := model.DefaultConfiguration()
	cfg.ReplaceUnnamedDefaultConstraintDrops = true
	cfg.CustomFooter = "-- end"

	require.NoError(t, config.Save(project, cfg))

	got, err := config.NewLoader(config.WithoutEnv()).Load(project)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	cfg.CommentOutUnnamedDefaultConstraintDrops = true
	assert.ErrorIs(t, config.Save(project, cfg), model.ErrInvalidConfiguration)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SSDTLC_ARTIFACTSPATH", "/from/env")

	cfg, err := config.NewLoader().Load(filepath.Join(t.TempDir(), "Database.sqlproj"))
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.ArtifactsPath)
}
