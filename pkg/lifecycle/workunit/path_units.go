package workunit

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// LatestDirectoryName is the artifacts directory rebuilt by every script creation on the latest version.
const LatestDirectoryName = "latest"

// LoadPathsUnit computes the paths of every artifact of the run.
type LoadPathsUnit struct {
	logger access.Logger
}

func NewLoadPathsUnit(logger access.Logger) *LoadPathsUnit {
	return &LoadPathsUnit{logger: logger}
}

func (u *LoadPathsUnit) Work(ctx context.Context, m model.Model) error {
	b, err := stateModel(m)
	if err != nil {
		return err
	}

	targetName := b.Project.Properties.SqlTargetName
	if targetName == "" || b.FormattedTargetVersion == "" {
		u.logger.Log(ctx, fmt.Sprintf("ERROR: Cannot determine the artifact paths of project '%s'.", b.Project.Name))
		b.Result = model.ResultFailed

		return b.Advance(model.PathsLoaded)
	}

	projectDir := b.Project.Directory()
	artifactsDir := resolve(projectDir, b.Configuration.ArtifactsPath)
	newDirName := b.FormattedTargetVersion
	dacpacName := targetName + ".dacpac"

	sc, isScriptCreation := m.(*model.ScriptCreationStateModel)
	if isScriptCreation && sc.LatestVersion {
		newDirName = LatestDirectoryName
	}

	newDir := filepath.Join(artifactsDir, newDirName)
	paths := &model.PathCollection{
		Directories: model.DirectoryPaths{
			ProjectDirectory:         projectDir,
			LatestArtifactsDirectory: filepath.Join(artifactsDir, LatestDirectoryName),
			NewArtifactsDirectory:    newDir,
		},
		DeploySource: model.DeploySourcePaths{
			NewDacpacPath:      filepath.Join(newDir, dacpacName),
			PublishProfilePath: resolve(projectDir, b.Configuration.PublishProfilePath),
		},
	}

	if isScriptCreation {
		paths.DeploySource.PreviousDacpacPath = filepath.Join(artifactsDir, sc.FormattedPreviousVersion, dacpacName)
		baseName := fmt.Sprintf("%s_%s_%s", targetName, sc.FormattedPreviousVersion, newDirName)
		paths.DeployTarget = model.DeployTargetPaths{
			DeployScriptPath: filepath.Join(newDir, baseName+".sql"),
			DeployReportPath: filepath.Join(newDir, baseName+"_DeployReport.xml"),
		}
	}

	b.Paths = paths

	return b.Advance(model.PathsLoaded)
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(dir, path)
}

// VerifyPathsUnit checks that the inputs of the deployment file generation exist.
type VerifyPathsUnit struct {
	fs     access.FileSystem
	logger access.Logger
}

func NewVerifyPathsUnit(fs access.FileSystem, logger access.Logger) *VerifyPathsUnit {
	return &VerifyPathsUnit{fs: fs, logger: logger}
}

func (u *VerifyPathsUnit) Work(ctx context.Context, m model.Model) error {
	sc, err := scriptCreationModel(m)
	if err != nil {
		return err
	}

	paths, err := loadedPaths(&sc.StateModel)
	if err != nil {
		return err
	}

	u.logger.Log(ctx, "Verifying paths ...")

	if !u.fs.FileExists(paths.DeploySource.PreviousDacpacPath) {
		u.logger.Log(ctx, fmt.Sprintf("ERROR: Previous DACPAC not found at '%s'.", paths.DeploySource.PreviousDacpacPath))
		sc.Result = model.ResultFailed
	} else if !u.fs.FileExists(paths.DeploySource.PublishProfilePath) {
		u.logger.Log(ctx, fmt.Sprintf("ERROR: Publish profile not found at '%s'.", paths.DeploySource.PublishProfilePath))
		sc.Result = model.ResultFailed
	}

	return sc.Advance(model.PathsVerified)
}

// CopyBuildResultUnit copies the built package into the new artifacts directory.
type CopyBuildResultUnit struct {
	fs     access.FileSystem
	logger access.Logger
}

func NewCopyBuildResultUnit(fs access.FileSystem, logger access.Logger) *CopyBuildResultUnit {
	return &CopyBuildResultUnit{fs: fs, logger: logger}
}

func (u *CopyBuildResultUnit) Work(ctx context.Context, m model.Model) error {
	b, err := stateModel(m)
	if err != nil {
		return err
	}

	paths, err := loadedPaths(b)
	if err != nil {
		return err
	}

	u.logger.Log(ctx, "Copying files to target directory ...")

	binDir := resolve(paths.Directories.ProjectDirectory, b.Project.Properties.BinaryDirectory)
	source := filepath.Join(binDir, filepath.Base(paths.DeploySource.NewDacpacPath))

	err = u.fs.EnsureDirectoryExists(paths.Directories.NewArtifactsDirectory)
	if err == nil {
		err = u.fs.CopyFile(source, paths.DeploySource.NewDacpacPath)
	}

	if err != nil {
		u.logger.Log(ctx, "ERROR: Failed to copy build result: "+err.Error())
		b.Result = model.ResultFailed
	}

	return b.Advance(model.TriedToCopyBuildResult)
}

// CopyDacpacToSharedDacpacRepositoryUnit publishes the new package to the shared repository,
// when one is configured.
type CopyDacpacToSharedDacpacRepositoryUnit struct {
	fs     access.FileSystem
	logger access.Logger
}

func NewCopyDacpacToSharedDacpacRepositoryUnit(fs access.FileSystem, logger access.Logger) *CopyDacpacToSharedDacpacRepositoryUnit {
	return &CopyDacpacToSharedDacpacRepositoryUnit{fs: fs, logger: logger}
}

func (u *CopyDacpacToSharedDacpacRepositoryUnit) Work(ctx context.Context, m model.Model) error {
	b, err := stateModel(m)
	if err != nil {
		return err
	}

	repository := b.Configuration.SharedDacpacRepositoryPath
	if strings.TrimSpace(repository) == "" {
		return b.Advance(model.TriedToCopyDacpacToSharedDacpacRepository)
	}

	paths, err := loadedPaths(b)
	if err != nil {
		return err
	}

	u.logger.Log(ctx, "Copying DACPAC to shared DACPAC repository ...")

	source := paths.DeploySource.NewDacpacPath
	destination := filepath.Join(repository, filepath.Base(source))

	switch invalid := firstInvalidPath(repository, source, destination); {
	case invalid != "":
		u.logger.Log(ctx, fmt.Sprintf("ERROR: Failed to copy DACPAC to shared DACPAC repository: Illegal characters in path '%s'.", invalid))
		b.Result = model.ResultFailed
	default:
		err = u.fs.EnsureDirectoryExists(repository)
		if err != nil {
			u.logger.Log(ctx, fmt.Sprintf("ERROR: Failed to ensure that the directory '%s' exists: %v", repository, err))
			b.Result = model.ResultFailed

			break
		}

		err = u.fs.CopyFile(source, destination)
		if err != nil {
			u.logger.Log(ctx, "ERROR: Failed to copy DACPAC to shared DACPAC repository: "+err.Error())
			b.Result = model.ResultFailed
		}
	}

	return b.Advance(model.TriedToCopyDacpacToSharedDacpacRepository)
}

func firstInvalidPath(paths ...string) string {
	for _, p := range paths {
		if access.ContainsInvalidPathChars(p) {
			return p
		}
	}

	return ""
}

var (
	_ WorkUnit = (*LoadPathsUnit)(nil)
	_ WorkUnit = (*VerifyPathsUnit)(nil)
	_ WorkUnit = (*CopyBuildResultUnit)(nil)
	_ WorkUnit = (*CopyDacpacToSharedDacpacRepositoryUnit)(nil)
)
