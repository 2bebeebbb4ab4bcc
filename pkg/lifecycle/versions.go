package lifecycle

import (
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// ArtifactsDirectory returns the directory holding the artifacts of every version of project.
func ArtifactsDirectory(project *model.SqlProject, cfg model.Configuration) string {
	if filepath.IsAbs(cfg.ArtifactsPath) {
		return filepath.Clean(cfg.ArtifactsPath)
	}

	return filepath.Join(project.Directory(), cfg.ArtifactsPath)
}

// ExistingVersions lists the versions already produced for project, lowest first.
// Directories whose name is not a version, such as latest, are ignored. No version means the
// project has to be scaffolded before a script can be created.
func ExistingVersions(fs access.FileSystem, project *model.SqlProject, cfg model.Configuration) ([]model.Version, error) {
	if fs == nil || project == nil {
		return nil, errors.Wrap(model.ErrInvalidArgument, "file system and project must be set")
	}

	dir := ArtifactsDirectory(project, cfg)

	names, err := fs.ListDirectories(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list %s", dir)
	}

	var versions []model.Version

	for _, name := range names {
		v, err := model.ParseVersion(name)
		if err != nil {
			continue
		}

		versions = append(versions, v)
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Compare(versions[j]) < 0
	})

	return versions, nil
}
