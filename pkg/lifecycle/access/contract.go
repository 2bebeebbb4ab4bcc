// Package access declares the collaborators the lifecycle engine depends on.
package access

import (
	"context"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// Logger appends human readable lines to the run output.
// Failures are prefixed with "ERROR:".
type Logger interface {
	Log(ctx context.Context, message string)
}

// FileSystem gives access to the files and directories of a run.
type FileSystem interface {
	ReadFile(path string) (string, error)
	// WriteFile replaces the file content.
	WriteFile(path, content string) error
	// DeleteFile removes a file. A missing file is not an error.
	DeleteFile(path string) error
	CopyFile(source, destination string) error
	EnsureDirectoryExists(path string) error
	// ListDirectories returns the names of the sub-directories of path.
	ListDirectories(path string) ([]string, error)
	FileExists(path string) bool
}

// ProjectService reads the project file.
type ProjectService interface {
	// LoadProperties fills project.Properties.
	LoadProperties(ctx context.Context, project *model.SqlProject) error
}

// BuildService compiles a project into its package.
type BuildService interface {
	Build(ctx context.Context, project *model.SqlProject) error
}

// DeployFiles is the output of the deployment file generation.
type DeployFiles struct {
	Script               string
	Report               string
	PreDeploymentScript  string
	PostDeploymentScript string
	// Errors are reported by the generator itself.
	Errors []string
}

// DefaultConstraint describes a default constraint stored in a package.
// ConstraintName is empty for constraints created without a name.
type DefaultConstraint struct {
	TableSchema    string
	TableName      string
	ColumnName     string
	ConstraintName string
}

// DacAccess compares packages.
type DacAccess interface {
	CreateDeployFiles(ctx context.Context, previousDacpacPath, newDacpacPath, publishProfilePath string,
		createScript, createReport bool) (DeployFiles, error)
	// GetDefaultConstraints lists the default constraints of a package. The string slice holds
	// errors reported while reading the package.
	GetDefaultConstraints(ctx context.Context, dacpacPath string) ([]DefaultConstraint, []string, error)
}

// VersionService renders versions with a configured pattern.
type VersionService interface {
	Format(version model.Version, pattern string) string
}

// Notifier shows blocking messages to the user.
type Notifier interface {
	ShowError(ctx context.Context, message string)
}
