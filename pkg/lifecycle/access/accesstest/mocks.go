// Package accesstest provides test doubles for the lifecycle collaborators.
package accesstest

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// Logger records every line.
type Logger struct {
	mu    sync.Mutex
	lines []string
}

func (l *Logger) Log(_ context.Context, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, message)
}

// Lines returns a copy of the recorded lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.lines...)
}

type FileSystem struct{ mock.Mock }

func (m *FileSystem) ReadFile(path string) (string, error) {
	args := m.Called(path)

	return args.String(0), args.Error(1)
}

func (m *FileSystem) WriteFile(path, content string) error {
	return m.Called(path, content).Error(0)
}

func (m *FileSystem) DeleteFile(path string) error {
	return m.Called(path).Error(0)
}

func (m *FileSystem) CopyFile(source, destination string) error {
	return m.Called(source, destination).Error(0)
}

func (m *FileSystem) EnsureDirectoryExists(path string) error {
	return m.Called(path).Error(0)
}

func (m *FileSystem) ListDirectories(path string) ([]string, error) {
	args := m.Called(path)
	if dirs := args.Get(0); dirs != nil {
		return dirs.([]string), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *FileSystem) FileExists(path string) bool {
	return m.Called(path).Bool(0)
}

type ProjectService struct{ mock.Mock }

func (m *ProjectService) LoadProperties(ctx context.Context, project *model.SqlProject) error {
	return m.Called(ctx, project).Error(0)
}

type BuildService struct{ mock.Mock }

func (m *BuildService) Build(ctx context.Context, project *model.SqlProject) error {
	return m.Called(ctx, project).Error(0)
}

type DacAccess struct{ mock.Mock }

func (m *DacAccess) CreateDeployFiles(ctx context.Context, previousDacpacPath, newDacpacPath, publishProfilePath string,
	createScript, createReport bool,
) (access.DeployFiles, error) {
	args := m.Called(ctx, previousDacpacPath, newDacpacPath, publishProfilePath, createScript, createReport)

	return args.Get(0).(access.DeployFiles), args.Error(1)
}

func (m *DacAccess) GetDefaultConstraints(ctx context.Context, dacpacPath string) ([]access.DefaultConstraint, []string, error) {
	args := m.Called(ctx, dacpacPath)

	var (
		constraints []access.DefaultConstraint
		errs        []string
	)

	if c := args.Get(0); c != nil {
		constraints = c.([]access.DefaultConstraint)
	}

	if e := args.Get(1); e != nil {
		errs = e.([]string)
	}

	return constraints, errs, args.Error(2)
}

type VersionService struct{ mock.Mock }

func (m *VersionService) Format(version model.Version, pattern string) string {
	return m.Called(version, pattern).String(0)
}

type Notifier struct{ mock.Mock }

func (m *Notifier) ShowError(ctx context.Context, message string) {
	m.Called(ctx, message)
}

var (
	_ access.Logger         = (*Logger)(nil)
	_ access.FileSystem     = (*FileSystem)(nil)
	_ access.ProjectService = (*ProjectService)(nil)
	_ access.BuildService   = (*BuildService)(nil)
	_ access.DacAccess      = (*DacAccess)(nil)
	_ access.VersionService = (*VersionService)(nil)
	_ access.Notifier       = (*Notifier)(nil)
)
