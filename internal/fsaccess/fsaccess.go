// Package fsaccess implements the lifecycle file system on top of the operating system.
package fsaccess

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FileSystem reads and writes files directly on disk.
type FileSystem struct{}

func New() *FileSystem {
	return &FileSystem{}
}

func (*FileSystem) ReadFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to read %s", path)
	}

	return string(content), nil
}

// WriteFile writes to a temporary file next to path and renames it, so that readers
// never see a partially written file.
func (*FileSystem) WriteFile(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "unable to create temporary file for %s", path)
	}

	_, err = tmp.WriteString(content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(tmp.Name())

		return errors.Wrapf(err, "unable to write %s", path)
	}

	err = os.Chmod(tmp.Name(), filePerm)
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}

	if err != nil {
		_ = os.Remove(tmp.Name())

		return errors.Wrapf(err, "unable to replace %s", path)
	}

	return nil
}

func (*FileSystem) DeleteFile(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "unable to delete %s", path)
	}

	return nil
}

func (fs *FileSystem) CopyFile(source, destination string) error {
	src, err := os.Open(source)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", source)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return errors.Wrapf(err, "unable to read %s", source)
	}

	return fs.WriteFile(destination, string(content))
}

func (*FileSystem) EnsureDirectoryExists(path string) error {
	err := os.MkdirAll(path, dirPerm)
	if err != nil {
		return errors.Wrapf(err, "unable to create directory %s", path)
	}

	return nil
}

func (*FileSystem) ListDirectories(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrapf(err, "unable to list %s", path)
	}

	var dirs []string

	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}

	sort.Strings(dirs)

	return dirs, nil
}

func (*FileSystem) FileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

var _ access.FileSystem = (*FileSystem)(nil)
