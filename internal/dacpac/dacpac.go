// Package dacpac compares database packages with sqlpackage and reads their model.
package dacpac

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// Package entries holding the deployment scripts and the schema model.
const (
	ModelEntry      = "model.xml"
	PreDeployEntry  = "predeploy.sql"
	PostDeployEntry = "postdeploy.sql"
)

var _ access.DacAccess = (*Access)(nil)

// Runner runs a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()

	return out.Bytes(), err
}

// Access implements access.DacAccess on top of the sqlpackage command line.
type Access struct {
	command string
	run     Runner
	tempDir string
}

type Option func(a *Access)

// WithCommand sets the sqlpackage executable.
func WithCommand(command string) Option {
	return func(a *Access) {
		a.command = command
	}
}

// WithRunner replaces the process runner.
func WithRunner(run Runner) Option {
	return func(a *Access) {
		a.run = run
	}
}

// WithTempDir sets where intermediate files are written.
func WithTempDir(dir string) Option {
	return func(a *Access) {
		a.tempDir = dir
	}
}

func New(opts ...Option) *Access {
	a := &Access{
		command: "sqlpackage",
		run:     execRunner,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// CreateDeployFiles generates the upgrade script and the deploy report from previousDacpacPath
// to newDacpacPath. Both are produced concurrently. Failures of sqlpackage are reported in
// DeployFiles.Errors, the returned error is kept for unexpected failures.
func (a *Access) CreateDeployFiles(ctx context.Context, previousDacpacPath, newDacpacPath, publishProfilePath string,
	createScript, createReport bool,
) (access.DeployFiles, error) {
	if previousDacpacPath == "" || newDacpacPath == "" {
		return access.DeployFiles{}, errors.Wrap(model.ErrInvalidArgument, "package paths must be set")
	}

	if !createScript && !createReport {
		return access.DeployFiles{}, errors.Wrap(model.ErrInvalidArgument, "nothing to create")
	}

	workDir, err := os.MkdirTemp(a.tempDir, "ssdtlifecycle-*")
	if err != nil {
		return access.DeployFiles{}, errors.Wrap(err, "unable to create work directory")
	}
	defer os.RemoveAll(workDir)

	var (
		files        access.DeployFiles
		scriptErrors []string
		reportErrors []string
	)

	g, gctx := errgroup.WithContext(ctx)

	if createScript {
		g.Go(func() error {
			var err error
			files.Script, scriptErrors, err = a.generate(gctx, "Script", workDir, previousDacpacPath, newDacpacPath, publishProfilePath)

			return err
		})
	}

	if createReport {
		g.Go(func() error {
			var err error
			files.Report, reportErrors, err = a.generate(gctx, "DeployReport", workDir, previousDacpacPath, newDacpacPath, publishProfilePath)

			return err
		})
	}

	err = g.Wait()
	if err != nil {
		return access.DeployFiles{}, err
	}

	files.Errors = append(scriptErrors, reportErrors...)
	if len(files.Errors) > 0 {
		return files, nil
	}

	files.PreDeploymentScript, files.PostDeploymentScript, err = readDeploymentScripts(newDacpacPath)
	if err != nil {
		return access.DeployFiles{}, err
	}

	return files, nil
}

func (a *Access) generate(ctx context.Context, action, workDir, previous, next, profile string) (string, []string, error) {
	output := filepath.Join(workDir, strings.ToLower(action))
	args := []string{
		"/Action:" + action,
		"/SourceFile:" + next,
		"/TargetFile:" + previous,
		"/OutputPath:" + output,
	}

	if profile != "" {
		args = append(args, "/Profile:"+profile)
	}

	out, err := a.run(ctx, a.command, args...)
	if err != nil {
		if ctx.Err() != nil {
			return "", nil, errors.Wrap(ctx.Err(), action)
		}

		return "", toolErrors(action, out, err), nil
	}

	content, err := os.ReadFile(output)
	if err != nil {
		return "", nil, errors.Wrapf(err, "%s produced no output", action)
	}

	return string(content), nil, nil
}

// toolErrors keeps the lines sqlpackage flags as errors, or the whole output when none is flagged.
func toolErrors(action string, out []byte, err error) []string {
	var res []string

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(strings.ToLower(line), "error") {
			res = append(res, line)
		}
	}

	if len(res) == 0 {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}

		res = append(res, action+": "+msg)
	}

	return res
}

func readDeploymentScripts(dacpacPath string) (string, string, error) {
	r, err := zip.OpenReader(dacpacPath)
	if err != nil {
		return "", "", errors.Wrapf(err, "unable to open %s", dacpacPath)
	}
	defer r.Close()

	pre, err := readEntry(&r.Reader, PreDeployEntry)
	if err != nil {
		return "", "", err
	}

	post, err := readEntry(&r.Reader, PostDeployEntry)
	if err != nil {
		return "", "", err
	}

	return pre, post, nil
}

// readEntry returns an empty string when the entry does not exist.
func readEntry(r *zip.Reader, name string) (string, error) {
	for _, f := range r.File {
		if !strings.EqualFold(f.Name, name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", errors.Wrapf(err, "unable to open %s", name)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return "", errors.Wrapf(err, "unable to read %s", name)
		}

		return string(content), nil
	}

	return "", nil
}
