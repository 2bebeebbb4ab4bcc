package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/askiada/go-ssdt-lifecycle/internal/config"
	"github.com/askiada/go-ssdt-lifecycle/internal/dacpac"
	"github.com/askiada/go-ssdt-lifecycle/internal/fsaccess"
	"github.com/askiada/go-ssdt-lifecycle/internal/history"
	"github.com/askiada/go-ssdt-lifecycle/internal/history/memory"
	"github.com/askiada/go-ssdt-lifecycle/internal/history/sqlstore"
	"github.com/askiada/go-ssdt-lifecycle/internal/logging"
	"github.com/askiada/go-ssdt-lifecycle/internal/project"
	ssdtversion "github.com/askiada/go-ssdt-lifecycle/internal/version"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/modifier"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/workunit"
)

// environment holds the collaborators of one command.
type environment struct {
	settings *viper.Viper
	zl       *zap.Logger
	output   *logging.OutputLogger
	errOut   io.Writer
	fs       *fsaccess.FileSystem
	history  history.Store
	closers  []io.Closer
}

func newEnvironment(settings *viper.Viper, out, errOut io.Writer) (*environment, error) {
	zl, err := logging.New(settings.GetString(keyLogLevel), settings.GetBool(keyDevelopment))
	if err != nil {
		return nil, err
	}

	return &environment{
		settings: settings,
		zl:       zl,
		output:   logging.NewOutputLogger(out, zl),
		errOut:   errOut,
		fs:       fsaccess.New(),
	}, nil
}

func (e *environment) Close() {
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			e.zl.Warn("unable to close resource", zap.Error(err))
		}
	}

	_ = e.zl.Sync()
}

// historyStore opens the run history. It is kept in memory when persistence is disabled.
func (e *environment) historyStore(ctx context.Context) (history.Store, error) {
	if e.history != nil {
		return e.history, nil
	}

	if e.settings.GetBool(keyNoHistory) {
		e.history = memory.New()

		return e.history, nil
	}

	driver := e.settings.GetString(keyHistoryDriver)
	dsn := e.settings.GetString(keyHistoryDSN)

	if dsn == "" {
		if driver != "sqlite3" {
			return nil, errors.Errorf("--%s is required for the %s driver", keyHistoryDSN, driver)
		}

		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "unable to locate the user config directory")
		}

		dir = filepath.Join(dir, "ssdtlifecycle")

		err = os.MkdirAll(dir, 0o755)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to create %s", dir)
		}

		dsn = filepath.Join(dir, "history.db")
	}

	store, err := sqlstore.Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}

	e.zl.Debug("run history opened", zap.String("driver", driver))
	e.closers = append(e.closers, store)
	e.history = store

	return store, nil
}

// loadProject reads the project file and its lifecycle configuration.
func (e *environment) loadProject(ctx context.Context, path string) (*model.SqlProject, model.Configuration, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, model.Configuration{}, errors.Wrapf(err, "invalid project path %s", path)
	}

	p := model.NewSqlProject(abs)

	var opts []config.Option
	if e.settings.GetBool(keyIgnoreEnv) {
		opts = append(opts, config.WithoutEnv())
	}

	loader := config.NewLoader(opts...)

	var cfg model.Configuration

	if file := e.settings.GetString(keyConfigFile); file != "" {
		cfg, err = loader.LoadFile(file)
	} else {
		cfg, err = loader.Load(abs)
	}

	if err != nil {
		return nil, model.Configuration{}, err
	}

	e.zl.Debug("configuration loaded", zap.String("project", abs), zap.Strings("modifiers", modifierNames(cfg)))

	return p, cfg, nil
}

func modifierNames(cfg model.Configuration) []string {
	kinds := modifier.Enabled(cfg)
	names := make([]string, 0, len(kinds))

	for _, k := range kinds {
		names = append(names, k.String())
	}

	return names
}

// service wires the lifecycle engine with the host collaborators.
func (e *environment) service(opts ...model.RunOption) (*lifecycle.Service, error) {
	dac := dacpac.New(dacpac.WithCommand(e.settings.GetString(keySqlPackage)))

	modifiers, err := modifier.NewFactory(dac, e.output)
	if err != nil {
		return nil, err
	}

	factory, err := workunit.NewFactory(workunit.Dependencies{
		Logger:     e.output,
		FileSystem: e.fs,
		Projects:   project.NewReader(e.settings.GetString(keyBuildConfig)),
		Builder:    project.NewBuilder(e.settings.GetString(keyBuildCommand), e.settings.GetString(keyBuildConfig)),
		Dac:        dac,
		Versions:   ssdtversion.New(),
		Notifier:   &notifier{zl: e.zl, out: e.errOut},
		Modifiers:  modifiers,
	})
	if err != nil {
		return nil, err
	}

	return lifecycle.New(factory, e.output, opts...)
}

// progress mirrors the work in progress flag to the diagnostic log.
func (e *environment) progress(_ context.Context, inProgress bool) error {
	e.zl.Debug("work in progress", zap.Bool("in_progress", inProgress))

	return nil
}
