package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/askiada/go-ssdt-lifecycle/internal/history"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/drawer"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/measure"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// errRunFailed is returned when a run stopped on a failing unit. The reason is already in the output.
var errRunFailed = errors.New("run failed, see the output above")

type runFlags struct {
	graph string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.graph, "graph", "", "Write the stages reached by the run, with their durations, to this DOT file")
}

// runOptions builds the options observing a run. The measure goes first so that the drawer sees
// the last stage measured.
func (e *environment) runOptions(ctx context.Context, flags runFlags) ([]model.RunOption, error) {
	store, err := e.historyStore(ctx)
	if err != nil {
		return nil, err
	}

	msr := measure.NewDefaultMeasure()
	opts := []model.RunOption{measure.RunMeasure(msr), history.Recorder(store)}

	if flags.graph != "" {
		opts = append(opts, drawer.RunDrawer(drawer.NewDOTDrawer(), msr, flags.graph))
	}

	return opts, nil
}

func (e *environment) run(ctx context.Context, flags runFlags, start func(svc *lifecycle.Service) (model.Result, error)) error {
	opts, err := e.runOptions(ctx, flags)
	if err != nil {
		return err
	}

	svc, err := e.service(opts...)
	if err != nil {
		return err
	}

	res, err := start(svc)
	if err != nil {
		return err
	}

	e.zl.Info("run stopped", zap.Stringer("result", res))

	if res == model.ResultFailed {
		return errRunFailed
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return nil
}

func newScaffoldCmd(v *viper.Viper) *cobra.Command {
	var flags struct {
		runFlags
		version string
	}

	cmd := &cobra.Command{
		Use:   "scaffold <project.sqlproj>",
		Short: "Build the first version of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := model.ParseVersion(flags.version)
			if err != nil {
				return errors.Wrap(err, "invalid --version")
			}

			env, err := newEnvironment(v, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()

			p, cfg, err := env.loadProject(ctx, args[0])
			if err != nil {
				return err
			}

			return env.run(ctx, flags.runFlags, func(svc *lifecycle.Service) (model.Result, error) {
				return svc.Scaffold(ctx, p, cfg, target, env.progress)
			})
		},
	}

	cmd.Flags().StringVar(&flags.version, "version", "", "Version to scaffold, it must match the DacVersion of the project")
	_ = cmd.MarkFlagRequired("version")
	flags.register(cmd)

	return cmd
}

func newCreateCmd(v *viper.Viper) *cobra.Command {
	var flags struct {
		runFlags
		previous string
		latest   bool
	}

	cmd := &cobra.Command{
		Use:   "create <project.sqlproj>",
		Short: "Create the upgrade script from a previous version",
		Long: "Create the upgrade script from a previous version to the current version of the project.\n" +
			"The previous version defaults to the highest version found in the artifacts directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(v, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()

			p, cfg, err := env.loadProject(ctx, args[0])
			if err != nil {
				return err
			}

			previous, err := previousVersion(env, p, cfg, flags.previous)
			if err != nil {
				return err
			}

			return env.run(ctx, flags.runFlags, func(svc *lifecycle.Service) (model.Result, error) {
				return svc.CreateScript(ctx, p, cfg, previous, flags.latest, env.progress)
			})
		},
	}

	cmd.Flags().StringVar(&flags.previous, "previous", "", "Version the script upgrades from")
	cmd.Flags().BoolVar(&flags.latest, "latest", false, "Write the artifacts to the latest directory instead of the versioned one")
	flags.register(cmd)

	return cmd
}

func previousVersion(env *environment, p *model.SqlProject, cfg model.Configuration, requested string) (model.Version, error) {
	if requested != "" {
		v, err := model.ParseVersion(requested)
		if err != nil {
			return model.Version{}, errors.Wrap(err, "invalid --previous")
		}

		return v, nil
	}

	versions, err := lifecycle.ExistingVersions(env.fs, p, cfg)
	if err != nil {
		return model.Version{}, err
	}

	if len(versions) == 0 {
		return model.Version{}, errors.Errorf("no version found in %s, scaffold the project first",
			lifecycle.ArtifactsDirectory(p, cfg))
	}

	return versions[len(versions)-1], nil
}
