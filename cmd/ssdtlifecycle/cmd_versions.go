package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle"
)

func newVersionsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "versions <project.sqlproj>",
		Short: "List the versions already built for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(v, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			p, cfg, err := env.loadProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			versions, err := lifecycle.ExistingVersions(env.fs, p, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(versions) == 0 {
				fmt.Fprintf(out, "No version found in %s, run 'ssdtlifecycle scaffold' first.\n", lifecycle.ArtifactsDirectory(p, cfg))

				return nil
			}

			for _, ver := range versions {
				fmt.Fprintln(out, ver)
			}

			return nil
		},
	}
}
