package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askiada/go-ssdt-lifecycle/internal/config"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

func newInitCmd(_ *viper.Viper) *cobra.Command {
	var flags struct {
		force bool
	}

	cmd := &cobra.Command{
		Use:   "init <project.sqlproj>",
		Short: "Write the default configuration of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath, err := filepath.Abs(args[0])
			if err != nil {
				return errors.Wrapf(err, "invalid project path %s", args[0])
			}

			path := config.Path(projectPath)

			if _, err := os.Stat(path); err == nil && !flags.force {
				return errors.Errorf("%s already exists, use --force to overwrite it", path)
			}

			err = config.Save(projectPath, model.DefaultConfiguration())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite an existing configuration")

	return cmd
}
