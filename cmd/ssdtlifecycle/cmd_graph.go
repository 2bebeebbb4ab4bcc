package main

import (
	"github.com/spf13/cobra"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/drawer"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/workunit"
)

func newGraphCmd() *cobra.Command {
	var flags struct {
		output string
	}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the stages of both workflows in DOT format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stages := make(map[model.WorkflowKind][]model.State)

			for _, kind := range workunit.Workflows() {
				s, err := workunit.Stages(kind)
				if err != nil {
					return err
				}

				stages[kind] = s
			}

			d := drawer.NewDOTDrawer()

			err := drawer.AddWorkflows(d, stages)
			if err != nil {
				return err
			}

			if flags.output == "" {
				return d.Draw(cmd.OutOrStdout())
			}

			return d.DrawFile(flags.output)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "DOT file to write, stdout when empty")

	return cmd
}
