package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askiada/go-ssdt-lifecycle/internal/history"
)

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	var flags struct {
		limit int
		run   string
	}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the previous runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newEnvironment(v, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()

			store, err := env.historyStore(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if flags.run != "" {
				id, err := uuid.Parse(flags.run)
				if err != nil {
					return errors.Wrapf(err, "invalid run id %q", flags.run)
				}

				run, err := store.GetRun(ctx, id)
				if err != nil {
					return errors.Wrapf(err, "run %s", id)
				}

				return printRun(out, run)
			}

			runs, err := store.ListRuns(ctx, flags.limit)
			if err != nil {
				return err
			}

			return printRuns(out, runs)
		},
	}

	cmd.Flags().IntVar(&flags.limit, "limit", 20, "Number of runs to show, 0 shows every run")
	cmd.Flags().StringVar(&flags.run, "run", "", "Show the stages of one run")

	return cmd
}

func status(run history.Run) string {
	if !run.Finished {
		return "unfinished"
	}

	return run.Result
}

func printRuns(out io.Writer, runs []history.Run) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tKIND\tVERSION\tRESULT\tELAPSED\tPROJECT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID, run.StartedAt.Format(time.RFC3339), run.Kind, run.Version, status(run),
			run.Elapsed.Round(time.Millisecond), run.Project)
	}

	return w.Flush()
}

func printRun(out io.Writer, run history.Run) error {
	fmt.Fprintf(out, "Run:     %s\n", run.ID)
	fmt.Fprintf(out, "Kind:    %s\n", run.Kind)
	fmt.Fprintf(out, "Project: %s\n", run.Project)
	fmt.Fprintf(out, "Version: %s\n", run.Version)
	fmt.Fprintf(out, "Result:  %s\n", status(run))
	fmt.Fprintf(out, "Elapsed: %s\n", run.Elapsed.Round(time.Millisecond))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tFROM\tTO\tELAPSED")

	for _, s := range run.Stages {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Position, s.From, s.To, s.Elapsed)
	}

	return w.Flush()
}
