package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agroscheme/provision/pkg/state"
	"github.com/agroscheme/provision/pkg/tui"
)

// newHistoryCmd creates the history subcommand
func newHistoryCmd() *cobra.Command {
	var last bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded provisioning runs",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runHistory(last)
		},
	}

	cmd.Flags().BoolVar(&last, "last", false, "Show only the most recent run")

	return cmd
}

// runHistory prints recorded runs, newest last.
func runHistory(last bool) error {
	store, err := state.NewStore()
	if err != nil {
		return err
	}

	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	if last {
		runs = runs[len(runs)-1:]
	}

	for _, run := range runs {
		outcome := tui.SuccessStyle.Render("ok")
		if !run.Success {
			outcome = tui.ErrorStyle.Render(fmt.Sprintf("failed at %s (exit %d)", run.FailedStep, run.ExitCode))
		}
		fmt.Printf("%s  %-7s %-8s %s\n",
			run.StartedAt.Format(time.RFC3339),
			run.Profile,
			fmt.Sprintf("%.1fs", float64(run.DurationMS)/1000),
			outcome,
		)
		if last {
			for _, step := range run.Steps {
				fmt.Printf("  %-20s %s\n", step.ID, step.Status)
			}
		}
	}

	return nil
}
