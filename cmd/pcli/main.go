// Package main provides the pcli CLI tool for provisioning AgroScheme
// build hosts.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/agroscheme/provision/pkg/runner"
)

// version is set via -ldflags during build
var version = "dev"

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		// A failed step forwards the subprocess exit code, matching
		// fail-fast shell behavior.
		var stepErr *runner.StepError
		if errors.As(err, &stepErr) && stepErr.ExitCode > 0 {
			os.Exit(stepErr.ExitCode)
		}
		os.Exit(1)
	}
}

// newRootCmd creates the root command for pcli
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pcli",
		Short: "AgroScheme build host provisioner",
		Long: `pcli provisions build hosts for the AgroScheme backend: OS packages,
the Python build toolchain, pinned binary wheels, the requirements
manifest, and the upload directory.

Steps run strictly in order and the first failure halts the run.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newPlanCmd(),
		newDoctorCmd(),
		newInitUploadsCmd(),
		newHistoryCmd(),
	)

	return rootCmd
}
