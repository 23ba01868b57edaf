package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agroscheme/provision/pkg/plan"
	"github.com/agroscheme/provision/pkg/uploads"
)

// newInitUploadsCmd creates the init-uploads subcommand
func newInitUploadsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "init-uploads",
		Short: "Create the upload directory structure",
		Long: `Create the upload directory structure (root, temp, trash, system)
with its README and .gitignore. Safe to re-run; existing files are
left untouched.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInitUploads(dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Upload directory (defaults to ./uploads)")

	return cmd
}

// runInitUploads bootstraps the upload directory and reports what was
// created.
func runInitUploads(dir string) error {
	if dir == "" {
		dir = plan.DefaultSettings().UploadsDir
	}

	result, err := uploads.Bootstrap(dir)
	if err != nil {
		return fmt.Errorf("failed to initialize uploads: %w", err)
	}

	for _, path := range result.Created {
		fmt.Printf("created %s\n", path)
	}
	if len(result.Created) == 0 {
		fmt.Printf("%s already initialized (%d entries)\n", dir, len(result.Existing))
	} else {
		fmt.Printf("\nUploads directory initialized at %s\n", dir)
	}

	return nil
}
