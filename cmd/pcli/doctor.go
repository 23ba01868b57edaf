package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agroscheme/provision/pkg/doctor"
	"github.com/agroscheme/provision/pkg/plan"
	"github.com/agroscheme/provision/pkg/tui"
)

// newDoctorCmd creates the doctor subcommand
func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment for provisioning prerequisites",
		Long: `Check that the package managers and project files a provisioning run
depends on are present. Exits non-zero when something is missing or
broken.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDoctor(fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Run the fix command for missing dependencies")

	return cmd
}

// runDoctor runs all environment checks and prints the results.
func runDoctor(fix bool) error {
	settings := plan.DefaultSettings()

	checker := doctor.NewChecker()
	checker.SetManifestPath(settings.RequirementsPath)
	checker.SetUploadsDir(settings.UploadsDir)

	groups := checker.CheckAllAsync()

	for _, group := range groups {
		fmt.Println(tui.TitleStyle.Render(group.Name))
		for _, check := range group.Checks {
			var marker string
			switch check.Status {
			case doctor.StatusOK:
				marker = tui.SuccessStyle.Render("✓")
			case doctor.StatusWarning:
				marker = tui.WarningStyle.Render("!")
			default:
				marker = tui.ErrorStyle.Render("✗")
			}
			fmt.Printf(" %s %-24s %s\n", marker, check.Name, check.Message)
		}
		fmt.Println()
	}

	summary := checker.GetSummary(groups)
	fmt.Printf("%d checks: %d ok, %d missing, %d warnings, %d errors\n",
		summary.Total, summary.OK, summary.Missing, summary.Warnings, summary.Errors)

	if !checker.HasIssues(groups) {
		return nil
	}

	if fix {
		return runFixes(groups)
	}

	fmt.Println("\nRun with --fix to install missing dependencies.")
	return fmt.Errorf("environment checks failed")
}

// runFixes executes fix commands for every fixable failed check.
func runFixes(groups []doctor.CheckGroup) error {
	fixer := doctor.NewFixer()
	fixed := 0

	for _, group := range groups {
		for _, check := range group.Checks {
			if check.Status == doctor.StatusOK || check.FixCommand == nil {
				continue
			}
			fmt.Printf("Fixing %s: %s\n", check.Name, check.FixCommand.Description)
			if err := fixer.RunFix(check.FixCommand); err != nil {
				return fmt.Errorf("failed to fix %s: %w", check.Name, err)
			}
			fixed++
		}
	}

	if fixed == 0 {
		return fmt.Errorf("no automatic fix available; resolve the reported issues manually")
	}

	fmt.Printf("Applied %d fix(es); re-run doctor to verify.\n", fixed)
	return nil
}
