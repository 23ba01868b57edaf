package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agroscheme/provision/pkg/manifest"
	"github.com/agroscheme/provision/pkg/plan"
)

// newPlanCmd creates the plan subcommand
func newPlanCmd() *cobra.Command {
	var profile, planFile string
	var checkManifest bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the resolved provisioning steps",
		Long: `Resolve and print the provisioning plan for the selected profile
without executing anything.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlanCmd(profile, cmd.Flags().Changed("profile"), planFile, checkManifest)
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", plan.ProfileWeb, "Provisioning profile (web or worker)")
	cmd.Flags().StringVar(&planFile, "plan", "", "Plan override file (defaults to ./provision.yaml when present)")
	cmd.Flags().BoolVar(&checkManifest, "check-manifest", false, "Also parse and validate the requirements manifest")

	return cmd
}

// runPlanCmd prints the resolved plan.
func runPlanCmd(profile string, profileSet bool, planFile string, checkManifest bool) error {
	p, settings, err := resolvePlan(profile, profileSet, planFile)
	if err != nil {
		return err
	}

	fmt.Printf("Profile: %s (%d steps)\n\n", p.Profile, len(p.Steps))
	for i, step := range p.Steps {
		fmt.Printf("%d. %s (%s)\n", i+1, step.Name, step.ID)
		if len(step.Command) > 0 {
			fmt.Printf("   $ %s\n", strings.Join(step.Command, " "))
		}
		if len(step.Env) > 0 {
			fmt.Printf("   env: %s\n", strings.Join(step.Env, " "))
		}
	}

	if !checkManifest {
		return nil
	}

	fmt.Printf("\nManifest: %s\n", settings.RequirementsPath)
	reqs, err := manifest.ParseFile(settings.RequirementsPath)
	if err != nil {
		return err
	}
	fmt.Printf("  %d requirements\n", len(reqs))

	issues := manifest.Validate(reqs)
	for _, issue := range issues {
		fmt.Printf("  [%s] %s (line %d): %s\n", strings.ToUpper(string(issue.Severity)), issue.Name, issue.Line, issue.Message)
	}
	if manifest.HasErrors(issues) {
		return fmt.Errorf("manifest validation failed")
	}
	if len(issues) == 0 {
		fmt.Println("  manifest is clean")
	}

	return nil
}
