package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/agroscheme/provision/pkg/manifest"
	"github.com/agroscheme/provision/pkg/plan"
	"github.com/agroscheme/provision/pkg/runner"
	"github.com/agroscheme/provision/pkg/state"
	"github.com/agroscheme/provision/pkg/tui"
	"github.com/agroscheme/provision/pkg/uploads"
)

// newRunCmd creates the run subcommand
func newRunCmd() *cobra.Command {
	var profile, planFile string
	var plain bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the provisioning plan",
		Long: `Execute the provisioning plan for the selected profile.

Steps run sequentially and fail-fast: the first step whose command
exits non-zero halts the run, and pcli exits with that step's exit
code. Re-running after success is safe; every step is idempotent.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProvision(profile, cmd.Flags().Changed("profile"), planFile, plain)
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", plan.ProfileWeb, "Provisioning profile (web or worker)")
	cmd.Flags().StringVar(&planFile, "plan", "", "Plan override file (defaults to ./provision.yaml when present)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Stream plain output instead of the interactive view")

	return cmd
}

// resolvePlan builds the plan from defaults, the optional plan file,
// and the profile flag. An explicitly passed --profile always beats the
// plan file's profile field, even when it names the default.
func resolvePlan(profile string, profileSet bool, planFile string) (*plan.Plan, plan.Settings, error) {
	settings := plan.DefaultSettings()

	if planFile == "" {
		if _, err := os.Stat(plan.DefaultFileName); err == nil {
			planFile = plan.DefaultFileName
		}
	}

	if planFile != "" {
		f, err := plan.LoadFile(planFile)
		if err != nil {
			return nil, settings, err
		}
		settings = f.Apply(settings)
		if f.Profile != "" && !profileSet {
			profile = f.Profile
		}
	}

	p, err := plan.ForProfile(profile, settings)
	if err != nil {
		return nil, settings, err
	}
	return p, settings, nil
}

// newRunner wires the builtin steps into a runner.
func newRunner(settings plan.Settings) *runner.Runner {
	r := runner.New()
	r.RegisterBuiltin(plan.StepUploadsDir, func(_ context.Context, onLine func(string)) error {
		result, err := uploads.Bootstrap(settings.UploadsDir)
		if err != nil {
			return err
		}
		for _, path := range result.Created {
			onLine("created " + path)
		}
		if len(result.Created) == 0 {
			onLine(settings.UploadsDir + " already initialized")
		}
		return nil
	})
	return r
}

// runProvision executes the full provisioning run.
func runProvision(profile string, profileSet bool, planFile string, plain bool) error {
	p, settings, err := resolvePlan(profile, profileSet, planFile)
	if err != nil {
		return err
	}

	if p.Step(plan.StepPipRequirements) != nil {
		if err := validateManifest(settings.RequirementsPath); err != nil {
			return err
		}
	}

	r := newRunner(settings)
	started := time.Now()

	var result *runner.Result
	var runErr error
	if plain || !stdoutIsTerminal() {
		result, runErr = runPlain(r, p)
	} else {
		result, runErr = runInteractive(r, p)
	}

	if result != nil {
		recordRun(p.Profile, started, result)
	}
	return runErr
}

// validateManifest parses and validates the requirements manifest
// before any pip install touches it. Warnings go to stderr; errors
// fail the run.
func validateManifest(path string) error {
	reqs, err := manifest.ParseFile(path)
	if err != nil {
		return fmt.Errorf("requirements manifest: %w", err)
	}

	issues := manifest.Validate(reqs)
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s (line %d): %s\n", issue.Severity, issue.Name, issue.Line, issue.Message)
	}
	if manifest.HasErrors(issues) {
		return fmt.Errorf("requirements manifest %s failed validation", path)
	}
	return nil
}

// runPlain streams progress as plain text.
func runPlain(r *runner.Runner, p *plan.Plan) (*runner.Result, error) {
	return r.Run(context.Background(), p, func(e runner.ProgressEvent) {
		switch e.Kind {
		case runner.EventStepStarted:
			fmt.Printf("[%d/%d] %s\n", e.Index, e.Total, e.StepName)
			if e.Command != "" {
				fmt.Printf("  $ %s\n", e.Command)
			}
		case runner.EventStepOutput:
			fmt.Printf("  %s\n", e.Line)
		case runner.EventStepFailed, runner.EventRunFailed:
			fmt.Fprintln(os.Stderr, e.Message)
		case runner.EventRunComplete:
			fmt.Println(e.Message)
		}
	})
}

// runInteractive drives the bubbletea run view while the runner works
// in its own goroutine. Leaving the view early cancels the run and
// waits for the in-flight step to terminate.
func runInteractive(r *runner.Runner, p *plan.Plan) (*runner.Result, error) {
	model := tui.NewRunModel(p)
	program := tea.NewProgram(model)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type outcome struct {
		result *runner.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := r.Run(ctx, p, func(e runner.ProgressEvent) {
			program.Send(tui.ProgressMsg(e))
		})
		done <- outcome{result, err}
		program.Send(tui.RunDoneMsg{Result: result, Err: err})
	}()

	finalModel, err := program.Run()
	if err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("failed to run interactive view: %w", err)
	}

	final := finalModel.(*tui.RunModel)
	if final.Interrupted() {
		cancel()
		out := <-done
		if out.err == nil {
			return out.result, nil
		}
		return out.result, fmt.Errorf("provisioning interrupted: %w", out.err)
	}
	return final.Result(), final.Err()
}

// recordRun appends the run to history; history failures don't change
// the run outcome.
func recordRun(profile string, started time.Time, result *runner.Result) {
	store, err := state.NewStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open run history: %v\n", err)
		return
	}

	run := state.Run{
		Profile:    profile,
		StartedAt:  started,
		DurationMS: result.Duration.Milliseconds(),
		Success:    result.Success(),
	}
	if result.Failed != nil {
		run.FailedStep = result.Failed.StepID
		run.ExitCode = result.Failed.ExitCode
	}
	for _, step := range result.Steps {
		run.Steps = append(run.Steps, state.StepRecord{
			ID:         step.ID,
			Name:       step.Name,
			Status:     string(step.Status),
			ExitCode:   step.ExitCode,
			DurationMS: step.Duration.Milliseconds(),
		})
	}

	if _, err := store.Append(run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
	}
}

// stdoutIsTerminal reports whether stdout is attached to a terminal.
func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
