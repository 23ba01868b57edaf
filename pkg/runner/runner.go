// Package runner executes provisioning plans sequentially and
// fail-fast: the first step to exit non-zero halts the whole run.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agroscheme/provision/pkg/plan"
)

// outputTailLines is how many trailing output lines a StepError keeps.
const outputTailLines = 20

// StepStatus is the outcome of one step.
type StepStatus string

const (
	StatusOK      StepStatus = "ok"
	StatusFailed  StepStatus = "failed"
	StatusSkipped StepStatus = "skipped"
)

// StepResult records the outcome of one executed step.
type StepResult struct {
	ID       string
	Name     string
	Status   StepStatus
	ExitCode int
	Duration time.Duration
}

// Result is the outcome of a full run. Steps after a failure are
// recorded as skipped.
type Result struct {
	Profile  string
	Steps    []StepResult
	Duration time.Duration
	Failed   *StepError // nil on success
}

// Success reports whether every step completed.
func (r *Result) Success() bool {
	return r.Failed == nil
}

// StepError reports a step whose subprocess exited non-zero.
type StepError struct {
	StepID   string
	StepName string
	ExitCode int
	Output   []string // trailing output lines from the failing step
	Err      error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed with exit code %d: %v", e.StepID, e.ExitCode, e.Err)
}

// Unwrap returns the underlying subprocess error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// BuiltinFunc implements a step that runs in-process rather than as a
// subprocess. Output lines go through onLine, matching command steps.
type BuiltinFunc func(ctx context.Context, onLine func(string)) error

// Runner executes plans.
type Runner struct {
	executor CommandExecutor
	builtins map[string]BuiltinFunc
}

// New creates a Runner backed by the real command executor.
func New() *Runner {
	return NewWithExecutor(&RealExecutor{})
}

// NewWithExecutor creates a Runner with a custom executor (for
// testing).
func NewWithExecutor(exec CommandExecutor) *Runner {
	return &Runner{
		executor: exec,
		builtins: make(map[string]BuiltinFunc),
	}
}

// RegisterBuiltin registers the implementation for a builtin step ID.
func (r *Runner) RegisterBuiltin(stepID string, fn BuiltinFunc) {
	r.builtins[stepID] = fn
}

// Run executes the plan's steps in order, stopping at the first
// failure. The returned Result is always non-nil; the error, when
// non-nil, is a *StepError for subprocess failures.
func (r *Runner) Run(ctx context.Context, p *plan.Plan, progress ProgressCallback) (*Result, error) {
	if progress == nil {
		progress = NoOpProgress
	}

	result := &Result{
		Profile: p.Profile,
		Steps:   make([]StepResult, 0, len(p.Steps)),
	}
	total := len(p.Steps)
	start := time.Now()

	for i, step := range p.Steps {
		ev := stepEvent(EventStepStarted, step.ID, step.Name, i+1, total)
		ev.Command = strings.Join(step.Command, " ")
		ev.Message = step.Name
		progress(ev)

		var tail []string
		stepStart := time.Now()
		err := r.runStep(ctx, step, func(line string) {
			tail = append(tail, line)
			if len(tail) > outputTailLines {
				tail = tail[1:]
			}
			out := stepEvent(EventStepOutput, step.ID, step.Name, i+1, total)
			out.Line = line
			progress(out)
		})
		elapsed := time.Since(stepStart)

		if err != nil {
			stepErr := &StepError{
				StepID:   step.ID,
				StepName: step.Name,
				ExitCode: ExitCode(err),
				Output:   tail,
				Err:      err,
			}
			result.Steps = append(result.Steps, StepResult{
				ID:       step.ID,
				Name:     step.Name,
				Status:   StatusFailed,
				ExitCode: stepErr.ExitCode,
				Duration: elapsed,
			})
			for _, skipped := range p.Steps[i+1:] {
				result.Steps = append(result.Steps, StepResult{
					ID:     skipped.ID,
					Name:   skipped.Name,
					Status: StatusSkipped,
				})
			}
			result.Failed = stepErr
			result.Duration = time.Since(start)

			fail := stepEvent(EventStepFailed, step.ID, step.Name, i+1, total)
			fail.Message = stepErr.Error()
			fail.IsError = true
			progress(fail)

			runFail := stepEvent(EventRunFailed, step.ID, step.Name, i+1, total)
			runFail.Message = fmt.Sprintf("provisioning halted at step %d/%d (%s)", i+1, total, step.ID)
			runFail.IsError = true
			progress(runFail)

			return result, stepErr
		}

		result.Steps = append(result.Steps, StepResult{
			ID:       step.ID,
			Name:     step.Name,
			Status:   StatusOK,
			Duration: elapsed,
		})

		done := stepEvent(EventStepDone, step.ID, step.Name, i+1, total)
		done.Message = step.Name
		progress(done)
	}

	result.Duration = time.Since(start)

	complete := stepEvent(EventRunComplete, "", "", total, total)
	complete.Message = fmt.Sprintf("provisioning complete (%d steps)", total)
	progress(complete)

	return result, nil
}

// runStep dispatches one step to its builtin or the executor.
func (r *Runner) runStep(ctx context.Context, step plan.Step, onLine func(string)) error {
	if step.Builtin {
		fn, ok := r.builtins[step.ID]
		if !ok {
			return fmt.Errorf("no builtin registered for step %q", step.ID)
		}
		return fn(ctx, onLine)
	}

	if len(step.Command) == 0 {
		return fmt.Errorf("step %q has no command", step.ID)
	}

	return r.executor.Run(ctx, Command{Argv: step.Command, Env: step.Env}, onLine)
}
