package runner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroscheme/provision/pkg/plan"
)

// MockExecutor is a scriptable command executor for testing.
type MockExecutor struct {
	// Calls records every executed argv.
	Calls [][]string

	// FailOn makes the command whose argv starts with this prefix
	// fail.
	FailOn string

	// Output lines emitted for every command.
	Output []string
}

func (m *MockExecutor) Run(_ context.Context, cmd Command, onLine func(string)) error {
	m.Calls = append(m.Calls, cmd.Argv)
	for _, line := range m.Output {
		onLine(line)
	}
	if m.FailOn != "" && strings.HasPrefix(strings.Join(cmd.Argv, " "), m.FailOn) {
		return errors.New("exit status 100")
	}
	return nil
}

func testPlan() *plan.Plan {
	return &plan.Plan{
		Profile: "web",
		Steps: []plan.Step{
			{ID: "apt-update", Name: "Refresh package index", Command: []string{"apt-get", "update"}},
			{ID: "apt-install", Name: "Install OS packages", Command: []string{"apt-get", "install", "-y", "gcc"}},
			{ID: "pip-bootstrap", Name: "Upgrade pip", Command: []string{"pip", "install", "--upgrade", "pip"}},
		},
	}
}

func TestRun_AllStepsSucceed(t *testing.T) {
	exec := &MockExecutor{}
	r := NewWithExecutor(exec)
	tracker := NewProgressTracker()

	result, err := r.Run(context.Background(), testPlan(), tracker.Callback())
	require.NoError(t, err)

	assert.True(t, result.Success())
	assert.Nil(t, result.Failed)
	require.Len(t, result.Steps, 3)
	for _, step := range result.Steps {
		assert.Equal(t, StatusOK, step.Status)
	}
	assert.Len(t, exec.Calls, 3)

	last := tracker.LastEvent()
	require.NotNil(t, last)
	assert.Equal(t, EventRunComplete, last.Kind)
	assert.False(t, tracker.HasErrors())
}

func TestRun_FailFast(t *testing.T) {
	exec := &MockExecutor{FailOn: "apt-get install"}
	r := NewWithExecutor(exec)
	tracker := NewProgressTracker()

	result, err := r.Run(context.Background(), testPlan(), tracker.Callback())
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "apt-install", stepErr.StepID)
	assert.Equal(t, 1, stepErr.ExitCode)

	// The failing step halts the run: pip never executes.
	assert.Len(t, exec.Calls, 2)

	require.Len(t, result.Steps, 3)
	assert.Equal(t, StatusOK, result.Steps[0].Status)
	assert.Equal(t, StatusFailed, result.Steps[1].Status)
	assert.Equal(t, StatusSkipped, result.Steps[2].Status)
	assert.False(t, result.Success())

	last := tracker.LastEvent()
	require.NotNil(t, last)
	assert.Equal(t, EventRunFailed, last.Kind)
	assert.True(t, tracker.HasErrors())
}

func TestRun_StepErrorKeepsOutputTail(t *testing.T) {
	exec := &MockExecutor{
		FailOn: "apt-get update",
		Output: []string{"Err:1 http://archive.ubuntu.com noble InRelease", "E: The repository is not signed"},
	}
	r := NewWithExecutor(exec)

	_, err := r.Run(context.Background(), testPlan(), NoOpProgress)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Contains(t, stepErr.Output, "E: The repository is not signed")
}

func TestRun_Builtin(t *testing.T) {
	p := &plan.Plan{
		Profile: "worker",
		Steps: []plan.Step{
			{ID: "uploads-dir", Name: "Create upload directory", Builtin: true},
		},
	}

	r := NewWithExecutor(&MockExecutor{})
	called := false
	r.RegisterBuiltin("uploads-dir", func(_ context.Context, onLine func(string)) error {
		called = true
		onLine("created uploads")
		return nil
	})

	tracker := NewProgressTracker()
	result, err := r.Run(context.Background(), p, tracker.Callback())
	require.NoError(t, err)

	assert.True(t, called)
	assert.True(t, result.Success())

	var sawOutput bool
	for _, e := range tracker.Events() {
		if e.Kind == EventStepOutput && e.Line == "created uploads" {
			sawOutput = true
		}
	}
	assert.True(t, sawOutput)
}

func TestRun_UnregisteredBuiltin(t *testing.T) {
	p := &plan.Plan{
		Steps: []plan.Step{
			{ID: "uploads-dir", Name: "Create upload directory", Builtin: true},
		},
	}

	r := NewWithExecutor(&MockExecutor{})
	_, err := r.Run(context.Background(), p, NoOpProgress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no builtin registered")
}

func TestRun_EmptyCommand(t *testing.T) {
	p := &plan.Plan{
		Steps: []plan.Step{
			{ID: "broken", Name: "Broken step"},
		},
	}

	r := NewWithExecutor(&MockExecutor{})
	_, err := r.Run(context.Background(), p, NoOpProgress)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "broken", stepErr.StepID)
}

// blockingExecutor blocks until its context is cancelled.
type blockingExecutor struct {
	started chan struct{}
}

func (b *blockingExecutor) Run(ctx context.Context, _ Command, _ func(string)) error {
	close(b.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestRun_CancelAbortsInFlightStep(t *testing.T) {
	started := make(chan struct{})
	r := NewWithExecutor(&blockingExecutor{started: started})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-started
		cancel()
	}()

	result, err := r.Run(ctx, testPlan(), NoOpProgress)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "apt-update", stepErr.StepID)

	require.Len(t, result.Steps, 3)
	assert.Equal(t, StatusFailed, result.Steps[0].Status)
	assert.Equal(t, StatusSkipped, result.Steps[1].Status)
	assert.Equal(t, StatusSkipped, result.Steps[2].Status)
	assert.False(t, result.Success())
}

func TestRun_IdempotentRerun(t *testing.T) {
	exec := &MockExecutor{}
	r := NewWithExecutor(exec)

	for i := 0; i < 2; i++ {
		result, err := r.Run(context.Background(), testPlan(), NoOpProgress)
		require.NoError(t, err)
		assert.True(t, result.Success())
	}
	assert.Len(t, exec.Calls, 6)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("command not found")))
}

func TestStepError_Unwrap(t *testing.T) {
	inner := errors.New("exit status 2")
	stepErr := &StepError{StepID: "apt-update", ExitCode: 2, Err: inner}

	assert.ErrorIs(t, stepErr, inner)
	assert.Contains(t, stepErr.Error(), "apt-update")
}
