package runner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// Command describes one subprocess invocation.
type Command struct {
	// Argv is the command and its arguments. Argv[0] is resolved via
	// PATH.
	Argv []string

	// Env holds extra KEY=VALUE pairs appended to the inherited
	// environment.
	Env []string

	// Dir is the working directory; empty means the current one.
	Dir string
}

// CommandExecutor runs commands, allowing tests to substitute a mock.
type CommandExecutor interface {
	// Run executes the command, invoking onLine for each line of
	// combined stdout/stderr output. It returns the command's error,
	// if any.
	Run(ctx context.Context, cmd Command, onLine func(string)) error
}

// RealExecutor executes commands on the host.
type RealExecutor struct{}

// Run executes the command and streams its combined output line by
// line.
func (e *RealExecutor) Run(ctx context.Context, command Command, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, command.Argv[0], command.Argv[1:]...)
	cmd.Dir = command.Dir
	if len(command.Env) > 0 {
		cmd.Env = append(os.Environ(), command.Env...)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// Keep draining so the child doesn't block on a full pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		return err
	}
	return scanErr
}

// ExitCode extracts the subprocess exit code from an error returned by
// Run. It returns 1 for errors that carry no exit status (such as a
// missing binary).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}
