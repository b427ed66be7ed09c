package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// defaultWaitDelay bounds how long Execute waits for output pipes to close
// once a timed command has exited or been killed. Grandchildren that inherited
// the pipes would otherwise keep the worker blocked past its timeout.
const defaultWaitDelay = 5 * time.Second

// Command describes one external test invocation.
type Command struct {
	Dir        string // Working directory, the package root
	Executable string
	Args       []string
	Timeout    time.Duration // Zero means no limit
}

// String renders the command line for diagnostics.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Executable
	}
	return c.Executable + " " + strings.Join(c.Args, " ")
}

// Execution is the outcome of running a Command.
type Execution struct {
	ExitCode int    // -1 when the process never exited normally
	Output   string // Combined stdout and stderr
	Err      error  // Set only when the process could not be started
	TimedOut bool
	Duration time.Duration
}

// Executor runs external test commands.
type Executor interface {
	Execute(ctx context.Context, cmd Command) Execution
}

// CommandExecutor runs commands as subprocesses.
type CommandExecutor struct {
	// WaitDelay applies only to commands with a Timeout. Commands without one
	// wait for their output pipes to close, however long that takes.
	WaitDelay time.Duration
}

// NewCommandExecutor creates an executor backed by os/exec.
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{WaitDelay: defaultWaitDelay}
}

// Execute runs cmd to completion and captures its combined output.
// A non-zero exit status is reported through ExitCode, never through Err.
func (e *CommandExecutor) Execute(ctx context.Context, c Command) Execution {
	start := time.Now()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Executable, c.Args...)
	cmd.Dir = c.Dir
	if c.Timeout > 0 {
		cmd.WaitDelay = e.WaitDelay
	}

	// exec serializes writes when Stdout and Stderr are the same writer.
	var captured bytes.Buffer
	cmd.Stdout = &captured
	cmd.Stderr = &captured

	err := cmd.Run()
	result := Execution{
		Output:   captured.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.Is(err, exec.ErrWaitDelay):
		// The command exited successfully; only a leftover child kept the pipes open.
		result.ExitCode = cmd.ProcessState.ExitCode()
	case c.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.ExitCode = -1
		result.TimedOut = true
		result.Output = appendLine(result.Output, fmt.Sprintf("partest: killed after timeout of %s", c.Timeout))
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
		result.Err = err
		result.Output = appendLine(result.Output, err.Error())
	}

	return result
}

func appendLine(s, line string) string {
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s + line + "\n"
}
