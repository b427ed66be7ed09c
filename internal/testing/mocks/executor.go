// Package mocks provides shared test doubles for partest packages.
package mocks

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AndreyAkinshin/partest/internal/runner"
)

// Executor implements runner.Executor for testing.
// Use NewExecutor() to create instances with a fluent builder API.
//
// Without configuration every command passes with empty output. Outcomes are
// keyed by a slash-separated suffix of the command's working directory, so
// "apps/chat" matches /tmp/x/apps/chat.
type Executor struct {
	exitCodes map[string]int
	outputs   map[string]string
	launchErr map[string]error
	delay     time.Duration

	// ExecFunc is called by Execute when set, replacing the configured outcomes.
	ExecFunc func(ctx context.Context, cmd runner.Command) runner.Execution

	// Execution tracking (thread-safe)
	execCount   int32
	inFlight    int32
	maxInFlight int32
	mu          sync.Mutex
	commands    []runner.Command
}

// NewExecutor creates a mock executor where every command passes.
func NewExecutor() *Executor {
	return &Executor{
		exitCodes: make(map[string]int),
		outputs:   make(map[string]string),
		launchErr: make(map[string]error),
	}
}

// WithExitCode makes commands run in the matching directory exit with code.
func (m *Executor) WithExitCode(dir string, code int) *Executor {
	m.exitCodes[dir] = code
	return m
}

// WithOutput sets the captured output for the matching directory.
func (m *Executor) WithOutput(dir, output string) *Executor {
	m.outputs[dir] = output
	return m
}

// WithLaunchError makes commands in the matching directory fail to start.
func (m *Executor) WithLaunchError(dir string, err error) *Executor {
	m.launchErr[dir] = err
	return m
}

// WithDelay makes every command take at least d.
func (m *Executor) WithDelay(d time.Duration) *Executor {
	m.delay = d
	return m
}

// WithExecFunc sets the function called by Execute.
func (m *Executor) WithExecFunc(fn func(ctx context.Context, cmd runner.Command) runner.Execution) *Executor {
	m.ExecFunc = fn
	return m
}

// Execute implements runner.Executor.
func (m *Executor) Execute(ctx context.Context, cmd runner.Command) runner.Execution {
	atomic.AddInt32(&m.execCount, 1)
	m.mu.Lock()
	m.commands = append(m.commands, cmd)
	m.mu.Unlock()

	n := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&m.maxInFlight)
		if n <= peak || atomic.CompareAndSwapInt32(&m.maxInFlight, peak, n) {
			break
		}
	}

	start := time.Now()
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
		}
	}

	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, cmd)
	}

	result := runner.Execution{Duration: time.Since(start)}
	if err, ok := lookup(m.launchErr, cmd.Dir); ok {
		result.ExitCode = -1
		result.Err = err
		result.Output = err.Error() + "\n"
		return result
	}
	if code, ok := lookup(m.exitCodes, cmd.Dir); ok {
		result.ExitCode = code
	}
	if out, ok := lookup(m.outputs, cmd.Dir); ok {
		result.Output = out
	}
	return result
}

func lookup[V any](m map[string]V, dir string) (V, bool) {
	dir = filepath.ToSlash(dir)
	for key, v := range m {
		if dir == key || strings.HasSuffix(dir, "/"+key) {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Test inspection methods

// ExecCount returns the number of times Execute was called.
func (m *Executor) ExecCount() int32 {
	return atomic.LoadInt32(&m.execCount)
}

// MaxConcurrent returns the largest number of commands that ran at once.
func (m *Executor) MaxConcurrent() int32 {
	return atomic.LoadInt32(&m.maxInFlight)
}

// Commands returns the executed commands in call order.
func (m *Executor) Commands() []runner.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]runner.Command, len(m.commands))
	copy(result, m.commands)
	return result
}

// Reset clears execution tracking state.
func (m *Executor) Reset() {
	atomic.StoreInt32(&m.execCount, 0)
	atomic.StoreInt32(&m.maxInFlight, 0)
	m.mu.Lock()
	m.commands = nil
	m.mu.Unlock()
}
