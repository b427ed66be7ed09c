// Package runner provides the worker pool that runs each package's tests.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AndreyAkinshin/partest/internal/config"
	partesterrors "github.com/AndreyAkinshin/partest/internal/errors"
	"github.com/AndreyAkinshin/partest/internal/model"
	"github.com/AndreyAkinshin/partest/internal/output"
	"github.com/AndreyAkinshin/partest/internal/queue"
	"github.com/AndreyAkinshin/partest/internal/testparser"
)

const (
	// minParallelWorkers keeps the pool usable even if runtime.NumCPU()
	// reports 0 in a restricted container.
	minParallelWorkers = 1

	// maxParallelWorkers caps PARTEST_PARALLEL and --jobs. Each worker holds
	// one subprocess, so larger pools mostly add contention.
	maxParallelWorkers = config.MaxParallel
)

// Sink receives finished results. It is implemented by collector.Collector.
type Sink interface {
	Publish(result model.TestResult) error
}

// Pool runs queued packages on a fixed number of workers.
type Pool struct {
	Size       int    // Number of workers; values below 1 use DefaultWorkerCount
	Parser     string // Output parser name from the toolchain; empty disables count parsing
	Executable string
	Args       []string // Full argument list for every invocation
	Timeout    time.Duration
	Executor   Executor
	Parsers    *testparser.Registry // May be nil
	Out        *output.Writer       // May be nil
}

// Start launches the workers and returns immediately. Each worker takes items
// until the queue is empty, running one subprocess at a time and publishing
// exactly one result per item. The returned wait function blocks until every
// worker has exited and reports any publish failure.
//
// ctx is passed to each subprocess; the pool itself never cancels it.
func (p *Pool) Start(ctx context.Context, q *queue.Queue, sink Sink) (wait func() error) {
	workers := p.Size
	if workers < minParallelWorkers {
		workers = DefaultWorkerCount()
	}
	// Every item is queued before Start; extra workers would exit immediately.
	workers = min(workers, q.Len())

	executor := p.Executor
	if executor == nil {
		executor = NewCommandExecutor()
	}

	var g errgroup.Group
	for id := 1; id <= workers; id++ {
		g.Go(func() error {
			return p.work(ctx, id, executor, q, sink)
		})
	}
	return g.Wait
}

func (p *Pool) work(ctx context.Context, id int, executor Executor, q *queue.Queue, sink Sink) error {
	p.debug("worker %d: started", id)
	var errs []error
	for {
		item, ok := q.TryTake()
		if !ok {
			p.debug("worker %d: queue empty, exiting", id)
			return combineErrors(errs)
		}
		result := p.run(ctx, id, executor, item.Package)
		if err := sink.Publish(result); err != nil {
			errs = append(errs, fmt.Errorf("[%s] publish result: %w", item.Package.RelPath, err))
		}
	}
}

// run executes one package's test command and converts the outcome to a TestResult.
func (p *Pool) run(ctx context.Context, id int, executor Executor, pkg model.Package) model.TestResult {
	cmd := Command{
		Dir:        pkg.Path,
		Executable: p.Executable,
		Args:       p.Args,
		Timeout:    p.Timeout,
	}
	p.debug("worker %d: [%s] %s", id, pkg.RelPath, cmd)

	ex := executor.Execute(ctx, cmd)

	result := model.TestResult{
		Package:  pkg,
		ExitCode: ex.ExitCode,
		Output:   ex.Output,
		TimedOut: ex.TimedOut,
		Duration: ex.Duration,
	}
	if ex.Err != nil {
		result.Err = partesterrors.Launch(pkg.RelPath, p.Executable, ex.Err)
	} else {
		result.Counts = p.Parsers.Parse(p.Parser, ex.Output)
	}

	p.debug("worker %d: [%s] finished in %s (exit %d)", id, pkg.RelPath, ex.Duration.Round(time.Millisecond), ex.ExitCode)
	return result
}

func (p *Pool) debug(format string, args ...interface{}) {
	if p.Out != nil {
		p.Out.Debug(format, args...)
	}
}

// DefaultWorkerCount returns the number of parallel workers based on CPU count.
func DefaultWorkerCount() int {
	return max(minParallelWorkers, runtime.NumCPU())
}

// ResolveWorkers picks the worker count. Precedence: the --jobs flag, then
// PARTEST_PARALLEL, then the config file's parallel value, then the CPU count.
// Invalid PARTEST_PARALLEL values (non-numeric, <1, >256) log a warning and
// are ignored.
func ResolveWorkers(flagJobs, configParallel int, getenv func(string) string, warn func(format string, args ...interface{})) int {
	if flagJobs > 0 {
		return flagJobs
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if n, ok := parallelFromEnv(getenv(config.EnvParallel), warn); ok {
		return n
	}
	if configParallel > 0 {
		return configParallel
	}
	return DefaultWorkerCount()
}

func parallelFromEnv(env string, warn func(format string, args ...interface{})) (int, bool) {
	if env == "" {
		return 0, false
	}
	if warn == nil {
		warn = func(string, ...interface{}) {}
	}

	n, err := strconv.Atoi(env)
	if err != nil {
		warn("invalid %s value %q (not a number), using default", config.EnvParallel, env)
		return 0, false
	}
	if n < minParallelWorkers || n > maxParallelWorkers {
		warn("%s=%d out of range [%d-%d], using default", config.EnvParallel, n, minParallelWorkers, maxParallelWorkers)
		return 0, false
	}
	return n, true
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}
