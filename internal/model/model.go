// Package model provides the data types shared by the discovery, queue,
// runner, collector and report packages.
package model

import (
	"fmt"
	"time"

	"github.com/AndreyAkinshin/partest/internal/errors"

	"github.com/AndreyAkinshin/partest/internal/testparser"
)

// Package identifies a directory containing a test suite.
// Packages are created by discovery and never mutated afterwards.
type Package struct {
	Path      string // Absolute path to the package root
	RelPath   string // Display path relative to the run root ("." for the root itself)
	Name      string // Name declared in the manifest, empty if unknown
	Toolchain string // Toolchain profile that discovered the package
}

// WorkItem wraps a Package for transit through the work queue.
type WorkItem struct {
	Index   int // Position in discovery order
	Package Package
}

// TestResult is the outcome of running one package's external test command.
type TestResult struct {
	Package  Package
	ExitCode int    // Exit status of the test command; -1 if it never ran to completion
	Output   string // Combined stdout and stderr
	Err      error  // Non-nil only when the command could not be launched
	TimedOut bool
	Duration time.Duration
	Counts   *testparser.TestCounts // nil when the output was not recognised
}

// Passed reports whether the package's tests succeeded.
func (r TestResult) Passed() bool {
	return r.Failure() == nil
}

// Failure explains why the package failed: the launch error, or a
// KindTestFailure error for a timeout or non-zero exit. It is nil on success.
func (r TestResult) Failure() error {
	switch {
	case r.Err != nil:
		return r.Err
	case r.TimedOut:
		return errors.TestFailure(r.Package.RelPath, "timed out")
	case r.ExitCode != 0:
		return errors.TestFailure(r.Package.RelPath, fmt.Sprintf("exit status %d", r.ExitCode))
	default:
		return nil
	}
}

// RunSummary aggregates all results of a run.
type RunSummary struct {
	Total    int
	Failed   []string // Display paths of failed packages, sorted
	Success  bool
	Counts   testparser.TestCounts
	Duration time.Duration
}

// ExitCode returns the process exit status for the run: 0 when every package
// passed (or none were found), 1 otherwise.
func (s RunSummary) ExitCode() int {
	if s.Success {
		return 0
	}
	return 1
}
