// Package testparser extracts per-test counts from the output of external test tools.
package testparser

import (
	"fmt"
	"strings"
)

// FailedTest holds information about a single failed test.
type FailedTest struct {
	Name   string // Test name as reported by the tool
	Reason string // First line of the failure message, if any
}

// TestCounts holds parsed test result counts.
type TestCounts struct {
	Passed      int
	Failed      int
	Skipped     int
	Total       int
	Parsed      bool         // true if counts were successfully extracted
	FailedTests []FailedTest // details of failed tests
}

// Add adds another TestCounts to this one, aggregating the counts.
// Parsed is sticky: the aggregate is parsed if any added value was.
func (tc *TestCounts) Add(other *TestCounts) {
	if other == nil {
		return
	}
	tc.Passed += other.Passed
	tc.Failed += other.Failed
	tc.Skipped += other.Skipped
	tc.Total += other.Total
	tc.FailedTests = append(tc.FailedTests, other.FailedTests...)
	if other.Parsed {
		tc.Parsed = true
	}
}

// String renders the counts as "N passed, N failed, N skipped", omitting zero
// failed and skipped counts.
func (tc TestCounts) String() string {
	parts := []string{fmt.Sprintf("%d passed", tc.Passed)}
	if tc.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", tc.Failed))
	}
	if tc.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", tc.Skipped))
	}
	return strings.Join(parts, ", ")
}

// Parser defines the interface for test output parsers.
type Parser interface {
	// Parse extracts test counts from the test tool's combined output.
	Parse(output string) TestCounts
	// Name returns the name of the parser.
	Name() string
}
