// Package report prints per-package results as they arrive and the final run summary.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/AndreyAkinshin/partest/internal/model"
	"github.com/AndreyAkinshin/partest/internal/output"
	"github.com/AndreyAkinshin/partest/internal/testparser"
)

// Drainer yields finished results one at a time, blocking until one is available.
// It is implemented by collector.Collector.
type Drainer interface {
	DrainNext() (model.TestResult, error)
}

// Reporter turns a non-deterministic stream of results into a deterministic summary.
type Reporter struct {
	out *output.Writer

	// Started is the run's start time, used for the summary duration.
	// When zero, Aggregate measures from its own call.
	Started time.Time
}

// New creates a Reporter writing to out.
func New(out *output.Writer) *Reporter {
	return &Reporter{out: out}
}

// Aggregate drains exactly total results, printing each as one block in arrival
// order, then prints the summary. On a drain error it returns the summary of
// the results received so far together with the error.
func (r *Reporter) Aggregate(src Drainer, total int) (model.RunSummary, error) {
	start := r.Started
	if start.IsZero() {
		start = time.Now()
	}

	results := make([]model.TestResult, 0, total)
	for i := 0; i < total; i++ {
		result, err := src.DrainNext()
		if err != nil {
			summary := Summarize(results)
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("draining result %d of %d: %w", i+1, total, err)
		}
		r.PrintResult(result)
		results = append(results, result)
	}

	summary := Summarize(results)
	summary.Duration = time.Since(start)
	r.PrintSummary(summary)
	return summary, nil
}

// PrintResult prints one package's block. Passing packages are omitted in quiet mode.
func (r *Reporter) PrintResult(result model.TestResult) {
	passed := result.Passed()
	if passed && r.out.Quiet() {
		return
	}
	r.out.PackageBlock(result.Package.RelPath, passed, result.Output)
	if err := result.Failure(); err != nil {
		r.out.Debug("[%s] failed in %s: %v", result.Package.RelPath, FormatDuration(result.Duration), err)
	} else {
		r.out.Debug("[%s] passed in %s", result.Package.RelPath, FormatDuration(result.Duration))
	}
}

// Summarize builds the run summary. The failure list is sorted so the report
// does not depend on completion order.
func Summarize(results []model.TestResult) model.RunSummary {
	summary := model.RunSummary{Total: len(results)}
	for _, res := range results {
		if !res.Passed() {
			summary.Failed = append(summary.Failed, res.Package.RelPath)
		}
		if res.Counts != nil {
			counts := *res.Counts
			counts.FailedTests = prefixTests(res.Package.RelPath, res.Counts.FailedTests)
			summary.Counts.Add(&counts)
		}
	}
	sort.Strings(summary.Failed)
	sort.SliceStable(summary.Counts.FailedTests, func(i, j int) bool {
		return summary.Counts.FailedTests[i].Name < summary.Counts.FailedTests[j].Name
	})
	summary.Success = len(summary.Failed) == 0
	return summary
}

// PrintSummary prints the sorted failure list, test counts and the final status line.
func (r *Reporter) PrintSummary(s model.RunSummary) {
	if s.Total > 0 {
		r.out.Println("%s", output.SeparatorLine)
	}
	r.out.FailureList(s.Failed)

	if !r.out.Quiet() {
		if s.Counts.Parsed {
			r.out.Println("")
			r.out.SummaryItem("Tests", s.Counts.String())
			if len(s.Counts.FailedTests) > 0 {
				r.out.SummarySectionLabel("Failed tests:")
				for _, ft := range s.Counts.FailedTests {
					r.out.SummaryFailed("  "+ft.Name, ft.Reason)
				}
			}
		}
		if s.Total > 0 {
			r.out.SummaryItem("Duration", FormatDuration(s.Duration))
		}
	}

	switch {
	case s.Total == 0:
		r.out.FinalSuccess("No packages with tests found.")
	case s.Success:
		r.out.FinalSuccess("All %d packages passed.", s.Total)
	default:
		r.out.FinalFailure("%d of %d packages failed.", len(s.Failed), s.Total)
	}
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", m, s)
}

func prefixTests(rel string, tests []testparser.FailedTest) []testparser.FailedTest {
	if len(tests) == 0 {
		return nil
	}
	out := make([]testparser.FailedTest, len(tests))
	for i, ft := range tests {
		out[i] = testparser.FailedTest{Name: rel + ": " + ft.Name, Reason: ft.Reason}
	}
	return out
}
