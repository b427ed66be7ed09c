package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/partest/internal/collector"
	partesterrors "github.com/AndreyAkinshin/partest/internal/errors"
	"github.com/AndreyAkinshin/partest/internal/model"
	"github.com/AndreyAkinshin/partest/internal/output"
	"github.com/AndreyAkinshin/partest/internal/testparser"
)

func newReporter() (*Reporter, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return New(output.NewWithWriters(stdout, stderr, false)), stdout, stderr
}

func res(rel string, exit int, out string) model.TestResult {
	return model.TestResult{
		Package:  model.Package{RelPath: rel},
		ExitCode: exit,
		Output:   out,
	}
}

// filled returns a collector already holding results in the given order.
func filled(t *testing.T, results ...model.TestResult) *collector.Collector {
	t.Helper()
	c := collector.New(len(results))
	for _, r := range results {
		require.NoError(t, c.Publish(r))
	}
	return c
}

func TestAggregate_AllPass(t *testing.T) {
	r, stdout, _ := newReporter()
	src := filled(t, res("b", 0, "ok b\n"), res("a", 0, "ok a\n"), res("c", 0, "ok c\n"))

	summary, err := r.Aggregate(src, 3)
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Equal(t, 3, summary.Total)
	assert.Empty(t, summary.Failed)
	assert.Equal(t, 0, summary.ExitCode())

	got := stdout.String()
	assert.NotContains(t, got, "Tests failed in:")
	assert.Contains(t, got, "All 3 packages passed.")
	// Blocks appear in arrival order.
	assert.Less(t, strings.Index(got, "package 'b'"), strings.Index(got, "package 'a'"))
	assert.Less(t, strings.Index(got, "package 'a'"), strings.Index(got, "package 'c'"))
}

func TestAggregate_OneFailure(t *testing.T) {
	r, stdout, _ := newReporter()
	src := filled(t, res("a", 0, ""), res("b", 1, "Some tests failed.\n"), res("c", 0, ""))

	summary, err := r.Aggregate(src, 3)
	require.NoError(t, err)

	assert.False(t, summary.Success)
	assert.Equal(t, []string{"b"}, summary.Failed)
	assert.Equal(t, 1, summary.ExitCode())

	got := stdout.String()
	assert.Contains(t, got, "Tests failed in:\n  b\n")
	assert.Contains(t, got, "1 of 3 packages failed.")
}

func TestAggregate_FailureListSorted(t *testing.T) {
	orders := [][]string{
		{"zeta", "alpha", "mid"},
		{"mid", "zeta", "alpha"},
		{"alpha", "mid", "zeta"},
	}
	for _, order := range orders {
		r, stdout, _ := newReporter()
		var results []model.TestResult
		for _, rel := range order {
			results = append(results, res(rel, 1, ""))
		}

		summary, err := r.Aggregate(filled(t, results...), len(results))
		require.NoError(t, err)

		assert.Equal(t, []string{"alpha", "mid", "zeta"}, summary.Failed)
		assert.Contains(t, stdout.String(), "Tests failed in:\n  alpha\n  mid\n  zeta\n")
	}
}

func TestAggregate_ZeroPackages(t *testing.T) {
	r, stdout, _ := newReporter()

	summary, err := r.Aggregate(collector.New(0), 0)
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Equal(t, 0, summary.ExitCode())
	assert.NotContains(t, stdout.String(), output.SeparatorLine)
	assert.NotContains(t, stdout.String(), "Tests failed in:")
}

func TestAggregate_LaunchErrorAndTimeoutAreFailures(t *testing.T) {
	r, stdout, _ := newReporter()
	launch := res("broken", -1, "exec: \"flutter\": executable file not found in $PATH\n")
	launch.Err = partesterrors.Launch("broken", "flutter", errors.New("not found"))
	slow := res("slow", -1, "partest: killed after timeout of 1m0s\n")
	slow.TimedOut = true

	summary, err := r.Aggregate(filled(t, launch, slow, res("fine", 0, "")), 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"broken", "slow"}, summary.Failed)
	assert.Contains(t, stdout.String(), "executable file not found")
}

func TestAggregate_DrainError(t *testing.T) {
	r, _, _ := newReporter()
	// Collector expects one result but the caller asks for two.
	src := filled(t, res("a", 0, ""))

	summary, err := r.Aggregate(src, 2)

	require.ErrorIs(t, err, collector.ErrDrained)
	assert.Equal(t, 1, summary.Total)
}

func TestAggregate_Counts(t *testing.T) {
	r, stdout, _ := newReporter()
	a := res("a", 0, "")
	a.Counts = &testparser.TestCounts{Passed: 4, Total: 4, Parsed: true}
	b := res("b", 1, "")
	b.Counts = &testparser.TestCounts{
		Passed: 1, Failed: 1, Total: 2, Parsed: true,
		FailedTests: []testparser.FailedTest{{Name: "login shows error", Reason: "Expected: true"}},
	}

	summary, err := r.Aggregate(filled(t, a, b), 2)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Counts.Passed)
	assert.Equal(t, 1, summary.Counts.Failed)
	require.Len(t, summary.Counts.FailedTests, 1)
	assert.Equal(t, "b: login shows error", summary.Counts.FailedTests[0].Name)

	got := stdout.String()
	assert.Contains(t, got, "Tests: 5 passed, 1 failed")
	assert.Contains(t, got, "b: login shows error: Expected: true")
}

func TestAggregate_QuietOmitsPassingBlocks(t *testing.T) {
	r, stdout, _ := newReporter()
	r.out.SetQuiet(true)

	summary, err := r.Aggregate(filled(t, res("good", 0, "fine\n"), res("bad", 1, "boom\n")), 2)
	require.NoError(t, err)

	got := stdout.String()
	assert.NotContains(t, got, "package 'good'")
	assert.Contains(t, got, "package 'bad'")
	assert.Contains(t, got, "1 of 2 packages failed.")
	assert.Equal(t, []string{"bad"}, summary.Failed)
}

func TestAggregate_VerboseDurations(t *testing.T) {
	r, _, stderr := newReporter()
	r.out.SetVerbose(true)
	a := res("a", 0, "")
	a.Duration = 1500 * time.Millisecond
	b := res("b", 4, "")
	b.Duration = 250 * time.Millisecond

	_, err := r.Aggregate(filled(t, a, b), 2)
	require.NoError(t, err)

	assert.Contains(t, stderr.String(), "[a] passed in 1.5s")
	assert.Contains(t, stderr.String(), "[b] failed in 250ms: b: tests failed (exit status 4)")
}

func TestSummarize_Idempotent(t *testing.T) {
	first := Summarize([]model.TestResult{res("b", 1, ""), res("a", 0, ""), res("c", 2, "")})
	second := Summarize([]model.TestResult{res("c", 2, ""), res("b", 1, ""), res("a", 0, "")})

	assert.Equal(t, first.Failed, second.Failed)
	assert.Equal(t, first.Success, second.Success)
	assert.Equal(t, []string{"b", "c"}, first.Failed)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{999 * time.Millisecond, "999ms"},
		{time.Second, "1.0s"},
		{30 * time.Second, "30.0s"},
		{2*time.Minute + 30*time.Second, "2m30s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
