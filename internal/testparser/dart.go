package testparser

import (
	"regexp"
	"strconv"
	"strings"
)

// dartProgressRegex matches a package:test reporter progress line:
//
//	00:02 +5 ~1 -2: description
//
// capturing passed, skipped, failed and the description.
var dartProgressRegex = regexp.MustCompile(`^\d+:\d+ \+(\d+)(?: ~(\d+))?(?: -(\d+))?: (.*)$`)

const dartErrorSuffix = " [E]"

// DartParser parses the reporter output shared by `dart test` and `flutter test`.
type DartParser struct{}

// Name returns the parser name.
func (p *DartParser) Name() string {
	return "dart"
}

// Parse extracts test counts from dart/flutter test output.
// Counters are cumulative, so the last progress line holds the totals.
// Descriptions ending in "[E]" name failed tests; the first indented line
// after one is taken as its reason.
func (p *DartParser) Parse(output string) TestCounts {
	counts := TestCounts{}

	// The compact reporter redraws its status line with carriage returns.
	lines := strings.Split(strings.ReplaceAll(output, "\r", "\n"), "\n")

	seen := make(map[string]bool)
	pendingReason := -1
	for _, line := range lines {
		match := dartProgressRegex.FindStringSubmatch(strings.TrimRight(line, " "))
		if match == nil {
			if pendingReason >= 0 && strings.TrimSpace(line) != "" {
				counts.FailedTests[pendingReason].Reason = strings.TrimSpace(line)
				pendingReason = -1
			}
			continue
		}
		pendingReason = -1

		counts.Passed, _ = strconv.Atoi(match[1])
		counts.Skipped, _ = strconv.Atoi(match[2])
		counts.Failed, _ = strconv.Atoi(match[3])
		counts.Parsed = true

		desc := match[4]
		if strings.HasSuffix(desc, dartErrorSuffix) {
			name := strings.TrimSuffix(desc, dartErrorSuffix)
			if !seen[name] {
				seen[name] = true
				counts.FailedTests = append(counts.FailedTests, FailedTest{Name: name})
				pendingReason = len(counts.FailedTests) - 1
			}
		}
	}

	counts.Total = counts.Passed + counts.Failed + counts.Skipped
	return counts
}
