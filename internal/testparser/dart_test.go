package testparser

import "testing"

func TestDartParser(t *testing.T) {
	t.Parallel()
	parser := &DartParser{}

	tests := []struct {
		name        string
		output      string
		expected    TestCounts
		failedNames []string
	}{
		{
			name: "all passed",
			output: `00:00 +0: loading test/widget_test.dart
00:01 +0: Counter increments
00:01 +1: Counter decrements
00:02 +2: All tests passed!`,
			expected: TestCounts{Passed: 2, Total: 2, Parsed: true},
		},
		{
			name: "failures and skips",
			output: `00:00 +0: loading test/widget_test.dart
00:01 +1: Counter increments
00:01 +1 -1: Counter decrements [E]
  Expected: <1>
    Actual: <0>

00:02 +2 ~1 -1: Some tests failed.`,
			expected:    TestCounts{Passed: 2, Skipped: 1, Failed: 1, Total: 4, Parsed: true},
			failedNames: []string{"Counter decrements"},
		},
		{
			name:        "compact reporter carriage returns",
			output:      "00:00 +0: loading\r00:01 +3: ok\r00:01 +3 -1: broken test [E]\n  boom\n00:01 +3 -1: Some tests failed.",
			expected:    TestCounts{Passed: 3, Failed: 1, Total: 4, Parsed: true},
			failedNames: []string{"broken test"},
		},
		{
			name:        "loading failure",
			output:      "00:00 +0 -1: loading test/bad_test.dart [E]\n  Failed to load\n00:00 +0 -1: Some tests failed.",
			expected:    TestCounts{Failed: 1, Total: 1, Parsed: true},
			failedNames: []string{"loading test/bad_test.dart"},
		},
		{
			name:     "empty output",
			output:   "",
			expected: TestCounts{Parsed: false},
		},
		{
			name:     "unrelated output",
			output:   "Running \"flutter pub get\" in app...\nResolving dependencies...",
			expected: TestCounts{Parsed: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := parser.Parse(tt.output)
			if result.Passed != tt.expected.Passed {
				t.Errorf("Passed: got %d, want %d", result.Passed, tt.expected.Passed)
			}
			if result.Failed != tt.expected.Failed {
				t.Errorf("Failed: got %d, want %d", result.Failed, tt.expected.Failed)
			}
			if result.Skipped != tt.expected.Skipped {
				t.Errorf("Skipped: got %d, want %d", result.Skipped, tt.expected.Skipped)
			}
			if result.Total != tt.expected.Total {
				t.Errorf("Total: got %d, want %d", result.Total, tt.expected.Total)
			}
			if result.Parsed != tt.expected.Parsed {
				t.Errorf("Parsed: got %v, want %v", result.Parsed, tt.expected.Parsed)
			}
			if len(result.FailedTests) != len(tt.failedNames) {
				t.Fatalf("FailedTests: got %d, want %d", len(result.FailedTests), len(tt.failedNames))
			}
			for i, name := range tt.failedNames {
				if result.FailedTests[i].Name != name {
					t.Errorf("FailedTests[%d].Name: got %q, want %q", i, result.FailedTests[i].Name, name)
				}
			}
		})
	}
}

func TestDartParser_FailureReason(t *testing.T) {
	t.Parallel()
	parser := &DartParser{}

	result := parser.Parse("00:01 +0 -1: adds numbers [E]\n\n  Expected: <3>\n    Actual: <4>\n00:01 +0 -1: Some tests failed.")

	if len(result.FailedTests) != 1 {
		t.Fatalf("FailedTests: got %d, want 1", len(result.FailedTests))
	}
	if got := result.FailedTests[0].Reason; got != "Expected: <3>" {
		t.Errorf("Reason: got %q, want %q", got, "Expected: <3>")
	}
}

func TestDartParserName(t *testing.T) {
	t.Parallel()
	parser := &DartParser{}
	if parser.Name() != "dart" {
		t.Errorf("Name: got %s, want dart", parser.Name())
	}
}
