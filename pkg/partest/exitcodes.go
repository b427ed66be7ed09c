// Package partest provides public constants for external tools integrating
// with the partest CLI.
package partest

// Exit codes returned by the partest CLI.
// These constants allow scripts and wrappers to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates every package passed, or no packages with tests were found.
	ExitSuccess = 0

	// ExitFailure indicates at least one package failed, timed out or could not be launched.
	ExitFailure = 1

	// ExitConfigError indicates invalid flags or an invalid .partest.json.
	ExitConfigError = 2

	// ExitEnvError indicates the run root is missing or is not a readable directory.
	ExitEnvError = 3
)
