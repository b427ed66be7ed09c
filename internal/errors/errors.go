// Package errors provides structured error types and exit codes for partest.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes returned by the partest CLI.
const (
	ExitSuccess          = 0 // All packages passed (or none were found)
	ExitTestFailure      = 1 // One or more packages failed
	ExitConfigError      = 2 // Invalid configuration or command-line usage
	ExitEnvironmentError = 3 // Run root missing or unreadable
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindUsage
	KindInvalidRoot
	KindLaunch
	KindTestFailure
)

// Error is the base error type for partest.
type Error struct {
	Kind    ErrorKind
	Message string
	Path    string // Package or root path if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindUsage:
		return ExitConfigError
	case KindInvalidRoot:
		return ExitEnvironmentError
	default:
		return ExitTestFailure
	}
}

// Config creates a new configuration error.
func Config(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *Error {
	return Config(fmt.Sprintf(format, args...))
}

// Usagef creates a command-line usage error.
func Usagef(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindUsage,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidRoot reports a run root that is missing, unreadable or not a directory.
// It aborts the run before anything is dispatched.
func InvalidRoot(root string, cause error) *Error {
	return &Error{
		Kind:    KindInvalidRoot,
		Message: "invalid root directory",
		Path:    root,
		Cause:   cause,
	}
}

// Launch reports that the external test command could not be started for a package.
// It is recorded on that package's result and never aborts the pool.
func Launch(path, executable string, cause error) *Error {
	return &Error{
		Kind:    KindLaunch,
		Message: fmt.Sprintf("cannot launch %s", executable),
		Path:    path,
		Cause:   cause,
	}
}

// TestFailure reports a package whose test command ran but did not pass,
// e.g. reason "exit status 1" or "timed out".
func TestFailure(path, reason string) *Error {
	return &Error{
		Kind:    KindTestFailure,
		Message: fmt.Sprintf("tests failed (%s)", reason),
		Path:    path,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// WrapConfig wraps an error from loading or validating configuration.
func WrapConfig(err error, message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
		Cause:   err,
	}
}

// IsKind reports whether err is or wraps an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.ExitCode()
	}
	return ExitTestFailure
}
