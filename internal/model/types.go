// Package model defines the error and exit-code types for the botstrap CLI.
//
// The launcher's whole data model is the process exit code: the dependency
// check step produces an advisory status, the application step produces the
// status that becomes the launcher's own exit code. This package gives that
// flow two error types — CLIError for the launcher's own failures (bad
// config, unreadable manifest), and ExitStatusError for transparently
// passing the application's exit status through the cobra error path.
package model

import (
	"fmt"
)

// ExitCode defines the launcher's own exit codes. These apply only to
// failures in botstrap itself; when the application runs at all, the
// launcher exits with the application's status verbatim (see
// ExitStatusError), never with one of these.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred,
	// including an application process that could not be started at all.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the launcher configuration file
	// (botstrap.yml) could not be parsed.
	ExitConfigError ExitCode = 2

	// ExitManifestError indicates the requirements manifest
	// (requirements.jsonc) was present but invalid.
	ExitManifestError ExitCode = 3

	// ExitPreflightFailed indicates the standalone "preflight" command
	// could not satisfy all requirements. The launch path never uses this
	// code — there, a failed dependency check is a warning, not a gate.
	ExitPreflightFailed ExitCode = 4
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
// This follows Go's error wrapping convention introduced in Go 1.13.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitStatusError carries the application's own exit status through the
// cobra error path. Unlike CLIError it is "quiet": by the time it is
// returned, the launch sequence has already printed the exit report, so
// Execute terminates with the code without printing anything further.
//
// The code may be any value the application chose, including values that
// collide with the launcher's own ExitCode constants — propagation is
// verbatim, which is the launcher's core contract.
type ExitStatusError struct {
	// Code is the application's exit status, propagated unchanged.
	Code int
}

// Error satisfies the error interface. The message exists for logs and
// errors.As chains; the normal path never prints it.
func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("application exited with status %d", e.Code)
}

// NewExitStatusError creates an ExitStatusError for the given status.
func NewExitStatusError(code int) *ExitStatusError {
	return &ExitStatusError{Code: code}
}
