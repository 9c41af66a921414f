// Package runner provides blocking subprocess execution with exit-status
// capture.
//
// Every step the launcher performs is a sequential, fully-blocking child
// process: the dependency check must finish (or fail) before the
// application starts, and the application must finish before the launcher
// reports and exits. The Runner therefore exposes exactly two operations —
// Run for interactive children wired to the launcher's own stdio, and
// CombinedOutput for short capture-style invocations such as the
// interpreter version query.
//
// A non-zero exit from the child is NOT an error here: the exit code is
// the result the caller asked for. An error is returned only when the
// process could not be started at all or was killed by a signal, in which
// case the reported code is -1.
package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// Spec describes a single subprocess invocation.
type Spec struct {
	// Command is the program to run, resolved against PATH.
	Command string

	// Args are the arguments passed to the command.
	Args []string

	// Dir is the working directory for the child. Empty means inherit
	// the launcher's current directory.
	Dir string

	// Env holds extra environment entries ("KEY=value") appended to the
	// launcher's own environment. Nil means inherit unchanged.
	Env []string

	// InheritStdio wires the child directly to the launcher's stdin,
	// stdout, and stderr. The bot and pip are interactive programs whose
	// output must stream through to the user as it happens.
	InheritStdio bool
}

// Runner executes subprocess specs. It is stateless; the struct exists as
// a receiver so callers can hold a single value and tests can substitute
// seams at the call sites that accept interfaces.
type Runner struct{}

// New creates a new Runner.
func New() *Runner {
	return &Runner{}
}

// Run executes the spec and blocks until the child exits.
//
// Returns the child's exit code and a nil error for any completed run,
// including non-zero exits. Returns (-1, err) only when the process could
// not be started (command not found, permission denied) or did not exit
// normally (killed by a signal, context cancelled).
func (r *Runner) Run(ctx context.Context, spec Spec) (int, error) {
	cmd := r.command(ctx, spec)

	if spec.InheritStdio {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	return exitStatus(cmd.Run())
}

// CombinedOutput executes the spec, capturing stdout and stderr merged in
// the order the child produced them. Used for short probe commands like
// `python --version`, where the banner historically went to stderr.
func (r *Runner) CombinedOutput(ctx context.Context, spec Spec) (string, int, error) {
	cmd := r.command(ctx, spec)

	out, err := cmd.CombinedOutput()
	code, runErr := exitStatus(err)
	return string(out), code, runErr
}

// command builds the exec.Cmd for a spec. CommandContext kills the child
// when the context is cancelled, which is the only cancellation path the
// launcher has (Ctrl+C propagates via the process group anyway).
func (r *Runner) command(ctx context.Context, spec Spec) *exec.Cmd {
	// #nosec G204 — command and args are assembled from config and
	// discovery, not from untrusted input.
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	return cmd
}

// exitStatus translates the error from (*exec.Cmd).Run into an exit code.
// A plain non-zero exit becomes (code, nil); anything that prevented a
// normal exit becomes (-1, err).
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		// ExitCode reports -1 when the process was terminated by a
		// signal rather than exiting on its own.
		return -1, err
	}

	// The process never started: command not found, permission denied,
	// context already cancelled.
	return -1, err
}
