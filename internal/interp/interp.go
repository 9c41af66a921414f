// Package interp handles Python interpreter discovery.
//
// The launcher prefers the version-selecting `py` launcher when it is on
// PATH (invoked as `py -3`), then falls back to `python`, then `python3`.
// When nothing is found the plain `python` fallback is still returned:
// there is deliberately no existence gate, so a missing interpreter
// surfaces as a spawn failure from the step that tried to use it rather
// than as a pre-flight error. That keeps the launch path best-effort all
// the way through.
package interp

import (
	"context"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/botstrap/internal/runner"
)

// Interpreter is a resolved interpreter invocation: the command plus any
// fixed leading arguments (the `py` launcher needs `-3` to select
// Python 3).
type Interpreter struct {
	// Command is the executable name, resolved against PATH at spawn time.
	Command string

	// Args are fixed arguments that precede any per-step arguments.
	Args []string
}

// String returns the display form of the invocation, e.g. "py -3".
func (i Interpreter) String() string {
	if len(i.Args) == 0 {
		return i.Command
	}
	return i.Command + " " + strings.Join(i.Args, " ")
}

// Argv returns the full argument list for a step: the interpreter's fixed
// arguments followed by the step-specific ones.
func (i Interpreter) Argv(extra ...string) []string {
	argv := make([]string, 0, len(i.Args)+len(extra))
	argv = append(argv, i.Args...)
	argv = append(argv, extra...)
	return argv
}

// Detector locates an interpreter on the system PATH.
type Detector struct {
	// LookPath resolves a command name against PATH. Defaults to
	// exec.LookPath; tests substitute a fake.
	LookPath func(name string) (string, error)
}

// NewDetector creates a Detector backed by the real PATH.
func NewDetector() *Detector {
	return &Detector{LookPath: exec.LookPath}
}

// Detect selects the interpreter invocation to use, in preference order:
// the `py` launcher (as `py -3`), then `python`, then `python3`.
//
// When none of the candidates is on PATH, Detect still returns the plain
// `python` invocation. The subsequent spawn failure is the error report —
// matching the original launcher, which never checked either.
func (d *Detector) Detect() Interpreter {
	if _, err := d.LookPath("py"); err == nil {
		return Interpreter{Command: "py", Args: []string{"-3"}}
	}
	if _, err := d.LookPath("python"); err == nil {
		return Interpreter{Command: "python"}
	}
	if _, err := d.LookPath("python3"); err == nil {
		return Interpreter{Command: "python3"}
	}

	// Optimistic fallback: let the spawn failure report the problem.
	return Interpreter{Command: "python"}
}

// Parse builds an Interpreter from an explicit config override such as
// "python3" or "py -3.11". The first field is the command, the rest are
// fixed arguments.
func Parse(s string) Interpreter {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Interpreter{Command: "python"}
	}
	in := Interpreter{Command: fields[0]}
	if len(fields) > 1 {
		in.Args = fields[1:]
	}
	return in
}

// Version queries the interpreter's version banner (`--version`).
// The result is display-only, so failures degrade to "unknown" rather
// than aborting the launch.
func Version(ctx context.Context, r *runner.Runner, in Interpreter) string {
	out, code, err := r.CombinedOutput(ctx, runner.Spec{
		Command: in.Command,
		Args:    in.Argv("--version"),
	})
	return versionFromOutput(out, code, err)
}

// versionFromOutput extracts the banner line from the `--version` output.
// Output is combined stdout+stderr because Python 2 printed the banner on
// stderr; only the first non-empty line is kept.
func versionFromOutput(out string, code int, err error) string {
	if err != nil || code != 0 {
		return "unknown"
	}
	for _, line := range strings.Split(out, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return "unknown"
}
