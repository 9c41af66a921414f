// Package launch implements the two-step launch sequence.
//
// The sequence is the launcher's entire contract: report the selected
// interpreter, run the dependency check (warn on failure, never gate),
// run the application module, report its exit code, optionally pause so a
// double-clicked window stays readable, and hand the application's exit
// code back unchanged. The ordering guarantee — the dependency step fully
// completes before the application step begins — falls out of the strictly
// sequential blocking calls; there is no concurrency anywhere.
//
// Steps are injected as closures so the ordering and propagation
// properties are unit-testable without spawning processes or attaching a
// terminal.
package launch

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/mmr-tortoise/botstrap/internal/interp"
	"github.com/mmr-tortoise/botstrap/internal/runner"
)

// Step is one launch step. It blocks until the step completes and reports
// the step's exit status. A non-zero status is a completed run; an error
// means the step could not run at all.
type Step func(ctx context.Context) (int, error)

// CommandStep returns a Step that runs the interpreter with the given
// arguments as a subprocess wired to the launcher's own stdio.
func CommandStep(r *runner.Runner, in interp.Interpreter, args []string) Step {
	return func(ctx context.Context) (int, error) {
		return r.Run(ctx, runner.Spec{
			Command:      in.Command,
			Args:         in.Argv(args...),
			InheritStdio: true,
		})
	}
}

// Plan describes one launch: which interpreter was selected, the optional
// dependency-check step, and the application step.
type Plan struct {
	// Interp is the selected interpreter invocation, for display.
	Interp interp.Interpreter

	// InterpVersion is the interpreter's reported version banner.
	InterpVersion string

	// Preflight is the dependency-check step. Nil skips the step
	// entirely (--skip-preflight).
	Preflight Step

	// PreflightName describes the dependency check in status lines,
	// e.g. the helper script path or "built-in dependency check".
	PreflightName string

	// App is the application step. Required.
	App Step

	// AppModule is the application module name, for status lines.
	AppModule string

	// Pause blocks for one line of input after the exit report, so a
	// window opened by double-click does not vanish with the outcome.
	Pause bool
}

// Sequence runs launch plans and writes human-readable status lines.
type Sequence struct {
	// Out receives all status lines. The launcher's stdout is its
	// product output, so this is os.Stdout in production.
	Out io.Writer

	// Stdin is read for the final pause acknowledgment.
	Stdin io.Reader
}

// Run executes the plan in order and returns the application's exit code.
//
// The dependency-check status never influences the return value: a
// non-zero preflight (or a preflight that could not even start) is
// reported as a warning and execution continues. Only a failure to start
// the application process itself returns an error; a normally-exited
// application returns (code, nil) whatever the code was.
func (s *Sequence) Run(ctx context.Context, plan Plan) (int, error) {
	fmt.Fprintf(s.Out, "Using interpreter: %s (%s)\n", plan.Interp, plan.InterpVersion)

	if plan.Preflight != nil {
		fmt.Fprintf(s.Out, "Checking dependencies (%s)...\n", plan.PreflightName)
		code, err := plan.Preflight(ctx)
		switch {
		case err != nil:
			fmt.Fprintf(s.Out, "Warning: dependency check could not run: %v. Continuing anyway.\n", err)
		case code != 0:
			fmt.Fprintf(s.Out, "Warning: dependency check exited with code %d. Continuing anyway.\n", code)
		}
	}

	fmt.Fprintf(s.Out, "Starting %s...\n", plan.AppModule)
	code, err := plan.App(ctx)
	if err != nil {
		fmt.Fprintf(s.Out, "Failed to start %s: %v\n", plan.AppModule, err)
		s.pause(plan)
		return -1, err
	}

	fmt.Fprintf(s.Out, "%s exited with code %d\n", plan.AppModule, code)
	s.pause(plan)
	return code, nil
}

// pause blocks until the user acknowledges the outcome. The prompt comes
// after the exit report so the window shows the result while waiting.
func (s *Sequence) pause(plan Plan) {
	if !plan.Pause || s.Stdin == nil {
		return
	}
	fmt.Fprint(s.Out, "Press Enter to close...")
	// Any input (or EOF) releases the pause; the content is irrelevant.
	_, _ = bufio.NewReader(s.Stdin).ReadString('\n')
}
