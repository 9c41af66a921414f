package launch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/botstrap/internal/interp"
)

// scriptedStep returns a Step with a fixed outcome that records its
// invocation order into the shared trace slice.
func scriptedStep(trace *[]string, name string, code int, err error) Step {
	return func(ctx context.Context) (int, error) {
		*trace = append(*trace, name)
		return code, err
	}
}

// testPlan builds a plan around the given steps with pause disabled.
func testPlan(preflight, app Step) Plan {
	return Plan{
		Interp:        interp.Interpreter{Command: "py", Args: []string{"-3"}},
		InterpVersion: "Python 3.11.4",
		Preflight:     preflight,
		PreflightName: "scripts/check_and_install.py",
		App:           app,
		AppModule:     "bot.main",
	}
}

// TestSequence_Run_BothSucceed: both steps exit 0 → the launcher reports 0.
func TestSequence_Run_BothSucceed(t *testing.T) {
	var trace []string
	var out bytes.Buffer
	seq := &Sequence{Out: &out}

	code, err := seq.Run(context.Background(), testPlan(
		scriptedStep(&trace, "preflight", 0, nil),
		scriptedStep(&trace, "app", 0, nil),
	))

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"preflight", "app"}, trace)
	assert.Contains(t, out.String(), "Using interpreter: py -3 (Python 3.11.4)")
	assert.Contains(t, out.String(), "bot.main exited with code 0")
	assert.NotContains(t, out.String(), "Warning")
}

// TestSequence_Run_PreflightFailureIsNotFatal: the dependency check exits 1
// but the application still runs and its 0 becomes the launcher's result.
// The output must mention the warning code and then the exit code.
func TestSequence_Run_PreflightFailureIsNotFatal(t *testing.T) {
	var trace []string
	var out bytes.Buffer
	seq := &Sequence{Out: &out}

	code, err := seq.Run(context.Background(), testPlan(
		scriptedStep(&trace, "preflight", 1, nil),
		scriptedStep(&trace, "app", 0, nil),
	))

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"preflight", "app"}, trace, "app must run even after a failed check")

	text := out.String()
	assert.Contains(t, text, "dependency check exited with code 1")
	assert.Contains(t, text, "bot.main exited with code 0")
	// The warning must come before the exit report.
	assert.Less(t,
		strings.Index(text, "code 1"),
		strings.Index(text, "exited with code 0"))
}

// TestSequence_Run_AppCodePropagates: the application's non-zero code is
// returned exactly, regardless of the dependency check's outcome.
func TestSequence_Run_AppCodePropagates(t *testing.T) {
	tests := []struct {
		name          string
		preflightCode int
		appCode       int
	}{
		{"clean check, app exits 3", 0, 3},
		{"failed check, app exits 3", 1, 3},
		{"failed check, app exits 42", 7, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var trace []string
			var out bytes.Buffer
			seq := &Sequence{Out: &out}

			code, err := seq.Run(context.Background(), testPlan(
				scriptedStep(&trace, "preflight", tt.preflightCode, nil),
				scriptedStep(&trace, "app", tt.appCode, nil),
			))

			require.NoError(t, err)
			assert.Equal(t, tt.appCode, code)
			assert.Equal(t, []string{"preflight", "app"}, trace)
		})
	}
}

// TestSequence_Run_PreflightStartFailureTolerated: even a dependency check
// that cannot spawn at all only warns; the application still runs.
func TestSequence_Run_PreflightStartFailureTolerated(t *testing.T) {
	var trace []string
	var out bytes.Buffer
	seq := &Sequence{Out: &out}

	code, err := seq.Run(context.Background(), testPlan(
		scriptedStep(&trace, "preflight", -1, errors.New("exec: \"python\": executable file not found")),
		scriptedStep(&trace, "app", 0, nil),
	))

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"preflight", "app"}, trace)
	assert.Contains(t, out.String(), "dependency check could not run")
}

// TestSequence_Run_NilPreflightSkipsStep: a nil preflight step runs the
// application directly with no dependency-check output at all.
func TestSequence_Run_NilPreflightSkipsStep(t *testing.T) {
	var trace []string
	var out bytes.Buffer
	seq := &Sequence{Out: &out}

	code, err := seq.Run(context.Background(), testPlan(
		nil,
		scriptedStep(&trace, "app", 0, nil),
	))

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"app"}, trace)
	assert.NotContains(t, out.String(), "Checking dependencies")
}

// TestSequence_Run_AppStartFailure: a spawn failure of the application is
// the one terminal error; it is reported and returned as (-1, err).
func TestSequence_Run_AppStartFailure(t *testing.T) {
	var trace []string
	var out bytes.Buffer
	seq := &Sequence{Out: &out}

	spawnErr := errors.New("exec: \"python\": executable file not found")
	code, err := seq.Run(context.Background(), testPlan(
		scriptedStep(&trace, "preflight", 0, nil),
		scriptedStep(&trace, "app", -1, spawnErr),
	))

	assert.ErrorIs(t, err, spawnErr)
	assert.Equal(t, -1, code)
	assert.Contains(t, out.String(), "Failed to start bot.main")
}

// TestSequence_Run_Pause verifies the pause prompt appears after the exit
// report and blocks on stdin only when enabled.
func TestSequence_Run_Pause(t *testing.T) {
	t.Run("pause enabled reads a line", func(t *testing.T) {
		var trace []string
		var out bytes.Buffer
		seq := &Sequence{Out: &out, Stdin: strings.NewReader("\n")}

		plan := testPlan(nil, scriptedStep(&trace, "app", 0, nil))
		plan.Pause = true

		code, err := seq.Run(context.Background(), plan)
		require.NoError(t, err)
		assert.Equal(t, 0, code)

		text := out.String()
		assert.Contains(t, text, "Press Enter to close...")
		// The prompt must come after the exit report so the outcome is
		// visible while the window waits.
		assert.Less(t,
			strings.Index(text, "exited with code 0"),
			strings.Index(text, "Press Enter"))
	})

	t.Run("pause disabled prints no prompt", func(t *testing.T) {
		var trace []string
		var out bytes.Buffer
		seq := &Sequence{Out: &out, Stdin: strings.NewReader("\n")}

		code, err := seq.Run(context.Background(), testPlan(nil, scriptedStep(&trace, "app", 0, nil)))
		require.NoError(t, err)
		assert.Equal(t, 0, code)
		assert.NotContains(t, out.String(), "Press Enter")
	})

	t.Run("pause also happens on app start failure", func(t *testing.T) {
		var trace []string
		var out bytes.Buffer
		seq := &Sequence{Out: &out, Stdin: strings.NewReader("\n")}

		plan := testPlan(nil, scriptedStep(&trace, "app", -1, errors.New("spawn failed")))
		plan.Pause = true

		_, err := seq.Run(context.Background(), plan)
		assert.Error(t, err)
		assert.Contains(t, out.String(), "Press Enter to close...")
	})
}
