// launch.go implements the launch operation — the root command's action.
//
// Orchestration steps:
//  1. Change to the executable's directory so relative paths (helper
//     script, config, manifest) resolve regardless of the caller's CWD
//  2. Load the launcher config
//  3. Select an interpreter (config override or PATH discovery) and
//     query its version banner
//  4. Choose the dependency-check flavor: the helper script when it
//     exists on disk, otherwise the built-in engine
//  5. Run the sequence: preflight (warn-only), application, exit report,
//     pause
//  6. Propagate the application's exit code as the process exit code
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/botstrap/internal/config"
	"github.com/mmr-tortoise/botstrap/internal/interp"
	"github.com/mmr-tortoise/botstrap/internal/launch"
	"github.com/mmr-tortoise/botstrap/internal/manifest"
	"github.com/mmr-tortoise/botstrap/internal/model"
	"github.com/mmr-tortoise/botstrap/internal/preflight"
	"github.com/mmr-tortoise/botstrap/internal/runner"
)

// launchFlags holds the flag values for the launch operation.
type launchFlags struct {
	configPath    string // --config: launcher config file path
	noPause       bool   // --no-pause: skip the final acknowledgment
	skipPreflight bool   // --skip-preflight: skip the dependency check
}

// bindLaunchFlags registers the launch flags on a command. The root
// command carries them because launching is the root action.
func bindLaunchFlags(cmd *cobra.Command, flags *launchFlags) {
	cmd.Flags().StringVar(&flags.configPath, "config", config.DefaultFile,
		"Launcher config file (relative to the executable)")
	cmd.Flags().BoolVar(&flags.noPause, "no-pause", false,
		"Exit immediately instead of waiting for Enter")
	cmd.Flags().BoolVar(&flags.skipPreflight, "skip-preflight", false,
		"Skip the dependency check entirely")
}

// runLaunch performs the full launch sequence and converts the
// application's exit status into the launcher's own.
func runLaunch(ctx context.Context, flags *launchFlags) error {
	// Step 1: operate relative to the executable, not the caller's CWD,
	// so a double-clicked launch finds its helper script and config.
	chdirToExecutable()

	// Step 2: load config (missing file = defaults).
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	r := runner.New()

	// Step 3: select the interpreter and its version banner.
	in, version := resolveInterpreter(ctx, r, cfg)
	VerboseLog("interpreter: %s (%s)", in, version)

	plan := launch.Plan{
		Interp:        in,
		InterpVersion: version,
		AppModule:     cfg.App.Module,
		App:           launch.CommandStep(r, in, []string{"-m", cfg.App.Module}),
		Pause:         cfg.PauseEnabled() && !flags.noPause,
	}

	// Step 4: choose the dependency-check flavor.
	if !flags.skipPreflight {
		if script := resolvePreflightScript(cfg); script != "" {
			VerboseLog("dependency check: helper script %s", script)
			plan.Preflight = launch.CommandStep(r, in, []string{script})
			plan.PreflightName = script
		} else {
			reqs, mErr := manifest.Load(cfg.Manifest)
			if mErr != nil {
				return mErr
			}
			VerboseLog("dependency check: built-in engine, %d package(s)", len(reqs))
			plan.Preflight = nativePreflightStep(r, in, cfg.Preflight.Mirror, reqs)
			plan.PreflightName = "built-in dependency check"
		}
	}

	// Steps 5-6: run the sequence and propagate the application's code.
	seq := &launch.Sequence{Out: os.Stdout, Stdin: os.Stdin}
	code, err := seq.Run(ctx, plan)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to start %s", cfg.App.Module), err)
	}
	if code != 0 {
		// The sequence already reported the code; pass it through
		// quietly as the launcher's own exit status.
		return model.NewExitStatusError(code)
	}
	return nil
}

// chdirToExecutable changes the working directory to the directory
// containing the launcher binary. Failure is tolerated: relative paths
// then resolve against the caller's CWD, which is the best remaining
// behavior.
func chdirToExecutable() {
	exePath, err := os.Executable()
	if err != nil {
		VerboseLog("could not locate executable: %v", err)
		return
	}
	if err := os.Chdir(filepath.Dir(exePath)); err != nil {
		VerboseLog("could not change to executable directory: %v", err)
	}
}

// resolveInterpreter returns the interpreter invocation and its version
// banner: the config override when set, PATH discovery otherwise.
func resolveInterpreter(ctx context.Context, r *runner.Runner, cfg config.Config) (interp.Interpreter, string) {
	var in interp.Interpreter
	if cfg.Interpreter != "" {
		in = interp.Parse(cfg.Interpreter)
	} else {
		in = interp.NewDetector().Detect()
	}
	return in, interp.Version(ctx, r, in)
}

// resolvePreflightScript returns the helper script path to run as the
// dependency check, or "" when the built-in engine should be used
// (native forced, or the script is not on disk).
func resolvePreflightScript(cfg config.Config) string {
	if cfg.Preflight.Native {
		return ""
	}
	script := filepath.FromSlash(cfg.Preflight.Script)
	if _, err := os.Stat(script); err != nil {
		return ""
	}
	return script
}

// nativePreflightStep adapts the built-in check/install engine to a
// launch step: its status code stands in for the helper script's exit
// code, and the launch sequence treats both identically (warn, continue).
func nativePreflightStep(r *runner.Runner, in interp.Interpreter, mirror string, reqs []preflight.Requirement) launch.Step {
	return func(ctx context.Context) (int, error) {
		checker := &preflight.Checker{
			Pip:    &preflight.InterpPip{Interp: in, Runner: r},
			Probe:  &preflight.InterpProbe{Interp: in, Runner: r},
			Mirror: mirror,
			Out:    os.Stdout,
		}
		if checker.Check(ctx, reqs).AllOK() {
			return 0, nil
		}
		return 1, nil
	}
}
