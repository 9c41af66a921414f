// preflight.go implements the "botstrap preflight" command.
//
// Unlike the launch path — where a failed dependency check is a warning —
// this command exists to answer "are the dependencies OK", so it IS
// gated: unsatisfied requirements exit with ExitPreflightFailed.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/botstrap/internal/config"
	"github.com/mmr-tortoise/botstrap/internal/manifest"
	"github.com/mmr-tortoise/botstrap/internal/model"
	"github.com/mmr-tortoise/botstrap/internal/preflight"
	"github.com/mmr-tortoise/botstrap/internal/runner"
)

// preflightFlags holds the flag values for the preflight command.
type preflightFlags struct {
	configPath string // --config: launcher config file path
}

// NewPreflightCommand creates the "preflight" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewPreflightCommand() *cobra.Command {
	flags := &preflightFlags{}

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check and install the application's Python dependencies",
		Long: `Run only the dependency check: verify each required package is installed
and recent enough, and best-effort install or upgrade the ones that are not.

Uses the same check the launch performs — the helper script when present,
the built-in engine otherwise — but exits non-zero when requirements
remain unsatisfied.

Examples:
  botstrap preflight
  botstrap preflight --config custom.yml`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreflight(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", config.DefaultFile,
		"Launcher config file (relative to the executable)")

	return cmd
}

// runPreflight performs the gated dependency check.
func runPreflight(ctx context.Context, flags *preflightFlags) error {
	// Same executable-relative resolution as the launch path.
	chdirToExecutable()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	r := runner.New()
	in, version := resolveInterpreter(ctx, r, cfg)
	fmt.Printf("Using interpreter: %s (%s)\n", in, version)

	// Prefer the helper script when present, exactly like launch, so the
	// two paths cannot disagree about what "the dependency check" means.
	if script := resolvePreflightScript(cfg); script != "" {
		VerboseLog("running helper script %s", script)
		code, runErr := r.Run(ctx, runner.Spec{
			Command:      in.Command,
			Args:         in.Argv(script),
			InheritStdio: true,
		})
		if runErr != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to run %s", script), runErr)
		}
		if code != 0 {
			return model.NewCLIError(model.ExitPreflightFailed,
				fmt.Sprintf("dependency check %s exited with code %d", script, code))
		}
		return nil
	}

	reqs, err := manifest.Load(cfg.Manifest)
	if err != nil {
		return err
	}

	checker := &preflight.Checker{
		Pip:    &preflight.InterpPip{Interp: in, Runner: r},
		Probe:  &preflight.InterpProbe{Interp: in, Runner: r},
		Mirror: cfg.Preflight.Mirror,
		Out:    os.Stdout,
	}

	report := checker.Check(ctx, reqs)
	if failed := report.Failed(); len(failed) > 0 {
		return model.NewCLIError(model.ExitPreflightFailed,
			fmt.Sprintf("%d package(s) could not be satisfied", len(failed)))
	}
	return nil
}
