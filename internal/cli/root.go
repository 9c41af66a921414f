// Package cli implements the cobra-based CLI commands for botstrap.
//
// The root command IS the launcher: running botstrap with no arguments
// performs the two-step launch, because the primary invocation is a
// double-click that passes nothing. The preflight subcommand exposes the
// dependency check on its own.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/botstrap/internal/model"
)

// verbose enables detailed logging output for debugging.
// When true, additional information about operations is printed to stderr.
// Bound to a persistent flag on the root command.
var verbose bool

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
func NewRootCommand() *cobra.Command {
	flags := &launchFlags{}

	rootCmd := &cobra.Command{
		Use:   "botstrap",
		Short: "Two-step launcher for a Python application",
		Long: `botstrap starts a Python application the way its original batch launcher
did: pick an interpreter (the py launcher when available, plain python
otherwise), run the dependency check, then run the application module, and
exit with the application's own exit code.

The dependency check is best-effort — a failure there is a warning, never
a gate. Running botstrap with no arguments launches; the double-click path
needs no flags.`,

		// The root command takes no positional arguments — the launcher
		// accepts no invocation surface beyond its flags.
		Args: cobra.NoArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Execute formats errors itself and maps them to exit codes.
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// RunE is used instead of Run so we can return errors. The bare
		// root invocation is the launch operation itself.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd.Context(), flags)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Launch flags live on the root command because launching IS the
	// root action.
	bindLaunchFlags(rootCmd, flags)

	rootCmd.AddCommand(NewPreflightCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// Three error shapes reach this point:
//   - ExitStatusError: the application ran and exited non-zero. The
//     launch sequence already reported the code, so exit quietly with it.
//   - CLIError: a launcher failure carrying its own exit code.
//   - anything else: generic failure, exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var statusErr *model.ExitStatusError
		if errors.As(err, &statusErr) {
			os.Exit(statusErr.Code)
		}

		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message on stderr. Stdout stays reserved
// for the launcher's status lines.
func printError(message string, underlying error) {
	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
// Used for debug/trace output that helps users understand what the
// launcher decided (which interpreter, which preflight flavor).
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
