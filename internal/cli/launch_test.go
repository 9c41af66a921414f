// launch_test.go contains unit tests for the pure decision helpers used
// by the launch and preflight commands, and for the command wiring.
// The subprocess behavior itself is covered in internal/launch and
// internal/runner.
package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/botstrap/internal/config"
)

// TestResolvePreflightScript verifies the helper-script-vs-built-in
// decision: the script wins only when native is off and the file exists.
func TestResolvePreflightScript(t *testing.T) {
	t.Run("existing script is used", func(t *testing.T) {
		script := filepath.Join(t.TempDir(), "check_and_install.py")
		require.NoError(t, os.WriteFile(script, []byte("print('ok')\n"), 0o644))

		cfg := config.Default()
		cfg.Preflight.Script = script
		assert.Equal(t, script, resolvePreflightScript(cfg))
	})

	t.Run("missing script falls back to built-in", func(t *testing.T) {
		cfg := config.Default()
		cfg.Preflight.Script = filepath.Join(t.TempDir(), "missing.py")
		assert.Empty(t, resolvePreflightScript(cfg))
	})

	t.Run("native forces built-in even when the script exists", func(t *testing.T) {
		script := filepath.Join(t.TempDir(), "check_and_install.py")
		require.NoError(t, os.WriteFile(script, []byte("print('ok')\n"), 0o644))

		cfg := config.Default()
		cfg.Preflight.Script = script
		cfg.Preflight.Native = true
		assert.Empty(t, resolvePreflightScript(cfg))
	})
}

// TestNewRootCommand_Wiring verifies the command surface: the root action
// carries the launch flags (the double-click path needs no subcommand)
// and preflight is registered.
func TestNewRootCommand_Wiring(t *testing.T) {
	rootCmd := NewRootCommand()

	assert.Equal(t, "botstrap", rootCmd.Use)
	assert.NotNil(t, rootCmd.RunE, "bare invocation must launch")

	// Launch flags live on the root command.
	for _, name := range []string{"config", "no-pause", "skip-preflight"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "missing flag --%s", name)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))

	// The preflight subcommand is registered with its own config flag.
	preflightCmd, _, err := rootCmd.Find([]string{"preflight"})
	require.NoError(t, err)
	require.NotNil(t, preflightCmd)
	assert.Equal(t, "preflight", preflightCmd.Name())
	assert.NotNil(t, preflightCmd.Flags().Lookup("config"))
}
