// Package config loads the launcher configuration file (botstrap.yml).
//
// Every field has a working default because the primary invocation is a
// bare double-click next to the application: a missing file yields pure
// defaults, a present file only overrides what it names, and only a file
// that exists but cannot be parsed is an error.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/botstrap/internal/model"
)

// Defaults for every configurable value. The preflight script path and
// mirror URL mirror the helper the launcher historically invoked.
const (
	// DefaultFile is the config file name, looked up next to the
	// executable.
	DefaultFile = "botstrap.yml"

	// DefaultModule is the application module run as `-m <module>`.
	DefaultModule = "bot.main"

	// DefaultPreflightScript is the dependency helper script, relative
	// to the executable's directory. Slash-separated here; callers
	// convert with filepath.FromSlash.
	DefaultPreflightScript = "scripts/check_and_install.py"

	// DefaultMirror is the fallback package index for the last install
	// retry rung.
	DefaultMirror = "https://pypi.tuna.tsinghua.edu.cn/simple"

	// DefaultManifest is the requirements manifest file name.
	DefaultManifest = "requirements.jsonc"
)

// Config is the launcher configuration.
type Config struct {
	// App configures the application step.
	App AppConfig `yaml:"app"`

	// Preflight configures the dependency-check step.
	Preflight PreflightConfig `yaml:"preflight"`

	// Manifest is the requirements manifest path.
	Manifest string `yaml:"manifest"`

	// Pause controls the final press-Enter acknowledgment. Pointer so
	// "absent" (default true) is distinguishable from an explicit false.
	Pause *bool `yaml:"pause"`

	// Interpreter optionally pins the interpreter invocation
	// (e.g. "python3" or "py -3.11"), bypassing discovery.
	Interpreter string `yaml:"interpreter"`
}

// AppConfig configures the application step.
type AppConfig struct {
	// Module is the module run as `<interpreter> -m <module>`.
	Module string `yaml:"module"`
}

// PreflightConfig configures the dependency-check step.
type PreflightConfig struct {
	// Script is the helper script invoked as the dependency check when
	// it exists on disk.
	Script string `yaml:"script"`

	// Native forces the built-in check/install engine even when the
	// helper script exists.
	Native bool `yaml:"native"`

	// Mirror is the fallback package index URL for the built-in engine.
	Mirror string `yaml:"mirror"`
}

// PauseEnabled reports whether the final acknowledgment pause is on.
// Absent means on: the double-click audience is the one that needs it.
func (c Config) PauseEnabled() bool {
	return c.Pause == nil || *c.Pause
}

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the config file at path. A missing file returns Default();
// a file that exists but cannot be parsed returns a CLIError with
// ExitConfigError.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to read config %s", path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to parse config %s", path), err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills every unset field. A partial file only overrides
// what it names.
func (c *Config) applyDefaults() {
	if c.App.Module == "" {
		c.App.Module = DefaultModule
	}
	if c.Preflight.Script == "" {
		c.Preflight.Script = DefaultPreflightScript
	}
	if c.Preflight.Mirror == "" {
		c.Preflight.Mirror = DefaultMirror
	}
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
}
