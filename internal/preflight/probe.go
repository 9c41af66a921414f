package preflight

import (
	"context"
	"strings"

	"github.com/mmr-tortoise/botstrap/internal/interp"
	"github.com/mmr-tortoise/botstrap/internal/runner"
)

// probeScript asks the interpreter for a module's version. It prints the
// version (possibly empty) and exits 0 when the module imports, and exits
// 3 when it does not — distinguishing "not installed" from "interpreter
// broken". __version__ is tried first; importlib.metadata covers packages
// that stopped exporting it.
const probeScript = `import importlib, sys
name = sys.argv[1]
try:
    mod = importlib.import_module(name)
except Exception:
    sys.exit(3)
ver = getattr(mod, "__version__", "")
if not ver:
    try:
        from importlib.metadata import version
        ver = version(name)
    except Exception:
        ver = ""
print(ver)
`

// InterpProbe is the production VersionProbe: it runs the probe script
// with the selected interpreter.
type InterpProbe struct {
	Interp interp.Interpreter
	Runner *runner.Runner
}

// InstalledVersion reports the installed version of importName, or ""
// when the module cannot be imported. The error is non-nil only when the
// interpreter itself could not run the probe.
func (p *InterpProbe) InstalledVersion(ctx context.Context, importName string) (string, error) {
	out, code, err := p.Runner.CombinedOutput(ctx, runner.Spec{
		Command: p.Interp.Command,
		Args:    p.Interp.Argv("-c", probeScript, importName),
	})
	if err != nil {
		return "", err
	}
	if code != 0 {
		// Exit 3 is the script's "does not import"; any other failure
		// equally means the module is unusable as installed.
		return "", nil
	}

	// Import-time warnings may precede the version on the combined
	// stream; the version is the last non-empty line.
	version := ""
	for _, line := range strings.Split(out, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			version = trimmed
		}
	}
	return version, nil
}

// InterpPip is the production PipRunner: it drives `<interpreter> -m pip`
// with the launcher's stdio attached so install progress streams through.
type InterpPip struct {
	Interp interp.Interpreter
	Runner *runner.Runner
}

// RunPip invokes pip with the given arguments and reports its exit status.
func (p *InterpPip) RunPip(ctx context.Context, args ...string) (int, error) {
	spec := runner.Spec{
		Command:      p.Interp.Command,
		Args:         p.Interp.Argv(append([]string{"-m", "pip"}, args...)...),
		InheritStdio: true,
	}
	return p.Runner.Run(ctx, spec)
}
