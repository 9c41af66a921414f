package preflight

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Requirement describes one Python package the application needs.
type Requirement struct {
	// ImportName is the module name used to probe for the package
	// (e.g. "PIL" for the Pillow distribution).
	ImportName string

	// PipName is the distribution name given to pip (e.g. "Pillow").
	PipName string

	// Spec is an optional pip version specifier appended to the
	// distribution name on install, e.g. ">=10.0".
	Spec string

	// MinVersion is the minimum installed version that counts as
	// satisfied. Empty means any installed version is fine.
	MinVersion string
}

// Target returns the pip install target: the distribution name plus the
// version specifier, e.g. "websockets>=10.0".
func (r Requirement) Target() string {
	if r.Spec != "" {
		return r.PipName + r.Spec
	}
	return r.PipName
}

// Action describes what Ensure did (or failed to do) for a requirement.
type Action string

const (
	// ActionNone: the requirement was already satisfied.
	ActionNone Action = "none"

	// ActionInstalled: the package was missing and is now installed.
	ActionInstalled Action = "installed"

	// ActionUpgraded: the package was outdated and is now current.
	ActionUpgraded Action = "upgraded"

	// ActionFailed: the requirement is still unsatisfied.
	ActionFailed Action = "failed"
)

// CheckResult is the outcome of Ensure for a single requirement.
type CheckResult struct {
	Requirement      Requirement
	InstalledVersion string
	Action           Action
}

// OK reports whether the requirement ended up satisfied.
func (c CheckResult) OK() bool {
	return c.Action != ActionFailed
}

// Report aggregates the outcomes of a full check run.
type Report struct {
	Results []CheckResult
}

// AllOK reports whether every requirement ended up satisfied.
func (r Report) AllOK() bool {
	for _, res := range r.Results {
		if !res.OK() {
			return false
		}
	}
	return true
}

// Failed returns the results that remain unsatisfied.
func (r Report) Failed() []CheckResult {
	var failed []CheckResult
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// VersionProbe reports the installed version of a Python module.
// An empty version with a nil error means the module is not installed.
type VersionProbe interface {
	InstalledVersion(ctx context.Context, importName string) (string, error)
}

// PipRunner invokes pip with the given arguments using the selected
// interpreter and reports the process exit status.
type PipRunner interface {
	RunPip(ctx context.Context, args ...string) (int, error)
}

// Checker runs requirement checks and best-effort installs.
type Checker struct {
	// Pip drives `<interpreter> -m pip`.
	Pip PipRunner

	// Probe reports installed module versions via the interpreter.
	Probe VersionProbe

	// Mirror is the fallback package index URL for the last retry rung.
	// Empty disables the mirror rung.
	Mirror string

	// Out receives the tagged progress lines.
	Out io.Writer
}

// Check runs Ensure over all requirements and aggregates a Report.
// It never stops early: every requirement gets its chance, and the
// summary names whatever is still missing at the end.
func (c *Checker) Check(ctx context.Context, reqs []Requirement) Report {
	report := Report{Results: make([]CheckResult, 0, len(reqs))}
	for _, req := range reqs {
		report.Results = append(report.Results, c.Ensure(ctx, req))
	}

	if failed := report.Failed(); len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for _, f := range failed {
			names = append(names, f.Requirement.PipName)
		}
		fmt.Fprintf(c.Out, "[WARN] unsatisfied packages: %s\n", strings.Join(names, ", "))
	} else {
		fmt.Fprintf(c.Out, "[DONE] all dependencies are ready\n")
	}
	return report
}

// Ensure makes a single requirement satisfied if it can: probe the
// installed version, install or upgrade through the retry ladder when
// needed, then re-probe and re-compare to confirm.
func (c *Checker) Ensure(ctx context.Context, req Requirement) CheckResult {
	current, err := c.Probe.InstalledVersion(ctx, req.ImportName)
	if err != nil {
		// A probe that cannot run at all is treated like a missing
		// package: the install attempt below surfaces the real problem.
		fmt.Fprintf(c.Out, "[WARN] could not probe %s: %v\n", req.ImportName, err)
		current = ""
	}

	upgrade := false
	switch {
	case current != "" && (req.MinVersion == "" || !VersionLess(current, req.MinVersion)):
		fmt.Fprintf(c.Out, "[OK  ] found %s==%s\n", req.ImportName, current)
		return CheckResult{Requirement: req, InstalledVersion: current, Action: ActionNone}
	case current != "":
		fmt.Fprintf(c.Out, "[OLD ] %s==%s is below required %s, upgrading\n",
			req.ImportName, current, req.MinVersion)
		upgrade = true
	default:
		fmt.Fprintf(c.Out, "[MISS] %s not found, will install %s\n", req.ImportName, req.Target())
	}

	if !c.install(ctx, req.Target(), upgrade) {
		fmt.Fprintf(c.Out, "[FAIL] could not install %s\n", req.Target())
		return CheckResult{Requirement: req, InstalledVersion: current, Action: ActionFailed}
	}

	// Confirm the install actually took: the package must import and
	// must now meet the minimum version.
	installed, err := c.Probe.InstalledVersion(ctx, req.ImportName)
	if err != nil || installed == "" {
		fmt.Fprintf(c.Out, "[FAIL] installed %s but cannot import %s\n", req.Target(), req.ImportName)
		return CheckResult{Requirement: req, Action: ActionFailed}
	}
	if req.MinVersion != "" && VersionLess(installed, req.MinVersion) {
		fmt.Fprintf(c.Out, "[FAIL] %s==%s is still below required %s\n",
			req.ImportName, installed, req.MinVersion)
		return CheckResult{Requirement: req, InstalledVersion: installed, Action: ActionFailed}
	}

	fmt.Fprintf(c.Out, "[OK  ] %s is ready (%s)\n", req.ImportName, installed)
	action := ActionInstalled
	if upgrade {
		action = ActionUpgraded
	}
	return CheckResult{Requirement: req, InstalledVersion: installed, Action: action}
}

// install walks the retry ladder: default index, then --user (for hosts
// where the site-packages directory is not writable), then the mirror
// index. The first rung that exits 0 wins.
func (c *Checker) install(ctx context.Context, target string, upgrade bool) bool {
	base := []string{"install"}
	if upgrade {
		base = append(base, "--upgrade")
	}

	attempts := [][]string{
		appendArgs(base, target),
		appendArgs(base, "--user", target),
	}
	if c.Mirror != "" {
		attempts = append(attempts, appendArgs(base, "-i", c.Mirror, target))
	}

	for i, args := range attempts {
		if i == 0 {
			fmt.Fprintf(c.Out, "[PIP ] pip %s\n", strings.Join(args, " "))
		} else {
			fmt.Fprintf(c.Out, "[PIP ] retrying: pip %s\n", strings.Join(args, " "))
		}

		code, err := c.Pip.RunPip(ctx, args...)
		if err != nil {
			fmt.Fprintf(c.Out, "[ERR ] pip could not run: %v\n", err)
			continue
		}
		if code == 0 {
			return true
		}
		fmt.Fprintf(c.Out, "[ERR ] pip failed (exit code %d)\n", code)
	}
	return false
}

// appendArgs copies base and appends extra, so the retry rungs never
// share backing arrays.
func appendArgs(base []string, extra ...string) []string {
	args := make([]string, 0, len(base)+len(extra))
	args = append(args, base...)
	args = append(args, extra...)
	return args
}
