// Package preflight verifies that the Python packages the application
// needs are installed and recent enough, and best-effort installs or
// upgrades the ones that are not.
//
// The engine probes each requirement's installed version through the
// selected interpreter, compares it against the minimum with a lightweight
// numeric-dot comparator, and drives pip through a three-rung retry
// ladder: the default index, then --user, then a configured mirror index.
// Progress is reported as tagged lines ([OK]/[MISS]/[PIP]/[FAIL]) on the
// launcher's stdout.
//
// The result is advisory for the launch path (a failed check only warns)
// and gating for the standalone preflight command.
package preflight
