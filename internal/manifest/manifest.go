// Package manifest loads the Python requirements manifest.
//
// The manifest file (requirements.jsonc) is JSONC — JSON with comments —
// so the package table can stay annotated the way an inline requirements
// table would be. github.com/tidwall/jsonc strips the comments and
// trailing commas, then the standard encoding/json does the parsing.
//
// A missing manifest is not an error: the launcher must work from a bare
// double-click, so the built-in default set applies. A malformed manifest
// is an error, since silently launching with the wrong dependency list
// would be worse than stopping.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/botstrap/internal/model"
	"github.com/mmr-tortoise/botstrap/internal/preflight"
)

// fileManifest is the raw JSON structure of requirements.jsonc.
// Fields not listed here are silently ignored.
type fileManifest struct {
	Packages []filePackage `json:"packages"`
}

// filePackage is one entry in the "packages" array.
type filePackage struct {
	// Import is the Python module name used to probe for the package.
	Import string `json:"import"`

	// Pip is the distribution name for pip. Defaults to the import name.
	Pip string `json:"pip,omitempty"`

	// Spec is the pip version specifier, e.g. ">=10.0".
	Spec string `json:"spec,omitempty"`

	// MinVersion is the minimum installed version that counts as
	// satisfied, numeric-dot form.
	MinVersion string `json:"minVersion,omitempty"`
}

// Default returns the built-in requirement set used when no manifest file
// exists: the packages the bot cannot start without.
func Default() []preflight.Requirement {
	return []preflight.Requirement{
		{ImportName: "websockets", PipName: "websockets", Spec: ">=10.0", MinVersion: "10.0"},
		{ImportName: "yaml", PipName: "pyyaml"},
		// Pillow's import name is PIL.
		{ImportName: "PIL", PipName: "Pillow"},
	}
}

// Load reads the manifest at path and returns its requirements.
// A missing file returns the Default set; a present-but-invalid file
// returns a CLIError with ExitManifestError.
func Load(path string) ([]preflight.Requirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, model.WrapCLIError(model.ExitManifestError,
			fmt.Sprintf("failed to read manifest %s", path), err)
	}

	// Strip JSONC comments (// and /* */) and trailing commas before
	// handing the bytes to encoding/json.
	var mf fileManifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &mf); err != nil {
		return nil, model.WrapCLIError(model.ExitManifestError,
			fmt.Sprintf("failed to parse manifest %s", path), err)
	}

	if len(mf.Packages) == 0 {
		return nil, model.NewCLIError(model.ExitManifestError,
			fmt.Sprintf("manifest %s lists no packages", path))
	}

	reqs := make([]preflight.Requirement, 0, len(mf.Packages))
	for i, p := range mf.Packages {
		if p.Import == "" {
			return nil, model.NewCLIError(model.ExitManifestError,
				fmt.Sprintf("manifest %s: packages[%d]: import name is required", path, i))
		}
		if p.MinVersion != "" && !preflight.ValidVersion(p.MinVersion) {
			return nil, model.NewCLIError(model.ExitManifestError,
				fmt.Sprintf("manifest %s: packages[%d]: minVersion %q is not a numeric version", path, i, p.MinVersion))
		}

		pip := p.Pip
		if pip == "" {
			pip = p.Import
		}
		reqs = append(reqs, preflight.Requirement{
			ImportName: p.Import,
			PipName:    pip,
			Spec:       p.Spec,
			MinVersion: p.MinVersion,
		})
	}
	return reqs, nil
}
