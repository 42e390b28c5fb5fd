package scenario

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed presets/*.json
var presetFS embed.FS

// PresetNames lists the built-in demo scenarios.
func PresetNames() []string {
	entries, err := fs.ReadDir(presetFS, "presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

// Preset returns a freshly decoded copy of a built-in scenario.
func Preset(name string) (*Scenario, error) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return Parse(data)
}

// Resolve loads name as a preset when one exists, otherwise as a file path.
func Resolve(name string) (*Scenario, error) {
	for _, p := range PresetNames() {
		if p == name {
			return Preset(name)
		}
	}
	return Load(name)
}
