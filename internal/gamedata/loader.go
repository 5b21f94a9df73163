package gamedata

import (
	"encoding/json"
	"fmt"
	"io/fs"
)

// Load reads and unmarshals a JSON file from the embedded filesystem.
func Load[T any](filename string) (T, error) {
	return LoadFrom[T](dataFS, filename)
}

// LoadFrom reads and unmarshals a JSON file from fsys.
// Use it with os.DirFS to override the embedded data.
func LoadFrom[T any](fsys fs.FS, filename string) (T, error) {
	var result T

	content, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON from %s: %w", filename, err)
	}

	return result, nil
}

// LoadPresetRegistryFrom builds a registry from a presets file in fsys.
func LoadPresetRegistryFrom(fsys fs.FS, filename string) (*PresetRegistry, error) {
	file, err := LoadFrom[PresetsFile](fsys, filename)
	if err != nil {
		return nil, err
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("no presets loaded from %s", filename)
	}
	return NewPresetRegistry(file.Presets, file.Default)
}
