package gamedata

import "fmt"

// PresetRegistry holds loaded preset definitions and provides lookup utilities.
type PresetRegistry struct {
	presets   map[string]*PresetDef
	all       []PresetDef
	defaultID string
}

// NewPresetRegistry creates a registry from loaded presets. defaultID must name one of them.
func NewPresetRegistry(presets []PresetDef, defaultID string) (*PresetRegistry, error) {
	registry := &PresetRegistry{
		presets:   make(map[string]*PresetDef),
		all:       presets,
		defaultID: defaultID,
	}
	for i := range presets {
		if err := presets[i].Validate(); err != nil {
			return nil, err
		}
		if _, dup := registry.presets[presets[i].ID]; dup {
			return nil, fmt.Errorf("duplicate preset id %q", presets[i].ID)
		}
		registry.presets[presets[i].ID] = &presets[i]
	}
	if registry.presets[defaultID] == nil {
		return nil, fmt.Errorf("default preset %q not defined", defaultID)
	}
	return registry, nil
}

// LoadPresetRegistry loads and creates a registry from the embedded presets.json.
func LoadPresetRegistry() (*PresetRegistry, error) {
	return LoadPresetRegistryFrom(dataFS, "presets.json")
}

// MustLoadPresetRegistry loads a registry, panicking on error.
func MustLoadPresetRegistry() *PresetRegistry {
	registry, err := LoadPresetRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the preset with the given ID, or nil if not found.
func (r *PresetRegistry) GetByID(id string) *PresetDef {
	return r.presets[id]
}

// Default returns the default preset.
func (r *PresetRegistry) Default() *PresetDef {
	return r.presets[r.defaultID]
}

// All returns all preset definitions.
func (r *PresetRegistry) All() []PresetDef {
	return r.all
}

// Count returns the number of presets in the registry.
func (r *PresetRegistry) Count() int {
	return len(r.all)
}
