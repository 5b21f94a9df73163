package gamedata

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/cachequest/internal/world"
)

// LatLng is a JSON-friendly position.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Palette holds hex colors for map markers.
type Palette struct {
	Cache  string `json:"cache"`  // Cache with coins
	Empty  string `json:"empty"`  // Cache with no coins
	Player string `json:"player"` // Player marker
	Ground string `json:"ground"` // Background of cells without a cache
}

// PresetDef defines a set of generation parameters loaded from JSON.
type PresetDef struct {
	ID               string  `json:"id"`               // Unique identifier (e.g., "classic")
	Name             string  `json:"name"`             // Display name
	Description      string  `json:"description"`      // One-line summary
	CellSize         float64 `json:"cellSize"`         // Grid cell side in degrees
	SpawnProbability float64 `json:"spawnProbability"` // Chance a cell holds a cache
	MaxItems         int     `json:"maxItems"`         // Exclusive bound on starting coins
	VisibilityRadius int     `json:"visibilityRadius"` // Cells generated around the player
	Start            LatLng  `json:"start"`            // Player start position
	HideEmpty        bool    `json:"hideEmpty"`        // Skip caches with no coins when listing
	Colors           Palette `json:"colors"`
}

// Generator returns the cache generator described by the preset.
func (p *PresetDef) Generator() world.Generator {
	return world.NewGenerator(p.SpawnProbability, p.MaxItems)
}

// Grid returns the grid described by the preset.
func (p *PresetDef) Grid() world.Grid {
	return world.NewGrid(p.CellSize)
}

// StartPosition returns the start as a world.Position.
func (p *PresetDef) StartPosition() world.Position {
	return world.Position{Lat: p.Start.Lat, Lng: p.Start.Lng}
}

// Validate checks that the preset describes a usable world.
func (p *PresetDef) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("preset has no id")
	}
	if p.CellSize <= 0 {
		return fmt.Errorf("preset %s: cell size %v must be positive", p.ID, p.CellSize)
	}
	if p.VisibilityRadius < 0 {
		return fmt.Errorf("preset %s: visibility radius %d is negative", p.ID, p.VisibilityRadius)
	}
	if err := p.Generator().Validate(); err != nil {
		return fmt.Errorf("preset %s: %w", p.ID, err)
	}
	return nil
}

// TCellColor returns the named palette color, or fallback if it does not parse.
func (p Palette) TCellColor(hex string, fallback tcell.Color) tcell.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		return fallback
	}
	return color
}

// PresetsFile represents the structure of presets.json.
type PresetsFile struct {
	Default string      `json:"default"`
	Presets []PresetDef `json:"presets"`
}

// LoadPresets loads preset definitions from the embedded presets.json file.
func LoadPresets() (PresetsFile, error) {
	return Load[PresetsFile]("presets.json")
}
