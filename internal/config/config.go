// Package config reads runtime settings from the environment and merges them
// over the selected generation preset.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"

	"github.com/samdwyer/cachequest/internal/game"
	"github.com/samdwyer/cachequest/internal/gamedata"
	"github.com/samdwyer/cachequest/internal/telemetry"
	"github.com/samdwyer/cachequest/internal/world"
)

// Config is the process configuration. Pointer fields are optional preset overrides.
type Config struct {
	Preset      string `env:"CACHEQUEST_PRESET"`       // Empty selects the presets file default
	PresetsFile string `env:"CACHEQUEST_PRESETS_FILE"` // Replaces the embedded presets.json

	CellSize         *float64 `env:"CACHEQUEST_CELL_SIZE"`
	SpawnProbability *float64 `env:"CACHEQUEST_SPAWN_PROBABILITY"`
	MaxItems         *int     `env:"CACHEQUEST_MAX_ITEMS"` // 0 keeps the preset value
	VisibilityRadius *int     `env:"CACHEQUEST_VISIBILITY_RADIUS"`
	StartLat         *float64 `env:"CACHEQUEST_START_LAT"`
	StartLng         *float64 `env:"CACHEQUEST_START_LNG"`
	HideEmpty        *bool    `env:"CACHEQUEST_HIDE_EMPTY"`

	MemoizeAbsent bool `env:"CACHEQUEST_MEMOIZE_ABSENT" envDefault:"true"`

	LogFile  string `env:"LOG_FILE"  envDefault:"cachequest.log"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Telemetry telemetry.Config
}

// Settings is a resolved configuration ready to start a game.
type Settings struct {
	Preset  *gamedata.PresetDef
	Session game.SessionConfig
}

// Parse reads Config from the process environment.
func Parse() (Config, error) {
	return ParseEnviron(env.ToMap(os.Environ()))
}

// ParseEnviron reads Config from the given variables instead of the process environment.
func ParseEnviron(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Level returns the configured log level.
func (c Config) Level() (log.Level, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// LoadPresets returns the embedded presets, or those in PresetsFile when it is set.
func (c Config) LoadPresets() (*gamedata.PresetRegistry, error) {
	if c.PresetsFile == "" {
		return gamedata.LoadPresetRegistry()
	}
	dir, name := filepath.Split(c.PresetsFile)
	if dir == "" {
		dir = "."
	}
	registry, err := gamedata.LoadPresetRegistryFrom(os.DirFS(dir), name)
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}
	return registry, nil
}

// Resolve picks the configured preset and applies the environment overrides to it.
func (c Config) Resolve(presets *gamedata.PresetRegistry) (Settings, error) {
	preset := presets.Default()
	if c.Preset != "" {
		preset = presets.GetByID(c.Preset)
		if preset == nil {
			return Settings{}, fmt.Errorf("unknown preset %q", c.Preset)
		}
	}

	session := game.SessionConfig{
		Grid:             preset.Grid(),
		Generator:        preset.Generator(),
		Start:            preset.StartPosition(),
		VisibilityRadius: preset.VisibilityRadius,
		MemoizeAbsent:    c.MemoizeAbsent,
		HideEmptyCaches:  preset.HideEmpty,
	}

	if c.CellSize != nil {
		session.Grid = world.NewGrid(*c.CellSize)
	}
	if c.SpawnProbability != nil {
		session.Generator.SpawnProbability = *c.SpawnProbability
	}
	if c.MaxItems != nil && *c.MaxItems != 0 {
		session.Generator.MaxItems = *c.MaxItems
	}
	if c.VisibilityRadius != nil {
		session.VisibilityRadius = *c.VisibilityRadius
	}
	if c.StartLat != nil {
		session.Start.Lat = *c.StartLat
	}
	if c.StartLng != nil {
		session.Start.Lng = *c.StartLng
	}
	if c.HideEmpty != nil {
		session.HideEmptyCaches = *c.HideEmpty
	}

	if err := session.Validate(); err != nil {
		return Settings{}, fmt.Errorf("preset %s with overrides: %w", preset.ID, err)
	}
	return Settings{Preset: preset, Session: session}, nil
}
