// Package main is the entry point for CacheQuest.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/samdwyer/cachequest/internal/config"
	"github.com/samdwyer/cachequest/internal/game"
	"github.com/samdwyer/cachequest/internal/telemetry"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_CACHEQUEST_API_KEY available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Debug("no .env file loaded", "err", err)
	}

	cfg, err := config.Parse()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	// The terminal belongs to the game screen, so logs go to a file
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatal("open log file", "path", cfg.LogFile, "err", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetReportTimestamp(true)

	level, err := cfg.Level()
	if err != nil {
		log.Warn("falling back to info level", "err", err)
	}
	log.SetLevel(level)

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Warn("telemetry disabled, game will run without observability", "err", err)
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Error("shutting down telemetry", "err", err)
			}
		}()
	}

	presets, err := cfg.LoadPresets()
	if err != nil {
		log.Fatal("load presets", "err", err)
	}
	settings, err := cfg.Resolve(presets)
	if err != nil {
		log.Fatal("resolve settings", "err", err)
	}
	log.Info("starting",
		"preset", settings.Preset.ID,
		"cell_size", settings.Session.Grid.CellSize,
		"spawn_probability", settings.Session.Generator.SpawnProbability,
		"max_items", settings.Session.Generator.MaxItems,
		"radius", settings.Session.VisibilityRadius,
	)

	g, err := game.New(settings.Session, settings.Preset.Colors)
	if err != nil {
		log.Fatal("initialize game", "err", err)
	}

	if err := g.Run(ctx); err != nil {
		log.Fatal("game error", "err", err)
	}
}
