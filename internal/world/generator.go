package world

import (
	"fmt"
	"math"
)

// Default generation parameters.
const (
	DefaultSpawnProbability = 0.1
	DefaultMaxItems         = 3
)

// Generator decides, per cell, whether a cache exists and how many coins it starts with.
// Both decisions are pure functions of the cell, so eager and lazy callers agree.
type Generator struct {
	SpawnProbability float64 // Chance in [0, 1] that a cell holds a cache
	MaxItems         int     // Exclusive upper bound on the initial coin count
}

// NewGenerator creates a generator with the given parameters.
func NewGenerator(spawnProbability float64, maxItems int) Generator {
	return Generator{
		SpawnProbability: spawnProbability,
		MaxItems:         maxItems,
	}
}

// Validate reports parameters that cannot produce sensible caches.
func (g Generator) Validate() error {
	if math.IsNaN(g.SpawnProbability) || g.SpawnProbability < 0 || g.SpawnProbability > 1 {
		return fmt.Errorf("spawn probability %v outside [0, 1]", g.SpawnProbability)
	}
	if g.MaxItems < 0 {
		return fmt.Errorf("max items %d is negative", g.MaxItems)
	}
	return nil
}

// ShouldSpawn returns true if the cell holds a cache.
func (g Generator) ShouldSpawn(cell CellID) bool {
	return Luck(SaltedKey(cell, SpawnSalt)) < g.SpawnProbability
}

// InitialItemCount returns how many coins a cache in the cell starts with, in [0, MaxItems).
func (g Generator) InitialItemCount(cell CellID) int {
	if g.MaxItems <= 0 {
		return 0
	}
	return int(math.Floor(Luck(SaltedKey(cell, CountSalt)) * float64(g.MaxItems)))
}
