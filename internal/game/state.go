// Package game runs a cache-hunting session and its terminal loop.
package game

// State represents the current game state.
type State int

const (
	// StateExplore is the default mode: the player walks the grid.
	StateExplore State = iota
	// StateCacheOpen means the player stands on a cache and can collect or deposit.
	StateCacheOpen
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateCacheOpen:
		return "cache"
	default:
		return "unknown"
	}
}
