package world

import "github.com/cespare/xxhash/v2"

// Salts keep the spawn and count draws for one cell independent.
const (
	SpawnSalt = "spawn"
	CountSalt = "count"
)

// Luck maps key to a stable pseudo-random value in [0, 1).
// The same key yields the same value on every call and every run.
func Luck(key string) float64 {
	// Top 53 bits fill the float64 mantissa exactly.
	return float64(xxhash.Sum64String(key)>>11) / (1 << 53)
}

// SaltedKey joins a cell key and a salt the way every draw expects.
func SaltedKey(cell CellID, salt string) string {
	return cell.Key() + ":" + salt
}
