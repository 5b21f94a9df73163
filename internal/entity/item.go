// Package entity provides the coins, caches and player that make up a session.
package entity

import (
	"strconv"

	"github.com/samdwyer/cachequest/internal/world"
)

// Item is a coin, identified by the cell of the cache that minted it and a serial
// unique within that cache. Items are values and never change once minted.
type Item struct {
	Cell   world.CellID // Cell of the cache the coin came from
	Serial int          // Mint order within that cache, starting at 0
}

// String returns the coin label, e.g. "369895:-1220628#0".
func (i Item) String() string {
	return strconv.Itoa(i.Cell.Row) + ":" + strconv.Itoa(i.Cell.Col) + "#" + strconv.Itoa(i.Serial)
}
