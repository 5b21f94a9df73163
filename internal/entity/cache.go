package entity

import "github.com/samdwyer/cachequest/internal/world"

// Cache is a container of coins bound to one grid cell.
// Its stock is only reachable through the ItemCollection methods, so a cache
// is a single collection as far as Transfer is concerned.
type Cache struct {
	Cell       world.CellID
	stock      *Stock
	nextSerial int
}

// NewCache creates a cache for cell stocked with n freshly minted coins (serials 0..n-1).
func NewCache(cell world.CellID, n int) *Cache {
	c := &Cache{
		Cell:  cell,
		stock: NewStock(),
	}
	for i := 0; i < n; i++ {
		c.Put(c.Mint())
	}
	return c
}

// Items returns a copy of the held coins in order.
func (c *Cache) Items() []Item { return c.stock.Items() }

// Len returns the number of held coins.
func (c *Cache) Len() int { return c.stock.Len() }

// Contains returns true if item is held.
func (c *Cache) Contains(item Item) bool { return c.stock.Contains(item) }

// Take removes one occurrence of item.
func (c *Cache) Take(item Item) bool { return c.stock.Take(item) }

// Put appends item.
func (c *Cache) Put(item Item) { c.stock.Put(item) }

// Last returns the most recently added coin, or false if the cache is empty.
func (c *Cache) Last() (Item, bool) { return c.stock.Last() }

// Mint creates the next coin identity for this cache. The coin is not stored.
func (c *Cache) Mint() Item {
	item := Item{Cell: c.Cell, Serial: c.nextSerial}
	c.nextSerial++
	return item
}

// Minted returns how many coins this cache has ever minted.
func (c *Cache) Minted() int {
	return c.nextSerial
}

// Empty returns true if the cache holds no coins.
func (c *Cache) Empty() bool {
	return c.Len() == 0
}

var _ ItemCollection = (*Cache)(nil)
