package entity

// ItemCollection is anything that can hold coins: a cache or an inventory.
type ItemCollection interface {
	// Items returns a copy of the held coins in order.
	Items() []Item
	Len() int
	Contains(item Item) bool
	// Take removes one occurrence of item and reports whether it was present.
	Take(item Item) bool
	// Put appends item.
	Put(item Item)
}

// Stock is an ordered, slice-backed ItemCollection.
type Stock struct {
	items []Item
}

// NewStock creates a stock holding the given items in order.
func NewStock(items ...Item) *Stock {
	s := &Stock{items: make([]Item, 0, len(items))}
	s.items = append(s.items, items...)
	return s
}

// Items returns a copy of the held items.
func (s *Stock) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of held items.
func (s *Stock) Len() int {
	return len(s.items)
}

// Contains returns true if item is held.
func (s *Stock) Contains(item Item) bool {
	return s.indexOf(item) >= 0
}

// Last returns the most recently added item, or false if the stock is empty.
func (s *Stock) Last() (Item, bool) {
	if len(s.items) == 0 {
		return Item{}, false
	}
	return s.items[len(s.items)-1], true
}

// Take removes the first occurrence of item, keeping the order of the rest.
func (s *Stock) Take(item Item) bool {
	i := s.indexOf(item)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Put appends item.
func (s *Stock) Put(item Item) {
	s.items = append(s.items, item)
}

func (s *Stock) indexOf(item Item) int {
	for i, held := range s.items {
		if held == item {
			return i
		}
	}
	return -1
}

// Ensure Stock implements ItemCollection
var _ ItemCollection = (*Stock)(nil)
