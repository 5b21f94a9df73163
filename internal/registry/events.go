package registry

import (
	"github.com/samdwyer/cachequest/internal/entity"
	"github.com/samdwyer/cachequest/internal/world"
)

// EventKind says what changed.
type EventKind int

const (
	// EventCacheCreated - a cache was generated for the first time
	EventCacheCreated EventKind = iota
	// EventItemCollected - a coin moved from a cache to the player
	EventItemCollected
	// EventItemDeposited - a coin moved from the player to a cache
	EventItemDeposited
	// EventPlayerMoved - the player entered a new cell
	EventPlayerMoved
)

// String returns a human-readable event name.
func (k EventKind) String() string {
	switch k {
	case EventCacheCreated:
		return "cache_created"
	case EventItemCollected:
		return "item_collected"
	case EventItemDeposited:
		return "item_deposited"
	case EventPlayerMoved:
		return "player_moved"
	default:
		return "unknown"
	}
}

// Event is a state-changed notification.
type Event struct {
	Kind EventKind
	Cell world.CellID // Cache cell, or the player's new cell for EventPlayerMoved
	Item *entity.Item // Coin involved in a transfer, nil otherwise
}

// Listener receives events synchronously, in subscription order.
type Listener func(Event)

type subscription struct {
	id       int
	listener Listener
}

// Subscribe registers a listener and returns a function that removes it.
func (r *Registry) Subscribe(l Listener) (unsubscribe func()) {
	r.nextSubID++
	id := r.nextSubID
	r.subs = append(r.subs, subscription{id: id, listener: l})

	return func() {
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every listener before returning.
func (r *Registry) Publish(ev Event) {
	// Copy so a listener may unsubscribe while being notified
	subs := make([]subscription, len(r.subs))
	copy(subs, r.subs)
	for _, s := range subs {
		s.listener(ev)
	}
}
