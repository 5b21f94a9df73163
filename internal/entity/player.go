package entity

import (
	"sort"

	"github.com/google/uuid"

	"github.com/samdwyer/cachequest/internal/world"
)

// Player represents the single explorer in a session.
type Player struct {
	ID        uuid.UUID      // Session-unique identity, used in logs and traces
	Position  world.Position // Current position on the map
	Inventory *Stock         // Coins the player carries, in pickup order

	discovered map[world.CellID]struct{}
}

// NewPlayer creates a player at the given position with an empty inventory.
func NewPlayer(pos world.Position) *Player {
	return &Player{
		ID:         uuid.New(),
		Position:   pos,
		Inventory:  NewStock(),
		discovered: make(map[world.CellID]struct{}),
	}
}

// MoveTo updates the player position.
func (p *Player) MoveTo(pos world.Position) {
	p.Position = pos
}

// Discover records that the player has interacted with the cache at cell.
// Returns true the first time a cell is discovered.
func (p *Player) Discover(cell world.CellID) bool {
	if _, ok := p.discovered[cell]; ok {
		return false
	}
	p.discovered[cell] = struct{}{}
	return true
}

// HasDiscovered returns true if the cache at cell has been discovered.
func (p *Player) HasDiscovered(cell world.CellID) bool {
	_, ok := p.discovered[cell]
	return ok
}

// Discovered returns discovered cells sorted by row, then column.
func (p *Player) Discovered() []world.CellID {
	cells := make([]world.CellID, 0, len(p.discovered))
	for cell := range p.discovered {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}
