package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb/geo"

	"github.com/samdwyer/cachequest/internal/entity"
	"github.com/samdwyer/cachequest/internal/gamedata"
	"github.com/samdwyer/cachequest/internal/world"
)

// Map glyphs.
const (
	GlyphPlayer = '@'
	GlyphCache  = '$' // cache holding coins
	GlyphEmpty  = 'o' // cache with nothing in it
	GlyphGround = '·'
)

// listLimit caps how many coins the panel lists per section.
const listLimit = 5

// View is a snapshot of everything the renderer draws.
type View struct {
	Grid      world.Grid
	Center    world.CellID   // Player cell, drawn in the middle of the map
	Player    world.Position // Exact player position, for distances
	Radius    int            // Cells shown on each side of the player
	Caches    []*entity.Cache
	Here      *entity.Cache // Cache under the player, nil if none
	Inventory []entity.Item
	State     string
	Message   string
	Colors    gamedata.Palette
}

// MapPos returns the map coordinates of cell. North is up, so rows grow upward.
// ok is false when the cell is outside the drawn window.
func (v View) MapPos(cell world.CellID) (x, y int, ok bool) {
	x = cell.Col - v.Center.Col + v.Radius
	y = v.Center.Row - cell.Row + v.Radius
	size := 2*v.Radius + 1
	return x, y, x >= 0 && y >= 0 && x < size && y < size
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the map window, the side panel and the message line.
func (r *Renderer) Render(v View) {
	r.screen.Clear()

	size := 2*v.Radius + 1
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r.screen.SetContent(x, y, GlyphGround, r.groundStyle(v))
		}
	}

	for _, c := range v.Caches {
		x, y, ok := v.MapPos(c.Cell)
		if !ok {
			continue
		}
		glyph, style := r.cacheGlyph(v, c)
		r.screen.SetContent(x, y, glyph, style)
	}

	playerStyle := tcell.StyleDefault.
		Foreground(v.Colors.TCellColor(v.Colors.Player, tcell.ColorWhite)).
		Bold(true)
	r.screen.SetContent(v.Radius, v.Radius, GlyphPlayer, playerStyle)

	lines := r.panel(v)
	textStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, line := range lines {
		r.screen.DrawText(size+2, i, line, textStyle)
	}

	msgY := size
	if len(lines) > msgY {
		msgY = len(lines)
	}
	r.RenderMessage(v.Message, msgY+1)

	r.screen.Show()
}

func (r *Renderer) groundStyle(v View) tcell.Style {
	return tcell.StyleDefault.Foreground(v.Colors.TCellColor(v.Colors.Ground, tcell.ColorDarkGray))
}

// cacheGlyph returns the glyph and style for a cache marker.
func (r *Renderer) cacheGlyph(v View, c *entity.Cache) (rune, tcell.Style) {
	if c.Empty() {
		return GlyphEmpty, tcell.StyleDefault.Foreground(v.Colors.TCellColor(v.Colors.Empty, tcell.ColorGray))
	}
	return GlyphCache, tcell.StyleDefault.Foreground(v.Colors.TCellColor(v.Colors.Cache, tcell.ColorYellow)).Bold(true)
}

// panel builds the side panel text.
func (r *Renderer) panel(v View) []string {
	lines := []string{
		fmt.Sprintf("CacheQuest [%s]", v.State),
		fmt.Sprintf("Cell %s", v.Center),
		"",
		fmt.Sprintf("Coins carried: %d", len(v.Inventory)),
	}
	lines = append(lines, listItems(v.Inventory)...)
	lines = append(lines, "")

	if v.Here != nil {
		lines = append(lines, fmt.Sprintf("Cache %s: %d coin(s)", v.Here.Cell, v.Here.Len()))
		lines = append(lines, listItems(v.Here.Items())...)
	} else {
		lines = append(lines, "No cache here")
	}

	if meters, ok := nearest(v); ok {
		lines = append(lines, fmt.Sprintf("Nearest cache: %.0fm", meters))
	} else {
		lines = append(lines, "No caches in view")
	}

	lines = append(lines, "", "arrows/hjkl move  c collect  d deposit  q quit")
	return lines
}

// listItems formats the most recent coins, newest first.
func listItems(items []entity.Item) []string {
	var out []string
	for i := len(items) - 1; i >= 0 && len(out) < listLimit; i-- {
		out = append(out, "  "+items[i].String())
	}
	if len(items) > listLimit {
		out = append(out, fmt.Sprintf("  ... %d more", len(items)-listLimit))
	}
	return out
}

// nearest returns the distance in meters from the player to the closest other cache in view.
func nearest(v View) (float64, bool) {
	best, found := 0.0, false
	for _, c := range v.Caches {
		if c.Cell == v.Center {
			continue
		}
		d := geo.Distance(v.Player.Point(), v.Grid.Center(c.Cell).Point())
		if !found || d < best {
			best, found = d, true
		}
	}
	return best, found
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	if msg == "" {
		return
	}
	_, h := r.screen.Size()
	if y >= h {
		y = h - 1
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	r.screen.DrawText(0, y, msg, style)
}
