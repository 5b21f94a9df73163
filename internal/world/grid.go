// Package world provides the lat/lng grid and deterministic cache generation.
package world

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// DefaultCellSize is the side of a grid cell in degrees (roughly 11 m of latitude).
const DefaultCellSize = 1e-4

// Position is a point on the map in degrees.
type Position struct {
	Lat float64
	Lng float64
}

// Point returns the position as an orb.Point (lon, lat order).
func (p Position) Point() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// PositionFromPoint converts an orb.Point back into a Position.
func PositionFromPoint(pt orb.Point) Position {
	return Position{Lat: pt.Lat(), Lng: pt.Lon()}
}

// CellID identifies a grid cell.
type CellID struct {
	Row, Col int
}

// Key returns the canonical "row,col" key used for hashing and lookups.
func (c CellID) Key() string {
	return strconv.Itoa(c.Row) + "," + strconv.Itoa(c.Col)
}

// String implements fmt.Stringer.
func (c CellID) String() string {
	return c.Key()
}

// Offset returns the cell dRow rows and dCol columns away.
func (c CellID) Offset(dRow, dCol int) CellID {
	return CellID{Row: c.Row + dRow, Col: c.Col + dCol}
}

// Grid maps positions to cells of a fixed size.
type Grid struct {
	CellSize float64
}

// NewGrid creates a grid with the given cell size.
func NewGrid(cellSize float64) Grid {
	return Grid{CellSize: cellSize}
}

// ToCell returns the cell containing pos.
// Cell n on an axis covers [n*CellSize, (n+1)*CellSize).
func (g Grid) ToCell(pos Position) CellID {
	return CellID{
		Row: g.index(pos.Lat),
		Col: g.index(pos.Lng),
	}
}

// ToPosition returns the origin corner of the cell (not its center).
func (g Grid) ToPosition(cell CellID) Position {
	return Position{
		Lat: float64(cell.Row) * g.CellSize,
		Lng: float64(cell.Col) * g.CellSize,
	}
}

// Center returns the center of the cell.
func (g Grid) Center(cell CellID) Position {
	corner := g.ToPosition(cell)
	return Position{
		Lat: corner.Lat + g.CellSize/2,
		Lng: corner.Lng + g.CellSize/2,
	}
}

// Bounds returns the area covered by the cell. The max edge belongs to the next cell.
func (g Grid) Bounds(cell CellID) orb.Bound {
	min := g.ToPosition(cell)
	max := g.ToPosition(cell.Offset(1, 1))
	return orb.Bound{Min: min.Point(), Max: max.Point()}
}

// CellsAround returns every cell within radius rows and columns of center,
// in row-major order starting from the top-left.
func (g Grid) CellsAround(center CellID, radius int) []CellID {
	if radius < 0 {
		return nil
	}
	side := 2*radius + 1
	cells := make([]CellID, 0, side*side)
	for dRow := -radius; dRow <= radius; dRow++ {
		for dCol := -radius; dCol <= radius; dCol++ {
			cells = append(cells, center.Offset(dRow, dCol))
		}
	}
	return cells
}

// index floors v onto the grid. The quotient can round across a corner,
// so the result is corrected against the same products ToPosition uses.
func (g Grid) index(v float64) int {
	n := int(math.Floor(v / g.CellSize))
	switch {
	case float64(n)*g.CellSize > v:
		n--
	case float64(n+1)*g.CellSize <= v:
		n++
	}
	return n
}
