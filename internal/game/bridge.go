package game

import (
	"fmt"

	"github.com/Garsondee/Waypoint-Sense/internal/engine"
)

// Cell is a zero-based grid position.
type Cell struct {
	Row int
	Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// orthogonal returns the four edge neighbours of c, unclipped.
func (c Cell) orthogonal() [4]Cell {
	return [4]Cell{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row, Col: c.Col + 1},
	}
}

// The engine speaks one-based (x, y) with x the column. These two functions
// are the only place that convention is known; everything else in the
// package works on Cells.

// ToExternal converts a cell to engine coordinates.
func ToExternal(c Cell) engine.Point {
	return engine.Point{X: c.Col + 1, Y: c.Row + 1}
}

// ToInternal converts engine coordinates to a cell.
func ToInternal(p engine.Point) Cell {
	return Cell{Row: p.Y - 1, Col: p.X - 1}
}

func toExternalAll(cells []Cell) []engine.Point {
	pts := make([]engine.Point, len(cells))
	for i, c := range cells {
		pts[i] = ToExternal(c)
	}
	return pts
}
