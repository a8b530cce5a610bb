package game

import "strings"

// Path is one leg: first element the query origin, last the destination.
type Path []Cell

// Route is both legs joined, with the shared waypoint cell kept once.
type Route struct {
	Cells []Cell
	// WaypointIndex is the position of the waypoint within Cells.
	WaypointIndex int
}

// stitchRoute joins leg1 and leg2. leg2[0] repeats leg1's last cell and is
// dropped. Both legs must be non-empty.
func stitchRoute(leg1, leg2 Path) *Route {
	cells := make([]Cell, 0, len(leg1)+len(leg2)-1)
	cells = append(cells, leg1...)
	cells = append(cells, leg2[1:]...)
	return &Route{Cells: cells, WaypointIndex: len(leg1) - 1}
}

// Len returns the number of cells on the route.
func (r *Route) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Cells)
}

// Steps is the number of moves needed to walk the route.
func (r *Route) Steps() int {
	if r.Len() == 0 {
		return 0
	}
	return r.Len() - 1
}

// ExternalText renders the route in engine coordinates, "x-y" joined by
// commas in brackets, the form queries use for cell lists.
func (r *Route) ExternalText() string {
	if r == nil {
		return "[]"
	}
	parts := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		parts[i] = ToExternal(c).String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}
