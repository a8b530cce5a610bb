package engine

import "fmt"

// MaxGridCells caps width×height for a single query. The grid is allocated
// per query, so the cap bounds the memory one request can claim.
const MaxGridCells = 1 << 20

// Builtin is the in-process engine. It is stateless between queries.
type Builtin struct {
	defs Definitions
}

// NewBuiltin returns an engine configured by defs.
func NewBuiltin(defs Definitions) *Builtin {
	return &Builtin{defs: defs}
}

// Query parses goal, checks both endpoints are safe and returns the shortest
// 4-connected path as "-(X,Y)" atoms.
func (b *Builtin) Query(goal string) ([]string, error) {
	q, err := ParseQuery(goal)
	if err != nil {
		return nil, err
	}
	if q.Predicate != b.defs.Predicate {
		return nil, fmt.Errorf("%w: unknown predicate %q", ErrBadQuery, q.Predicate)
	}
	if q.Width <= 0 || q.Height <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrBadQuery, q.Width, q.Height)
	}
	if q.Width > MaxGridCells/q.Height {
		return nil, fmt.Errorf("%w: grid %dx%d exceeds %d cells", ErrBadQuery, q.Width, q.Height, MaxGridCells)
	}

	ng := NewNavGrid(q, b.defs.HostileReach)
	if ng.IsBlocked(q.Origin.X, q.Origin.Y) {
		return nil, fmt.Errorf("%w: origin %s", ErrUnsafeEndpoint, q.Origin)
	}
	if ng.IsBlocked(q.Destination.X, q.Destination.Y) {
		return nil, fmt.Errorf("%w: destination %s", ErrUnsafeEndpoint, q.Destination)
	}

	pts, err := ng.FindPath(q.Origin, q.Destination, b.defs.MaxExpansions)
	if err != nil {
		return nil, err
	}
	if pts == nil {
		return nil, fmt.Errorf("%w: %s to %s", ErrNoSolution, q.Origin, q.Destination)
	}
	atoms := make([]string, len(pts))
	for i, p := range pts {
		atoms[i] = p.Atom()
	}
	return atoms, nil
}
