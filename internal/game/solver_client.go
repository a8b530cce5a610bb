package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Garsondee/Waypoint-Sense/internal/engine"
)

// ErrBadAtom is returned for a path element that cannot be decoded.
var ErrBadAtom = errors.New("undecodable path atom")

// DecodePolicy decides what a bad path atom does to its leg.
type DecodePolicy int

const (
	// DecodeDrop logs and skips the atom; the leg may come back shorter or
	// with a gap.
	DecodeDrop DecodePolicy = iota
	// DecodeStrict fails the whole leg on the first bad atom.
	DecodeStrict
)

func (p DecodePolicy) String() string {
	if p == DecodeStrict {
		return "strict"
	}
	return "drop"
}

// ParseDecodePolicy accepts "drop" or "strict".
func ParseDecodePolicy(name string) (DecodePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "drop", "":
		return DecodeDrop, nil
	case "strict":
		return DecodeStrict, nil
	}
	return DecodeDrop, fmt.Errorf("unknown decode policy %q (supported: drop, strict)", name)
}

// RouteSolver stages leg queries against an engine and stitches the answers.
// It never inspects obstacle or hostile placement; the engine owns safety.
type RouteSolver struct {
	engine    engine.Engine
	predicate string
	policy    DecodePolicy
	events    *EventLog
	tick      *int
}

// NewRouteSolver creates a solver. tick points at the owner's tick counter and
// stamps log entries.
func NewRouteSolver(eng engine.Engine, predicate string, policy DecodePolicy, events *EventLog, tick *int) *RouteSolver {
	if predicate == "" {
		predicate = engine.DefaultPredicate
	}
	return &RouteSolver{engine: eng, predicate: predicate, policy: policy, events: events, tick: tick}
}

func (rs *RouteSolver) log(category, key, value string, num float64) {
	t := 0
	if rs.tick != nil {
		t = *rs.tick
	}
	rs.events.Add(t, category, key, value, num)
}

// Query builds the engine request for one leg.
func (rs *RouteSolver) Query(sc *Scenario, origin, destination Cell) engine.Query {
	return engine.Query{
		Predicate:   rs.predicate,
		Width:       sc.Width,
		Height:      sc.Height,
		Origin:      ToExternal(origin),
		Destination: ToExternal(destination),
		Obstacles:   toExternalAll(sc.Obstacles),
		Hostiles:    toExternalAll(sc.Hostiles),
	}
}

// SolveLeg asks the engine for a path from origin to destination.
func (rs *RouteSolver) SolveLeg(sc *Scenario, origin, destination Cell) (Path, error) {
	q := rs.Query(sc, origin, destination)
	atoms, err := rs.engine.Query(q.String())
	if err != nil {
		rs.log("leg", "failed", fmt.Sprintf("%s→%s: %v", origin, destination, err), 0)
		if strings.Contains(err.Error(), "safe_cell") {
			rs.log("leg", "unsafe_endpoint", fmt.Sprintf("origin %s or destination %s may not be safe", origin, destination), 0)
		}
		return nil, err
	}
	if len(atoms) == 0 {
		rs.log("leg", "failed", fmt.Sprintf("%s→%s: empty answer", origin, destination), 0)
		return nil, engine.ErrNoSolution
	}

	path := make(Path, 0, len(atoms))
	for i, a := range atoms {
		c, err := decodeAtom(a, sc)
		if err != nil {
			rs.log("decode", "bad_atom", fmt.Sprintf("#%d %q: %v", i, a, err), float64(i))
			if rs.policy == DecodeStrict {
				return nil, fmt.Errorf("leg %s→%s atom %d: %w", origin, destination, i, err)
			}
			continue
		}
		path = append(path, c)
	}
	if len(path) == 0 {
		rs.log("leg", "failed", fmt.Sprintf("%s→%s: no decodable atoms", origin, destination), 0)
		return nil, fmt.Errorf("leg %s→%s: %w", origin, destination, ErrBadAtom)
	}
	rs.log("leg", "solved", fmt.Sprintf("%s→%s in %d cells", origin, destination, len(path)), float64(len(path)))
	return path, nil
}

// SolveRoute solves start→waypoint then waypoint→goal. Either failure
// abandons the whole route.
func (rs *RouteSolver) SolveRoute(sc *Scenario) (*Route, error) {
	leg1, err := rs.SolveLeg(sc, sc.Start, sc.Waypoint)
	if err != nil {
		rs.log("solve", "failed", "no safe path start→waypoint", 1)
		return nil, fmt.Errorf("leg start→waypoint: %w", err)
	}
	leg2, err := rs.SolveLeg(sc, sc.Waypoint, sc.Goal)
	if err != nil {
		rs.log("solve", "failed", "no safe path waypoint→goal", 2)
		return nil, fmt.Errorf("leg waypoint→goal: %w", err)
	}
	route := stitchRoute(leg1, leg2)
	rs.log("solve", "ok", fmt.Sprintf("%d cells, waypoint at %d", route.Len(), route.WaypointIndex), float64(route.Len()))
	return route, nil
}

// decodeAtom reads "-(X,Y)" or "X-Y" and converts it to a cell on sc.
func decodeAtom(atom string, sc *Scenario) (Cell, error) {
	s := strings.TrimSpace(atom)
	var xs, ys string
	if strings.HasPrefix(s, "-(") && strings.HasSuffix(s, ")") {
		var ok bool
		xs, ys, ok = strings.Cut(s[2:len(s)-1], ",")
		if !ok {
			return Cell{}, ErrBadAtom
		}
	} else {
		var ok bool
		xs, ys, ok = strings.Cut(s, "-")
		if !ok {
			return Cell{}, ErrBadAtom
		}
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return Cell{}, ErrBadAtom
	}
	c := ToInternal(engine.Point{X: x, Y: y})
	if !sc.InBounds(c) {
		return Cell{}, fmt.Errorf("%w: %d-%d outside %dx%d", ErrBadAtom, x, y, sc.Width, sc.Height)
	}
	return c, nil
}
