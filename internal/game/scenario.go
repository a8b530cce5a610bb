package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrInvalidScenario is returned by NewScenario when the layout breaks a
// scenario invariant.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is one generated grid. It is never mutated after construction;
// regeneration replaces it wholesale.
type Scenario struct {
	Width    int
	Height   int
	Start    Cell
	Waypoint Cell
	Goal     Cell

	// Row-major order.
	Obstacles []Cell
	Hostiles  []Cell
	// Hazards are the in-bounds orthogonal neighbours of hostiles, excluding
	// cells that are themselves obstacles or hostiles. Display only; the
	// engine decides what is passable.
	Hazards []Cell

	obstacleSet map[Cell]bool
	hostileSet  map[Cell]bool
	hazardSet   map[Cell]bool
}

// NewScenario validates a hand-built layout. Duplicate cells are collapsed.
func NewScenario(width, height int, start, waypoint, goal Cell, obstacles, hostiles []Cell) (*Scenario, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrInvalidScenario, width, height)
	}
	sc := &Scenario{Width: width, Height: height, Start: start, Waypoint: waypoint, Goal: goal}
	for _, k := range sc.KeyCells() {
		if !sc.InBounds(k) {
			return nil, fmt.Errorf("%w: key cell %s out of bounds", ErrInvalidScenario, k)
		}
	}
	if start == waypoint || start == goal || waypoint == goal {
		return nil, fmt.Errorf("%w: key cells must be distinct (start=%s waypoint=%s goal=%s)",
			ErrInvalidScenario, start, waypoint, goal)
	}

	keys := map[Cell]bool{start: true, waypoint: true, goal: true}
	obstacleSet := make(map[Cell]bool, len(obstacles))
	for _, c := range obstacles {
		if !sc.InBounds(c) || keys[c] {
			return nil, fmt.Errorf("%w: obstacle %s", ErrInvalidScenario, c)
		}
		obstacleSet[c] = true
	}
	hostileSet := make(map[Cell]bool, len(hostiles))
	for _, c := range hostiles {
		if !sc.InBounds(c) || keys[c] || obstacleSet[c] {
			return nil, fmt.Errorf("%w: hostile %s", ErrInvalidScenario, c)
		}
		hostileSet[c] = true
	}
	sc.setCells(obstacleSet, hostileSet)
	return sc, nil
}

// ScenarioRates are the per-cell roll thresholds used by GenerateScenario.
type ScenarioRates struct {
	Obstacle float64
	Hostile  float64
}

// DefaultScenarioRates gives 20% obstacles and 5% hostiles.
func DefaultScenarioRates() ScenarioRates {
	return ScenarioRates{Obstacle: 0.20, Hostile: 0.05}
}

// GenerateScenario builds a dim×dim scenario from rng. The three key cells are
// drawn independently and redrawn until distinct; every other cell gets one
// roll: below Obstacle it is an obstacle, below Obstacle+Hostile a hostile.
func GenerateScenario(rng *rand.Rand, dim int, rates ScenarioRates) *Scenario {
	randomCell := func() Cell {
		return Cell{Row: rng.Intn(dim), Col: rng.Intn(dim)}
	}

	start := randomCell()
	waypoint := randomCell()
	for waypoint == start {
		waypoint = randomCell()
	}
	goal := randomCell()
	for goal == start || goal == waypoint {
		goal = randomCell()
	}

	sc := &Scenario{Width: dim, Height: dim, Start: start, Waypoint: waypoint, Goal: goal}
	keys := map[Cell]bool{start: true, waypoint: true, goal: true}
	obstacleSet := map[Cell]bool{}
	hostileSet := map[Cell]bool{}
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			cell := Cell{Row: r, Col: c}
			if keys[cell] {
				continue
			}
			roll := rng.Float64()
			if roll < rates.Obstacle {
				obstacleSet[cell] = true
			} else if roll < rates.Obstacle+rates.Hostile {
				hostileSet[cell] = true
			}
		}
	}
	sc.setCells(obstacleSet, hostileSet)
	return sc
}

func (sc *Scenario) setCells(obstacleSet, hostileSet map[Cell]bool) {
	sc.obstacleSet = obstacleSet
	sc.hostileSet = hostileSet
	sc.Obstacles = sortedCells(obstacleSet)
	sc.Hostiles = sortedCells(hostileSet)

	sc.hazardSet = map[Cell]bool{}
	for _, h := range sc.Hostiles {
		for _, n := range h.orthogonal() {
			if !sc.InBounds(n) || obstacleSet[n] || hostileSet[n] {
				continue
			}
			sc.hazardSet[n] = true
		}
	}
	sc.Hazards = sortedCells(sc.hazardSet)
}

func sortedCells(set map[Cell]bool) []Cell {
	out := make([]Cell, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// KeyCells returns start, waypoint and goal in that order.
func (sc *Scenario) KeyCells() [3]Cell {
	return [3]Cell{sc.Start, sc.Waypoint, sc.Goal}
}

// InBounds reports whether c lies on the grid.
func (sc *Scenario) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < sc.Height && c.Col < sc.Width
}

func (sc *Scenario) IsObstacle(c Cell) bool { return sc.obstacleSet[c] }
func (sc *Scenario) IsHostile(c Cell) bool  { return sc.hostileSet[c] }
func (sc *Scenario) IsHazard(c Cell) bool   { return sc.hazardSet[c] }
