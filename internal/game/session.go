package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Garsondee/Waypoint-Sense/internal/engine"
)

var (
	// ErrBusy is returned for commands issued while a route is playing.
	ErrBusy = errors.New("route playback in progress")
	// ErrNoScenario is returned by RequestSolve before any scenario exists.
	ErrNoScenario = errors.New("no scenario loaded")
)

// Session owns the scenario, the route and the player. All mutation goes
// through its two commands and Tick, from one goroutine.
type Session struct {
	cfg    Config
	rng    *rand.Rand
	solver *RouteSolver
	player *Player
	events *EventLog

	scenario *Scenario
	route    *Route
	tick     int
}

// NewSession wires a session to eng. cfg is assumed valid.
func NewSession(cfg Config, eng engine.Engine, events *EventLog) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Session{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)), // #nosec G404 -- scenario layout only
		player: NewPlayer(cfg.NormalInterval, cfg.FastInterval),
		events: events,
	}
	s.solver = NewRouteSolver(eng, cfg.Predicate, cfg.Decode, events, &s.tick)
	return s
}

// RequestNewScenario replaces the scenario with a fresh one and parks the
// agent on its start. Any route is discarded.
func (s *Session) RequestNewScenario() error {
	if s.player.State() == PlayerPlaying {
		s.events.Add(s.tick, "command", "rejected", "new scenario while playing", 0)
		return ErrBusy
	}
	s.install(GenerateScenario(s.rng, s.cfg.Dim, s.cfg.Rates))
	return nil
}

// LoadScenario installs a prepared scenario under the same rules as
// RequestNewScenario.
func (s *Session) LoadScenario(sc *Scenario) error {
	if s.player.State() == PlayerPlaying {
		s.events.Add(s.tick, "command", "rejected", "load scenario while playing", 0)
		return ErrBusy
	}
	s.install(sc)
	return nil
}

func (s *Session) install(sc *Scenario) {
	s.scenario = sc
	s.route = nil
	s.player.Park(sc.Start)
	s.events.Add(s.tick, "scenario", "generated",
		fmt.Sprintf("%dx%d start=%s waypoint=%s goal=%s obstacles=%d hostiles=%d",
			sc.Width, sc.Height, sc.Start, sc.Waypoint, sc.Goal, len(sc.Obstacles), len(sc.Hostiles)),
		float64(len(sc.Obstacles)))
}

// RequestSolve computes a route for the current scenario and starts playing
// it. On failure no route is kept and the agent stays on the start cell.
func (s *Session) RequestSolve() error {
	if s.player.State() == PlayerPlaying {
		s.events.Add(s.tick, "command", "rejected", "solve while playing", 0)
		return ErrBusy
	}
	if s.scenario == nil {
		return ErrNoScenario
	}
	s.route = nil
	s.player.Park(s.scenario.Start)

	route, err := s.solver.SolveRoute(s.scenario)
	if err != nil {
		return err
	}
	s.route = route
	s.player.Install(route)
	s.player.Start()
	s.events.Add(s.tick, "playback", "start", fmt.Sprintf("%d steps", route.Steps()), float64(route.Steps()))
	return nil
}

// Tick advances playback by dt.
func (s *Session) Tick(dt time.Duration) Step {
	s.tick++
	st := s.player.Tick(dt)
	if st.WaypointReached {
		s.events.Add(s.tick, "playback", "waypoint", fmt.Sprintf("reached at index %d, speeding up", st.Index), float64(st.Index))
	}
	if st.Finished {
		s.events.Add(s.tick, "playback", "finished", fmt.Sprintf("index %d", st.Index), float64(st.Index))
	}
	return st
}

// Scenario returns the current scenario, nil before the first one.
func (s *Session) Scenario() *Scenario { return s.scenario }

// Route returns the current route, nil when none is installed.
func (s *Session) Route() *Route { return s.route }

// Playback returns a snapshot of the player.
func (s *Session) Playback() PlaybackState { return s.player.Snapshot() }

// Events returns the session's event log.
func (s *Session) Events() *EventLog { return s.events }

// Config returns the settings the session was built with.
func (s *Session) Config() Config { return s.cfg }

// CurrentTick returns the number of ticks processed.
func (s *Session) CurrentTick() int { return s.tick }
