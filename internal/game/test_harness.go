package game

import (
	"io"
	"log"
	"time"

	"github.com/Garsondee/Waypoint-Sense/internal/engine"
)

// Sim is a headless session harness used by tests and the headless report.
// It drives Session exactly as Game.Update does, with a fixed tick length
// and no Ebiten dependency.
type Sim struct {
	Config  Config
	Session *Session
	Events  *EventLog
	TickDur time.Duration

	engine   engine.Engine
	logger   *log.Logger
	scenario *Scenario
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra    simOptionKind = iota // config, engine and logger; applied first
	simOptScenario                      // applied after the session exists
)

// SimOption is a builder function applied to a Sim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*Sim)
}

// WithSeed sets the RNG seed for deterministic scenarios.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.Config.Seed = seed }}
}

// WithDim sets the grid dimension.
func WithDim(dim int) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.Config.Dim = dim }}
}

// WithIntervals sets the normal and fast step intervals.
func WithIntervals(normal, fast time.Duration) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.Config.NormalInterval = normal
		s.Config.FastInterval = fast
	}}
}

// WithTick sets the simulated frame length.
func WithTick(d time.Duration) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.TickDur = d }}
}

// WithEngine replaces the built-in engine.
func WithEngine(eng engine.Engine) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.engine = eng }}
}

// WithDecodePolicy sets how bad path atoms are handled.
func WithDecodePolicy(p DecodePolicy) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.Config.Decode = p }}
}

// WithLogger mirrors events to logger instead of discarding them.
func WithLogger(l *log.Logger) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.logger = l }}
}

// WithScenario loads a prepared scenario instead of generating one.
func WithScenario(sc *Scenario) SimOption {
	return SimOption{simOptScenario, func(s *Sim) { s.scenario = sc }}
}

// NewSim constructs a Sim from the given options in ordered passes:
//  1. Infrastructure (config, engine, logger)
//  2. Session
//  3. Scenario (prepared, or generated from the seed)
func NewSim(opts ...SimOption) *Sim {
	s := &Sim{
		Config:  DefaultConfig(),
		TickDur: time.Second / 60,
	}
	s.Config.Seed = 1
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(s)
		}
	}
	if s.engine == nil {
		s.engine = engine.NewBuiltin(engine.DefaultDefinitions())
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	s.Events = NewEventLog(s.logger)
	s.Session = NewSession(s.Config, s.engine, s.Events)

	for _, o := range opts {
		if o.kind == simOptScenario {
			o.fn(s)
		}
	}
	if s.scenario != nil {
		_ = s.Session.LoadScenario(s.scenario)
	} else {
		_ = s.Session.RequestNewScenario()
	}
	return s
}

// Solve issues a solve command.
func (s *Sim) Solve() error {
	return s.Session.RequestSolve()
}

// RunTicks advances the session n ticks.
func (s *Sim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		s.Session.Tick(s.TickDur)
	}
}

// RunUntil advances up to maxTicks, stopping early if predicate returns true.
// Returns the tick at which the predicate was satisfied, or -1.
func (s *Sim) RunUntil(predicate func(*Sim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		s.Session.Tick(s.TickDur)
		if predicate(s) {
			return s.Session.CurrentTick()
		}
	}
	return -1
}

// Finished is a RunUntil predicate for completed playback.
func Finished(s *Sim) bool {
	return s.Session.Playback().State == PlayerFinished
}

// SimSnapshot is a lightweight copy of the session state at a tick.
type SimSnapshot struct {
	Tick       int
	Playback   PlaybackState
	RouteLen   int
	Obstacles  int
	Hostiles   int
	Hazards    int
	BadAtoms   int
	LegsFailed int
}

// Snapshot returns the current state summary.
func (s *Sim) Snapshot() SimSnapshot {
	snap := SimSnapshot{
		Tick:       s.Session.CurrentTick(),
		Playback:   s.Session.Playback(),
		RouteLen:   s.Session.Route().Len(),
		BadAtoms:   s.Events.CountCategory("decode", "bad_atom"),
		LegsFailed: s.Events.CountCategory("leg", "failed"),
	}
	if sc := s.Session.Scenario(); sc != nil {
		snap.Obstacles = len(sc.Obstacles)
		snap.Hostiles = len(sc.Hostiles)
		snap.Hazards = len(sc.Hazards)
	}
	return snap
}
