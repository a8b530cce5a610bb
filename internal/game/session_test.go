package game

import (
	"errors"
	"testing"
)

func TestSession_RejectsCommandsWhilePlaying(t *testing.T) {
	s := NewSim(WithScenario(openScenario(t)))
	if err := s.Solve(); err != nil {
		t.Fatalf("solve: %v", err)
	}
	before := s.Session.Scenario()

	if err := s.Session.RequestNewScenario(); !errors.Is(err, ErrBusy) {
		t.Fatalf("new scenario while playing: got %v", err)
	}
	if err := s.Session.RequestSolve(); !errors.Is(err, ErrBusy) {
		t.Fatalf("solve while playing: got %v", err)
	}
	if s.Session.Scenario() != before {
		t.Fatal("scenario replaced while playing")
	}
	if n := s.Events.CountCategory("command", "rejected"); n != 2 {
		t.Fatalf("expected 2 rejections, got %d", n)
	}
}

func TestSession_CommandsAcceptedAfterFinish(t *testing.T) {
	s := NewSim(WithScenario(openScenario(t)))
	if err := s.Solve(); err != nil {
		t.Fatalf("solve: %v", err)
	}
	if s.RunUntil(Finished, 10000) < 0 {
		t.Fatal("playback never finished")
	}
	if err := s.Solve(); err != nil {
		t.Fatalf("re-solve after finish: %v", err)
	}
	if ps := s.Session.Playback(); ps.State != PlayerPlaying || ps.Index != 0 {
		t.Fatalf("re-solve should replay from the start: %+v", ps)
	}
}

func TestSession_RegenerateParksAgent(t *testing.T) {
	s := NewSim(WithSeed(11), WithDim(8))
	for i := 0; i < 2; i++ {
		if err := s.Session.RequestNewScenario(); err != nil {
			t.Fatalf("regenerate %d: %v", i, err)
		}
	}
	sc := s.Session.Scenario()
	ps := s.Session.Playback()
	if ps.State != PlayerArmed || ps.Cell != sc.Start {
		t.Fatalf("agent should be armed on the new start %s, got %s at %s", sc.Start, ps.State, ps.Cell)
	}
	if s.Session.Route() != nil || ps.TotalSteps != 0 {
		t.Fatal("regeneration must drop the route")
	}
	if n := s.Events.CountCategory("scenario", "generated"); n != 3 {
		t.Fatalf("expected 3 scenario events, got %d", n)
	}
}

func TestSession_SolveWithoutScenario(t *testing.T) {
	events := NewEventLog(nil)
	s := NewSession(DefaultConfig(), &scriptedEngine{}, events)
	if err := s.RequestSolve(); !errors.Is(err, ErrNoScenario) {
		t.Fatalf("expected ErrNoScenario, got %v", err)
	}
	if s.Playback().State != PlayerIdle {
		t.Fatalf("expected idle, got %s", s.Playback().State)
	}
}

func TestSession_FailedSolveClearsOldRoute(t *testing.T) {
	s := NewSim(WithScenario(openScenario(t)))
	if err := s.Solve(); err != nil {
		t.Fatalf("solve: %v", err)
	}
	s.RunUntil(Finished, 10000)

	blocked := mustScenario(t, 5, 5, Cell{0, 0}, Cell{4, 4}, Cell{0, 4},
		[]Cell{{3, 4}, {4, 3}}, nil)
	if err := s.Session.LoadScenario(blocked); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Solve(); err == nil {
		t.Fatal("expected enclosed waypoint to fail")
	}
	if s.Session.Route() != nil {
		t.Fatal("failed solve left a route")
	}
	if ps := s.Session.Playback(); ps.Cell != blocked.Start || ps.State != PlayerArmed {
		t.Fatalf("agent should wait on start: %+v", ps)
	}
}

func TestSession_SnapshotCounts(t *testing.T) {
	sc := mustScenario(t, 5, 5, Cell{0, 0}, Cell{4, 4}, Cell{0, 4},
		[]Cell{{2, 0}}, []Cell{{2, 2}})
	s := NewSim(WithScenario(sc))
	snap := s.Snapshot()
	if snap.Obstacles != 1 || snap.Hostiles != 1 || snap.Hazards != 4 {
		t.Fatalf("snapshot counts: %+v", snap)
	}
}
