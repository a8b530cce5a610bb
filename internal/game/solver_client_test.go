package game

import (
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/Garsondee/Waypoint-Sense/internal/engine"
)

// scriptedEngine answers queries from a fixed list, in order.
type scriptedEngine struct {
	answers [][]string
	errs    []error
	goals   []string
}

func (e *scriptedEngine) Query(goal string) ([]string, error) {
	i := len(e.goals)
	e.goals = append(e.goals, goal)
	if i < len(e.errs) && e.errs[i] != nil {
		return nil, e.errs[i]
	}
	if i < len(e.answers) {
		return e.answers[i], nil
	}
	return nil, engine.ErrNoSolution
}

func newTestSolver(eng engine.Engine, policy DecodePolicy) (*RouteSolver, *EventLog) {
	events := NewEventLog(log.New(io.Discard, "", 0))
	tick := 0
	return NewRouteSolver(eng, "", policy, events, &tick), events
}

// 3x3 grid, start (0,0), waypoint (0,2), goal (2,2).
func lineScenario(t *testing.T) *Scenario {
	t.Helper()
	return mustScenario(t, 3, 3, Cell{0, 0}, Cell{0, 2}, Cell{2, 2}, nil, nil)
}

var (
	leg1Atoms = []string{"-(1,1)", "-(2,1)", "-(3,1)"}
	leg2Atoms = []string{"-(3,1)", "-(3,2)", "-(3,3)"}
)

func TestRouteSolver_QueryUsesEngineCoordinates(t *testing.T) {
	sc := mustScenario(t, 4, 3, Cell{0, 0}, Cell{2, 3}, Cell{1, 1}, []Cell{{0, 2}}, []Cell{{2, 0}})
	rs, _ := newTestSolver(&scriptedEngine{}, DecodeDrop)
	got := rs.Query(sc, sc.Start, sc.Waypoint).String()
	want := "shortest_path(4, 3, 1-1, 4-3, [3-1], [1-3], Path)"
	if got != want {
		t.Fatalf("query: got %q, want %q", got, want)
	}
}

func TestRouteSolver_StitchesLegs(t *testing.T) {
	eng := &scriptedEngine{answers: [][]string{leg1Atoms, leg2Atoms}}
	rs, events := newTestSolver(eng, DecodeDrop)
	sc := lineScenario(t)

	r, err := rs.SolveRoute(sc)
	if err != nil {
		t.Fatalf("SolveRoute: %v", err)
	}
	if r.Len() != len(leg1Atoms)+len(leg2Atoms)-1 {
		t.Fatalf("route length %d", r.Len())
	}
	if r.Cells[r.WaypointIndex] != sc.Waypoint {
		t.Fatalf("waypoint index %d points at %s", r.WaypointIndex, r.Cells[r.WaypointIndex])
	}
	if r.ExternalText() != "[1-1,2-1,3-1,3-2,3-3]" {
		t.Fatalf("external text %q", r.ExternalText())
	}
	if len(eng.goals) != 2 || !strings.Contains(eng.goals[1], "3-1, 3-3") {
		t.Fatalf("unexpected queries: %v", eng.goals)
	}
	if !events.HasEntry("solve", "ok", "5 cells") {
		t.Fatalf("expected solve/ok, log:\n%s", events.Format())
	}
}

func TestRouteSolver_FirstLegFailureSkipsSecond(t *testing.T) {
	eng := &scriptedEngine{errs: []error{engine.ErrNoSolution}}
	rs, events := newTestSolver(eng, DecodeDrop)

	r, err := rs.SolveRoute(lineScenario(t))
	if r != nil || !errors.Is(err, engine.ErrNoSolution) {
		t.Fatalf("got route %v err %v", r, err)
	}
	if len(eng.goals) != 1 {
		t.Fatalf("second leg should not be queried, got %d queries", len(eng.goals))
	}
	if !events.HasEntry("solve", "failed", "start→waypoint") {
		t.Fatalf("expected first-leg failure, log:\n%s", events.Format())
	}
}

func TestRouteSolver_SecondLegFailureDiscardsFirst(t *testing.T) {
	eng := &scriptedEngine{answers: [][]string{leg1Atoms}}
	rs, events := newTestSolver(eng, DecodeDrop)

	r, err := rs.SolveRoute(lineScenario(t))
	if r != nil || err == nil {
		t.Fatalf("expected no partial route, got %v %v", r, err)
	}
	if !events.HasEntry("solve", "failed", "waypoint→goal") {
		t.Fatalf("expected second-leg failure, log:\n%s", events.Format())
	}
	if events.CountCategory("leg", "solved") != 1 {
		t.Fatal("first leg should have been solved before the failure")
	}
}

func TestRouteSolver_UnsafeHintLogged(t *testing.T) {
	unsafe := errors.New("remote: safe_cell(1-1) failed")
	rs, events := newTestSolver(&scriptedEngine{errs: []error{unsafe}}, DecodeDrop)
	if _, err := rs.SolveLeg(lineScenario(t), Cell{0, 0}, Cell{0, 2}); err == nil {
		t.Fatal("expected error")
	}
	if events.CountCategory("leg", "unsafe_endpoint") != 1 {
		t.Fatalf("expected unsafe hint, log:\n%s", events.Format())
	}
}

func TestRouteSolver_EmptyAnswerIsNoSolution(t *testing.T) {
	rs, _ := newTestSolver(&scriptedEngine{answers: [][]string{{}}}, DecodeDrop)
	_, err := rs.SolveLeg(lineScenario(t), Cell{0, 0}, Cell{0, 2})
	if !errors.Is(err, engine.ErrNoSolution) {
		t.Fatalf("expected ErrNoSolution, got %v", err)
	}
}

func TestRouteSolver_DropPolicySkipsBadAtoms(t *testing.T) {
	atoms := []string{"-(1,1)", "foo", "-(2,1)", "-(9,9)", "3-1"}
	rs, events := newTestSolver(&scriptedEngine{answers: [][]string{atoms}}, DecodeDrop)

	p, err := rs.SolveLeg(lineScenario(t), Cell{0, 0}, Cell{0, 2})
	if err != nil {
		t.Fatalf("SolveLeg: %v", err)
	}
	want := Path{{0, 0}, {0, 1}, {0, 2}}
	if len(p) != len(want) {
		t.Fatalf("path %v, want %v", p, want)
	}
	for i := range want {
		if p[i] != want[i] {
			t.Fatalf("path %v, want %v", p, want)
		}
	}
	if n := events.CountCategory("decode", "bad_atom"); n != 2 {
		t.Fatalf("expected 2 bad_atom events, got %d", n)
	}
}

func TestRouteSolver_DropPolicyAllBad(t *testing.T) {
	rs, _ := newTestSolver(&scriptedEngine{answers: [][]string{{"x", "y"}}}, DecodeDrop)
	_, err := rs.SolveLeg(lineScenario(t), Cell{0, 0}, Cell{0, 2})
	if !errors.Is(err, ErrBadAtom) {
		t.Fatalf("expected ErrBadAtom, got %v", err)
	}
}

func TestRouteSolver_StrictPolicyFailsLeg(t *testing.T) {
	atoms := []string{"-(1,1)", "foo", "-(2,1)"}
	rs, events := newTestSolver(&scriptedEngine{answers: [][]string{atoms}}, DecodeStrict)
	_, err := rs.SolveLeg(lineScenario(t), Cell{0, 0}, Cell{0, 2})
	if !errors.Is(err, ErrBadAtom) {
		t.Fatalf("expected ErrBadAtom, got %v", err)
	}
	if events.CountCategory("leg", "solved") != 0 {
		t.Fatal("strict leg must not be reported solved")
	}
}

func TestDecodeAtom(t *testing.T) {
	sc := lineScenario(t)
	good := map[string]Cell{
		"-(1,1)":      {0, 0},
		"-(3,2)":      {1, 2},
		" -( 2 , 3 )": {2, 1},
		"2-3":         {2, 1},
	}
	for atom, want := range good {
		got, err := decodeAtom(atom, sc)
		if err != nil || got != want {
			t.Fatalf("decodeAtom(%q) = %s, %v; want %s", atom, got, err, want)
		}
	}
	for _, atom := range []string{"", "-(1)", "(1,1)", "a-b", "-(0,1)", "4-1", "-(1,1"} {
		if _, err := decodeAtom(atom, sc); !errors.Is(err, ErrBadAtom) {
			t.Fatalf("decodeAtom(%q): expected ErrBadAtom, got %v", atom, err)
		}
	}
}

func TestParseDecodePolicy(t *testing.T) {
	for in, want := range map[string]DecodePolicy{"": DecodeDrop, "drop": DecodeDrop, "STRICT": DecodeStrict} {
		got, err := ParseDecodePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseDecodePolicy(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseDecodePolicy("lenient"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestBridgeRoundTrip(t *testing.T) {
	for r := 0; r < 6; r++ {
		for c := 0; c < 4; c++ {
			cell := Cell{Row: r, Col: c}
			p := ToExternal(cell)
			if p.X != c+1 || p.Y != r+1 {
				t.Fatalf("ToExternal(%s) = %v", cell, p)
			}
			if back := ToInternal(p); back != cell {
				t.Fatalf("round trip %s -> %v -> %s", cell, p, back)
			}
		}
	}
}

func TestStitchRoute(t *testing.T) {
	leg1 := Path{{0, 0}, {0, 1}}
	leg2 := Path{{0, 1}}
	r := stitchRoute(leg1, leg2)
	if r.Len() != 2 || r.WaypointIndex != 1 || r.Steps() != 1 {
		t.Fatalf("stitched %+v", r)
	}
	var none *Route
	if none.Len() != 0 || none.Steps() != 0 || none.ExternalText() != "[]" {
		t.Fatal("nil route helpers should be zero")
	}
}
