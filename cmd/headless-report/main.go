package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/Garsondee/Waypoint-Sense/internal/engine"
	"github.com/Garsondee/Waypoint-Sense/internal/game"
)

// maxTicksPerRun bounds playback of a single run. A route on the largest grid
// takes at most 9 ticks per cell at 60 TPS.
const maxTicksPerRun = 9*game.MaxDim*game.MaxDim + 1000

type runStats struct {
	runIndex int
	seed     int64

	solved        bool
	reason        string
	routeLen      int
	waypointIndex int
	finishTick    int

	obstacles int
	hostiles  int
	hazards   int
	badAtoms  int
}

func main() {
	var runs int
	var dim int
	var seedBase int64
	var seedStep int64
	var rulesPath string
	var decode string

	flag.IntVar(&runs, "runs", 20, "number of headless scenarios")
	flag.IntVar(&dim, "dim", 20, "grid dimension")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&rulesPath, "rules", "assets/cs_path.json", "engine definitions file")
	flag.StringVar(&decode, "decode", "drop", "bad path atom policy: drop or strict")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if dim < 2 || dim > game.MaxDim {
		fmt.Printf("error: -dim must be in [2, %d]\n", game.MaxDim)
		return
	}
	policy, err := game.ParseDecodePolicy(decode)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	defs, err := engine.LoadDefinitions(rulesPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Headless Route Report ===\n")
	fmt.Printf("dim=%d runs=%d seed_base=%d seed_step=%d decode=%s hostile_reach=%d\n\n",
		dim, runs, seedBase, seedStep, policy, defs.HostileReach)

	eng := engine.NewBuiltin(defs)
	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runScenario(i+1, seed, dim, eng, policy)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func runScenario(runIndex int, seed int64, dim int, eng engine.Engine, policy game.DecodePolicy) runStats {
	s := game.NewSim(
		game.WithSeed(seed),
		game.WithDim(dim),
		game.WithEngine(eng),
		game.WithDecodePolicy(policy),
		game.WithLogger(log.New(io.Discard, "", 0)),
	)
	rs := runStats{runIndex: runIndex, seed: seed, finishTick: -1}

	err := s.Solve()
	if err == nil {
		rs.solved = true
		rs.routeLen = s.Session.Route().Len()
		rs.waypointIndex = s.Session.Route().WaypointIndex
		rs.finishTick = s.RunUntil(game.Finished, maxTicksPerRun)
	} else {
		rs.reason = failureReason(err)
	}

	snap := s.Snapshot()
	rs.obstacles = snap.Obstacles
	rs.hostiles = snap.Hostiles
	rs.hazards = snap.Hazards
	rs.badAtoms = snap.BadAtoms
	return rs
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, engine.ErrUnsafeEndpoint):
		return "unsafe_endpoint"
	case errors.Is(err, engine.ErrNoSolution):
		return "no_solution"
	case errors.Is(err, game.ErrBadAtom):
		return "bad_atom"
	case errors.Is(err, engine.ErrBadQuery):
		return "bad_query"
	default:
		return "error"
	}
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("grid: obstacles=%d hostiles=%d hazards=%d\n", rs.obstacles, rs.hostiles, rs.hazards)
	if rs.solved {
		fmt.Printf("route: cells=%d waypoint_index=%d finish_tick=%d bad_atoms=%d\n",
			rs.routeLen, rs.waypointIndex, rs.finishTick, rs.badAtoms)
	} else {
		fmt.Printf("route: none reason=%s\n", rs.reason)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	solved := 0
	totalLen := 0
	totalObstacles := 0
	totalHostiles := 0
	finishTicks := make([]int, 0, len(all))
	reasons := map[string]int{}

	for _, rs := range all {
		totalObstacles += rs.obstacles
		totalHostiles += rs.hostiles
		if !rs.solved {
			reasons[rs.reason]++
			continue
		}
		solved++
		totalLen += rs.routeLen
		if rs.finishTick >= 0 {
			finishTicks = append(finishTicks, rs.finishTick)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d solved=%d solve_rate=%.0f%%\n", len(all), solved, pct(solved, len(all)))
	fmt.Printf("avg_grid: obstacles=%.1f hostiles=%.1f\n", avg(totalObstacles, len(all)), avg(totalHostiles, len(all)))
	fmt.Printf("avg_route_cells=%.1f avg_finish_tick=%s\n", avg(totalLen, solved), avgTickString(finishTicks))
	fmt.Printf("failures: %s\n", formatReasons(reasons))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func pct(part, whole int) float64 {
	return avg(part*100, whole)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func formatReasons(reasons map[string]int) string {
	if len(reasons) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(reasons))
	for k := range reasons {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, reasons[k])
	}
	return strings.Join(parts, " ")
}
