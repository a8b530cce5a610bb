package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth   = 320
	logMaxEntries   = 40
	logLineHeight   = 14
	logSummaryLines = 6
)

// legResult is the outcome of one leg of the current solve attempt.
type legResult struct {
	solved bool
	cells  int
}

// RouteLog feeds the side panel: a summary of the current scenario and the
// latest solve attempt, and a short history of route-level events.
type RouteLog struct {
	entries []EventEntry
	head    int
	count   int

	grid     string
	legs     []legResult
	outcome  string
	badAtoms int
	progress string
}

// NewRouteLog creates a route log with a fixed history capacity.
func NewRouteLog() *RouteLog {
	return &RouteLog{
		entries: make([]EventEntry, logMaxEntries),
	}
}

// Add folds e into the summary and, unless it is per-atom noise, into the
// history ring.
func (rl *RouteLog) Add(e EventEntry) {
	switch e.Category + "/" + e.Key {
	case "scenario/generated":
		rl.grid = e.Value
		rl.resetAttempt()
	case "leg/solved", "leg/failed":
		if rl.outcome != "" {
			// First leg of a new solve on the same scenario.
			rl.resetAttempt()
		}
		rl.legs = append(rl.legs, legResult{solved: e.Key == "solved", cells: int(e.NumVal)})
	case "decode/bad_atom":
		rl.badAtoms++
		return
	case "solve/ok":
		rl.outcome = "route " + e.Value
	case "solve/failed":
		rl.outcome = "no route: " + e.Value
	case "playback/start":
		rl.progress = "playing " + e.Value
	case "playback/waypoint":
		rl.progress = "waypoint " + e.Value
	case "playback/finished":
		rl.progress = "arrived, " + e.Value
	}

	rl.entries[rl.head] = e
	rl.head = (rl.head + 1) % logMaxEntries
	if rl.count < logMaxEntries {
		rl.count++
	}
}

func (rl *RouteLog) resetAttempt() {
	rl.legs = rl.legs[:0]
	rl.outcome = ""
	rl.badAtoms = 0
	rl.progress = ""
}

// Recent returns history entries in chronological order (oldest first).
func (rl *RouteLog) Recent() []EventEntry {
	result := make([]EventEntry, rl.count)
	for i := 0; i < rl.count; i++ {
		idx := (rl.head - rl.count + i + logMaxEntries) % logMaxEntries
		result[i] = rl.entries[idx]
	}
	return result
}

// Summary returns the fixed block shown at the top of the panel.
func (rl *RouteLog) Summary() []string {
	lines := make([]string, 0, logSummaryLines)
	grid := rl.grid
	if grid == "" {
		grid = "none"
	}
	lines = append(lines, "grid: "+grid)
	for i, name := range []string{"start→waypoint", "waypoint→goal"} {
		status := "pending"
		if rl.outcome != "" {
			status = "skipped"
		}
		if i < len(rl.legs) {
			if rl.legs[i].solved {
				status = fmt.Sprintf("ok, %d cells", rl.legs[i].cells)
			} else {
				status = "FAILED"
			}
		}
		lines = append(lines, fmt.Sprintf("leg %d %s: %s", i+1, name, status))
	}
	outcome := rl.outcome
	if outcome == "" {
		outcome = "not solved"
	}
	lines = append(lines, outcome)
	if rl.badAtoms > 0 {
		lines = append(lines, fmt.Sprintf("dropped atoms: %d", rl.badAtoms))
	}
	if rl.progress != "" {
		lines = append(lines, rl.progress)
	}
	return lines
}

func categoryColor(category string) color.RGBA {
	switch category {
	case "leg", "decode":
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	case "solve":
		return color.RGBA{R: 128, G: 0, B: 128, A: 255}
	case "playback":
		return color.RGBA{R: 255, G: 165, B: 0, A: 255}
	default:
		return color.RGBA{R: 70, G: 110, B: 210, A: 255}
	}
}

// Draw renders the panel at panelX spanning panelH pixels: the summary block,
// then as much history as fits, newest first.
func (rl *RouteLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	x := float32(panelX)
	vector.FillRect(screen, x, 0, logPanelWidth, float32(panelH), color.RGBA{R: 24, G: 24, B: 32, A: 255}, false)

	summaryH := (logSummaryLines + 1) * logLineHeight
	vector.FillRect(screen, x, 0, logPanelWidth, float32(summaryH), color.RGBA{R: 40, G: 40, B: 56, A: 255}, false)
	y := 4
	for _, line := range rl.Summary() {
		ebitenutil.DebugPrintAt(screen, truncate(line, 48), panelX+8, y)
		y += logLineHeight
	}

	for i, ok := range []bool{len(rl.legs) > 0 && rl.legs[0].solved, len(rl.legs) > 1 && rl.legs[1].solved} {
		clr := color.RGBA{R: 90, G: 90, B: 90, A: 255}
		switch {
		case ok:
			clr = color.RGBA{R: 0, G: 200, B: 0, A: 255}
		case i < len(rl.legs):
			clr = color.RGBA{R: 210, G: 70, B: 70, A: 255}
		}
		vector.FillRect(screen, x+logPanelWidth-14, float32(4+(i+1)*logLineHeight+3), 8, 8, clr, false)
	}

	y = summaryH + 4
	entries := rl.Recent()
	for i := len(entries) - 1; i >= 0 && y+logLineHeight <= panelH; i-- {
		e := entries[i]
		vector.FillRect(screen, x+4, float32(y+4), 4, 6, categoryColor(e.Category), false)
		line := fmt.Sprintf("%4d %-8s %s", e.Tick, e.Key, e.Value)
		ebitenutil.DebugPrintAt(screen, truncate(line, 48), panelX+12, y)
		y += logLineHeight
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
