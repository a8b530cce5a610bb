package game

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	colorFloor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorGridLine = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	colorAgent    = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	colorGoal     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	colorWaypoint = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	colorObstacle = color.RGBA{R: 100, G: 100, B: 100, A: 255}
	colorHostile  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	colorHazard   = color.RGBA{R: 255, G: 255, B: 150, A: 255}
	colorRoute    = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	colorHUD      = color.RGBA{R: 50, G: 50, B: 50, A: 255}
	colorHUDText  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorButton   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	colorBtnText  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

type rect struct {
	x int
	y int
	w int
	h int
}

func (r rect) contains(px, py int) bool {
	return px >= r.x && py >= r.y && px < r.x+r.w && py < r.y+r.h
}

// Game is the ebiten front end. It reads Session state for drawing and turns
// input into the two session commands.
type Game struct {
	session  *Session
	events   *EventLog
	routeLog *RouteLog
	sprites  sprites
	face     *text.GoTextFace

	cellSize  int
	gridW     int
	gridH     int
	hudHeight int
	width     int
	height    int

	btnGenerate rect
	btnSolve    rect

	showLog       bool
	status        string
	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
}

// New builds the front end for session. routeLog should already be attached
// to the session's event log.
func New(session *Session, routeLog *RouteLog) (*Game, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load HUD font: %w", err)
	}
	cfg := session.Config()
	gridW := cfg.Dim * cfg.CellSize
	gridH := cfg.Dim * cfg.CellSize
	g := &Game{
		session:     session,
		events:      session.Events(),
		routeLog:    routeLog,
		sprites:     loadSprites(cfg.AssetDir, session.Events()),
		face:        &text.GoTextFace{Source: src, Size: 16},
		cellSize:    cfg.CellSize,
		gridW:       gridW,
		gridH:       gridH,
		hudHeight:   cfg.HUDHeight,
		width:       gridW + logPanelWidth,
		height:      gridH + cfg.HUDHeight,
		btnGenerate: rect{x: 10, y: gridH + 10, w: 180, h: 40},
		btnSolve:    rect{x: 200, y: gridH + 10, w: 180, h: 40},
		showLog:     true,
		prevKeys:    make(map[ebiten.Key]bool),
	}
	return g, nil
}

// WindowSize is the outer size the window should open at.
func (g *Game) WindowSize() (int, int) {
	return g.width, g.height
}

func (g *Game) Update() error {
	g.handleInput()
	g.session.Tick(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

// handleInput processes key and button presses (edge-triggered).
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	if pressed(ebiten.KeyG) {
		g.newScenario()
	}
	if pressed(ebiten.KeyEnter) || pressed(ebiten.KeySpace) {
		g.solve()
	}
	if pressed(ebiten.KeyC) {
		g.copyRoute()
	}
	if pressed(ebiten.KeyH) {
		g.showLog = !g.showLog
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !g.prevMouseLeft {
			mx, my := ebiten.CursorPosition()
			switch {
			case g.btnGenerate.contains(mx, my):
				g.newScenario()
			case g.btnSolve.contains(mx, my):
				g.solve()
			}
		}
	}
	g.prevMouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	g.prevKeys = currentKeys
}

func (g *Game) newScenario() {
	g.status = commandStatus(g.session.RequestNewScenario())
}

func (g *Game) solve() {
	g.status = commandStatus(g.session.RequestSolve())
}

// commandStatus maps a command result to the HUD status line.
func commandStatus(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBusy):
		return "busy: wait for the agent"
	case errors.Is(err, ErrNoScenario):
		return "generate a grid first"
	default:
		return "no route available"
	}
}

// copyRoute puts the route, in engine coordinates, on the clipboard.
func (g *Game) copyRoute() {
	r := g.session.Route()
	if r == nil {
		g.status = "no route to copy"
		return
	}
	if err := clipboard.WriteAll(r.ExternalText()); err != nil {
		g.events.Add(g.session.CurrentTick(), "command", "clipboard_failed", err.Error(), 0)
		g.status = "clipboard unavailable"
		return
	}
	g.status = fmt.Sprintf("copied %d cells", r.Len())
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorFloor)
	sc := g.session.Scenario()
	if sc != nil {
		ps := g.session.Playback()
		g.drawGrid(screen, sc, ps)
		g.drawRoute(screen)
		g.drawAgent(screen, ps)
	}
	g.drawHUD(screen)
	if g.showLog {
		g.routeLog.Draw(screen, g.gridW, g.height)
	}
}

func (g *Game) cellRect(c Cell) (float32, float32, float32) {
	cs := float32(g.cellSize)
	return float32(c.Col) * cs, float32(c.Row) * cs, cs
}

func (g *Game) drawGrid(screen *ebiten.Image, sc *Scenario, ps PlaybackState) {
	for r := 0; r < sc.Height; r++ {
		for c := 0; c < sc.Width; c++ {
			cell := Cell{Row: r, Col: c}
			x, y, cs := g.cellRect(cell)

			if g.sprites.floor != nil {
				drawSprite(screen, g.sprites.floor, int(x), int(y), g.cellSize)
			}

			var img *ebiten.Image
			var fill color.Color
			switch {
			case cell == sc.Waypoint && !ps.WaypointReached:
				img, fill = g.sprites.waypoint, colorWaypoint
			case cell == sc.Goal:
				img, fill = g.sprites.goal, colorGoal
			case sc.IsObstacle(cell):
				img, fill = g.sprites.obstacle, colorObstacle
			case sc.IsHostile(cell):
				img, fill = g.sprites.hostile, colorHostile
			case sc.IsHazard(cell):
				img, fill = g.sprites.hazard, colorHazard
			}
			if img != nil {
				drawSprite(screen, img, int(x), int(y), g.cellSize)
			} else if fill != nil {
				vector.FillRect(screen, x, y, cs, cs, fill, false)
			}
			vector.StrokeRect(screen, x, y, cs, cs, 1.0, colorGridLine, false)
		}
	}
}

// drawRoute draws the full route as a polyline through cell centres.
func (g *Game) drawRoute(screen *ebiten.Image) {
	r := g.session.Route()
	if r.Len() < 2 {
		return
	}
	half := float32(g.cellSize) / 2
	for i := 1; i < len(r.Cells); i++ {
		x0, y0, _ := g.cellRect(r.Cells[i-1])
		x1, y1, _ := g.cellRect(r.Cells[i])
		vector.StrokeLine(screen, x0+half, y0+half, x1+half, y1+half, 4, colorRoute, true)
	}
}

func (g *Game) drawAgent(screen *ebiten.Image, ps PlaybackState) {
	x, y, cs := g.cellRect(ps.Cell)
	if g.sprites.agent != nil {
		drawSprite(screen, g.sprites.agent, int(x), int(y), g.cellSize)
		return
	}
	vector.FillRect(screen, x, y, cs, cs, colorAgent, false)
}

// stepText is the HUD step counter.
func stepText(ps PlaybackState) string {
	switch {
	case ps.IsPlaying():
		return fmt.Sprintf("Step: %d / %d", ps.Index+1, ps.TotalSteps)
	case ps.TotalSteps > 0:
		return fmt.Sprintf("Total: %d steps", ps.TotalSteps)
	default:
		return "Steps: --"
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	vector.FillRect(screen, 0, float32(g.gridH), float32(g.gridW), float32(g.hudHeight), colorHUD, false)

	for _, b := range []struct {
		r     rect
		label string
	}{
		{g.btnGenerate, "New Grid [G]"},
		{g.btnSolve, "Find Path [Enter]"},
	} {
		vector.FillRect(screen, float32(b.r.x), float32(b.r.y), float32(b.r.w), float32(b.r.h), colorButton, false)
		tw, th := text.Measure(b.label, g.face, 0)
		g.drawText(screen, b.label, float64(b.r.x)+(float64(b.r.w)-tw)/2, float64(b.r.y)+(float64(b.r.h)-th)/2, colorBtnText)
	}

	steps := stepText(g.session.Playback())
	tw, th := text.Measure(steps, g.face, 0)
	midY := float64(g.gridH) + float64(g.hudHeight)/2
	g.drawText(screen, steps, float64(g.gridW)-20-tw, midY-th/2, colorHUDText)

	if g.status != "" {
		g.drawText(screen, g.status, float64(g.btnSolve.x+g.btnSolve.w+16), midY-th/2, colorWaypoint)
	}
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, op)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
