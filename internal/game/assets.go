package game

import (
	_ "image/png" // sprite decoding
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// sprites holds optional cell images. A nil entry is drawn as a flat colour.
type sprites struct {
	floor    *ebiten.Image
	agent    *ebiten.Image
	obstacle *ebiten.Image
	hostile  *ebiten.Image
	hazard   *ebiten.Image
	waypoint *ebiten.Image
	goal     *ebiten.Image
}

func loadSprites(dir string, events *EventLog) sprites {
	if dir == "" {
		return sprites{}
	}
	load := func(name string) *ebiten.Image {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			events.Add(0, "asset", "missing", path, 0)
			return nil
		}
		img, _, err := ebitenutil.NewImageFromFile(path)
		if err != nil {
			events.Add(0, "asset", "unreadable", path+": "+err.Error(), 0)
			return nil
		}
		return img
	}
	return sprites{
		floor:    load("floor.png"),
		agent:    load("agent.png"),
		obstacle: load("obstacle.png"),
		hostile:  load("hostile.png"),
		hazard:   load("hazard.png"),
		waypoint: load("waypoint.png"),
		goal:     load("goal.png"),
	}
}

// drawSprite scales img to one cell at pixel (x, y).
func drawSprite(screen, img *ebiten.Image, x, y, cellSize int) {
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(cellSize)/float64(b.Dx()), float64(cellSize)/float64(b.Dy()))
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, op)
}
