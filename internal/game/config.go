package game

import (
	"fmt"
	"time"

	"github.com/Garsondee/Waypoint-Sense/internal/engine"
)

// Config holds the visualizer settings. Zero values are not usable; start
// from DefaultConfig.
type Config struct {
	Dim       int // grid is Dim×Dim
	CellSize  int // pixels per cell
	HUDHeight int // pixels below the grid for buttons and the step counter

	NormalInterval time.Duration // step interval before the waypoint
	FastInterval   time.Duration // step interval after the waypoint

	Rates ScenarioRates
	Seed  int64 // 0 = time based

	Predicate string
	Decode    DecodePolicy

	AssetDir string // optional PNG sprites; "" draws flat colours
}

// MaxDim bounds the grid side; larger grids no longer fit a window at any
// usable cell size.
const MaxDim = 100

// DefaultConfig returns the stock 20×20 setup.
func DefaultConfig() Config {
	return Config{
		Dim:            20,
		CellSize:       40,
		HUDHeight:      60,
		NormalInterval: 150 * time.Millisecond,
		FastInterval:   75 * time.Millisecond,
		Rates:          DefaultScenarioRates(),
		Predicate:      engine.DefaultPredicate,
		Decode:         DecodeDrop,
	}
}

// Validate rejects settings the core cannot run with.
func (c Config) Validate() error {
	if c.Dim < 2 || c.Dim > MaxDim {
		return fmt.Errorf("dim must be in [2, %d], got %d", MaxDim, c.Dim)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("cell size must be > 0, got %d", c.CellSize)
	}
	if c.FastInterval <= 0 || c.NormalInterval <= c.FastInterval {
		return fmt.Errorf("need normal interval > fast interval > 0, got %v and %v", c.NormalInterval, c.FastInterval)
	}
	if c.Rates.Obstacle < 0 || c.Rates.Hostile < 0 || c.Rates.Obstacle+c.Rates.Hostile > 1 {
		return fmt.Errorf("cell rates out of range: obstacle=%.2f hostile=%.2f", c.Rates.Obstacle, c.Rates.Hostile)
	}
	return nil
}
