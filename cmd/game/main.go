package main

import (
	"flag"
	"log"
	"os"

	"github.com/Garsondee/Waypoint-Sense/internal/engine"
	"github.com/Garsondee/Waypoint-Sense/internal/engine/remote"
	"github.com/Garsondee/Waypoint-Sense/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := game.DefaultConfig()
	var rulesPath, backendName, engineURL, decode string

	flag.IntVar(&cfg.Dim, "dim", cfg.Dim, "grid dimension (cells per side)")
	flag.IntVar(&cfg.CellSize, "cell", cfg.CellSize, "cell size in pixels")
	flag.Int64Var(&cfg.Seed, "seed", 0, "scenario RNG seed (0 = time based)")
	flag.DurationVar(&cfg.NormalInterval, "normal", cfg.NormalInterval, "step interval before the waypoint")
	flag.DurationVar(&cfg.FastInterval, "fast", cfg.FastInterval, "step interval after the waypoint")
	flag.StringVar(&cfg.AssetDir, "assets", "", "directory of PNG sprites (empty = flat colours)")
	flag.StringVar(&rulesPath, "rules", "assets/cs_path.json", "engine definitions file")
	flag.StringVar(&backendName, "engine", string(engine.BackendBuiltin), "engine backend: builtin or remote")
	flag.StringVar(&engineURL, "engine-url", "ws://localhost:8765/solve", "solver daemon URL for -engine remote")
	flag.StringVar(&decode, "decode", "drop", "bad path atom policy: drop or strict")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	policy, err := game.ParseDecodePolicy(decode)
	if err != nil {
		logger.Fatal(err)
	}
	cfg.Decode = policy
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}

	defs, err := engine.LoadDefinitions(rulesPath)
	if err != nil {
		logger.Fatal(err)
	}
	cfg.Predicate = defs.Predicate

	backend, err := engine.ParseBackend(backendName)
	if err != nil {
		logger.Fatal(err)
	}
	var eng engine.Engine
	switch backend {
	case engine.BackendRemote:
		client, err := remote.Dial(engineURL)
		if err != nil {
			logger.Fatal(err)
		}
		defer client.Close()
		eng = client
	default:
		eng = engine.NewBuiltin(defs)
	}

	events := game.NewEventLog(logger)
	routeLog := game.NewRouteLog()
	events.Attach(routeLog)

	session := game.NewSession(cfg, eng, events)
	if err := session.RequestNewScenario(); err != nil {
		logger.Fatal(err)
	}

	g, err := game.New(session, routeLog)
	if err != nil {
		logger.Fatal(err)
	}
	w, h := g.WindowSize()
	ebiten.SetWindowTitle("Waypoint Sense")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal(err)
	}
}
