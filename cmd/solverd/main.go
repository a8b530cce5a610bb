package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/Garsondee/Waypoint-Sense/internal/engine"
	"github.com/Garsondee/Waypoint-Sense/internal/engine/remote"
)

func main() {
	var addr, rulesPath string
	flag.StringVar(&addr, "addr", ":8765", "listen address")
	flag.StringVar(&rulesPath, "rules", "assets/cs_path.json", "engine definitions file")
	flag.Parse()

	logger := log.New(os.Stderr, "solverd ", log.LstdFlags)

	defs, err := engine.LoadDefinitions(rulesPath)
	if err != nil {
		logger.Fatal(err)
	}
	handler := remote.NewHandler(engine.NewBuiltin(defs), remote.HandlerConfig{Logger: logger})

	mux := http.NewServeMux()
	mux.HandleFunc("/solve", handler.Handle)

	logger.Printf("engine %q (hostile reach %d) listening on %s", defs.Predicate, defs.HostileReach, addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal(err)
	}
}
