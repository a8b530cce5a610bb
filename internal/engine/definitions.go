package engine

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultPredicate is the query head the built-in engine answers to.
const DefaultPredicate = "shortest_path"

// Definitions configures the built-in engine. It is loaded from a JSON file
// at startup; a missing file is a startup failure.
type Definitions struct {
	Predicate string `json:"predicate"`
	// HostileReach is how many cells along each axis a hostile makes unsafe.
	HostileReach int `json:"hostile_reach"`
	// MaxExpansions caps the search; 0 means unbounded.
	MaxExpansions int `json:"max_expansions"`
}

// DefaultDefinitions matches assets/cs_path.json.
func DefaultDefinitions() Definitions {
	return Definitions{Predicate: DefaultPredicate, HostileReach: 1}
}

// LoadDefinitions reads and validates a definitions file.
func LoadDefinitions(path string) (Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definitions{}, fmt.Errorf("load engine definitions: %w", err)
	}
	var defs Definitions
	if err := json.Unmarshal(data, &defs); err != nil {
		return Definitions{}, fmt.Errorf("parse engine definitions %s: %w", path, err)
	}
	if err := defs.Validate(); err != nil {
		return Definitions{}, fmt.Errorf("engine definitions %s: %w", path, err)
	}
	return defs, nil
}

// Validate rejects definitions the engine cannot run with.
func (d Definitions) Validate() error {
	if d.Predicate == "" {
		return fmt.Errorf("predicate must be set")
	}
	if d.HostileReach < 0 {
		return fmt.Errorf("hostile_reach must be >= 0, got %d", d.HostileReach)
	}
	if d.MaxExpansions < 0 {
		return fmt.Errorf("max_expansions must be >= 0, got %d", d.MaxExpansions)
	}
	return nil
}
