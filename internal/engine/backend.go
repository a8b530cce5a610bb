package engine

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Backend names an engine implementation selectable from the command line.
type Backend string

const (
	BackendBuiltin Backend = "builtin"
	BackendRemote  Backend = "remote"
)

var backends = []Backend{BackendBuiltin, BackendRemote}

// ParseBackend resolves a backend name. Unknown names that are close to a
// known one get a suggestion in the error.
func ParseBackend(name string) (Backend, error) {
	in := strings.ToLower(strings.TrimSpace(name))
	for _, b := range backends {
		if in == string(b) {
			return b, nil
		}
	}
	if s, ok := suggestBackend(in); ok {
		return "", fmt.Errorf("unknown engine backend %q (did you mean %q?)", name, s)
	}
	return "", fmt.Errorf("unknown engine backend %q (supported: %s, %s)", name, BackendBuiltin, BackendRemote)
}

func suggestBackend(in string) (Backend, bool) {
	if in == "" {
		return "", false
	}
	best := Backend("")
	bestDist := -1
	for _, b := range backends {
		dist := levenshtein.ComputeDistance(in, string(b))
		if dist > levenshteinLimit(len(b)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = b, dist
		}
	}
	return best, bestDist >= 0
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
