package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNoSolution is returned when no safe path joins the two endpoints.
	ErrNoSolution = errors.New("no solution")
	// ErrUnsafeEndpoint is returned when the origin or destination is not a
	// safe cell. Its message carries the "safe_cell" marker callers look for.
	ErrUnsafeEndpoint = errors.New("safe_cell: endpoint is not safe")
	// ErrBadQuery is returned for query text that cannot be parsed.
	ErrBadQuery = errors.New("malformed query")
)

// Engine answers one path query at a time. goal is the query text produced by
// Query.String; the result is the ordered list of path atoms, both endpoints
// included. Implementations block until the answer is known.
type Engine interface {
	Query(goal string) ([]string, error)
}

// Point is a one-based engine coordinate: X is the column, Y the row.
type Point struct {
	X int
	Y int
}

// String renders the point as "X-Y".
func (p Point) String() string {
	return fmt.Sprintf("%d-%d", p.X, p.Y)
}

// Atom renders the point the way result paths carry it: "-(X,Y)".
func (p Point) Atom() string {
	return fmt.Sprintf("-(%d,%d)", p.X, p.Y)
}

// Query is a single origin→destination request over a width×height grid.
type Query struct {
	Predicate   string
	Width       int
	Height      int
	Origin      Point
	Destination Point
	Obstacles   []Point
	Hostiles    []Point
}

// String encodes the query:
//
//	shortest_path(20, 20, 3-4, 9-9, [1-2,5-6], [7-7], Path)
func (q Query) String() string {
	pred := q.Predicate
	if pred == "" {
		pred = DefaultPredicate
	}
	return fmt.Sprintf("%s(%d, %d, %s, %s, %s, %s, Path)",
		pred, q.Width, q.Height, q.Origin, q.Destination,
		formatList(q.Obstacles), formatList(q.Hostiles))
}

func formatList(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ParseQuery decodes text produced by Query.String.
func ParseQuery(text string) (Query, error) {
	text = strings.TrimSpace(text)
	open := strings.IndexByte(text, '(')
	if open <= 0 || !strings.HasSuffix(text, ")") {
		return Query{}, fmt.Errorf("%w: %q", ErrBadQuery, text)
	}
	args := splitArgs(text[open+1 : len(text)-1])
	if len(args) != 7 {
		return Query{}, fmt.Errorf("%w: want 7 arguments, got %d", ErrBadQuery, len(args))
	}

	q := Query{Predicate: strings.TrimSpace(text[:open])}
	var err error
	if q.Width, err = strconv.Atoi(args[0]); err != nil {
		return Query{}, fmt.Errorf("%w: width %q", ErrBadQuery, args[0])
	}
	if q.Height, err = strconv.Atoi(args[1]); err != nil {
		return Query{}, fmt.Errorf("%w: height %q", ErrBadQuery, args[1])
	}
	if q.Origin, err = ParsePoint(args[2]); err != nil {
		return Query{}, err
	}
	if q.Destination, err = ParsePoint(args[3]); err != nil {
		return Query{}, err
	}
	if q.Obstacles, err = parseList(args[4]); err != nil {
		return Query{}, err
	}
	if q.Hostiles, err = parseList(args[5]); err != nil {
		return Query{}, err
	}
	return q, nil
}

// ParsePoint decodes "X-Y".
func ParsePoint(s string) (Point, error) {
	s = strings.TrimSpace(s)
	xs, ys, ok := strings.Cut(s, "-")
	if !ok {
		return Point{}, fmt.Errorf("%w: point %q", ErrBadQuery, s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return Point{}, fmt.Errorf("%w: point %q", ErrBadQuery, s)
	}
	return Point{X: x, Y: y}, nil
}

func parseList(s string) ([]Point, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("%w: list %q", ErrBadQuery, s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, nil
	}
	parts := strings.Split(body, ",")
	pts := make([]Point, 0, len(parts))
	for _, part := range parts {
		p, err := ParsePoint(part)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// splitArgs splits on commas that are not inside brackets.
func splitArgs(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}
