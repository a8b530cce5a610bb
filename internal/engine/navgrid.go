package engine

import (
	"container/heap"
	"fmt"
)

// NavGrid is a walkability grid in engine coordinates where true = blocked.
// A cell is blocked when it is an obstacle, a hostile, or within hostile
// reach of one.
type NavGrid struct {
	cols    int
	rows    int
	blocked []bool
}

// NewNavGrid builds the grid for a query. Points outside the grid are ignored.
// The caller bounds Width×Height; Builtin rejects grids over MaxGridCells.
func NewNavGrid(q Query, hostileReach int) *NavGrid {
	ng := &NavGrid{
		cols:    q.Width,
		rows:    q.Height,
		blocked: make([]bool, q.Width*q.Height),
	}
	for _, p := range q.Obstacles {
		ng.block(p.X, p.Y)
	}
	for _, p := range q.Hostiles {
		ng.block(p.X, p.Y)
		for r := 1; r <= hostileReach; r++ {
			ng.block(p.X+r, p.Y)
			ng.block(p.X-r, p.Y)
			ng.block(p.X, p.Y+r)
			ng.block(p.X, p.Y-r)
		}
	}
	return ng
}

func (ng *NavGrid) inBounds(x, y int) bool {
	return x >= 1 && y >= 1 && x <= ng.cols && y <= ng.rows
}

func (ng *NavGrid) block(x, y int) {
	if ng.inBounds(x, y) {
		ng.blocked[ng.key(x, y)] = true
	}
}

func (ng *NavGrid) key(x, y int) int { return (y-1)*ng.cols + (x - 1) }

// IsBlocked returns true if (x, y) is not a safe cell.
func (ng *NavGrid) IsBlocked(x, y int) bool {
	if !ng.inBounds(x, y) {
		return true
	}
	return ng.blocked[ng.key(x, y)]
}

// --- A* pathfinding ---

type pathNode struct {
	x, y   int
	g, h   int
	seq    int // insertion order, breaks f ties deterministically
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int)       { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// Orthogonal moves only: the route is a sequence of edge-adjacent cells.
var dirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// FindPath returns the shortest sequence of points from a to b, both included.
// Returns nil if no path exists. maxExpansions <= 0 means unbounded; when the
// limit is hit the error wraps ErrNoSolution.
func (ng *NavGrid) FindPath(a, b Point, maxExpansions int) ([]Point, error) {
	if ng.IsBlocked(a.X, a.Y) || ng.IsBlocked(b.X, b.Y) {
		return nil, nil
	}

	heuristic := func(x, y int) int { return abs(x-b.X) + abs(y-b.Y) }

	seq := 0
	start := &pathNode{x: a.X, y: a.Y, h: heuristic(a.X, a.Y)}
	ol := &openList{start}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := map[int]*pathNode{ng.key(a.X, a.Y): start}
	expanded := 0

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.x == b.X && cur.y == b.Y {
			return buildPath(cur), nil
		}
		k := ng.key(cur.x, cur.y)
		if closed[k] {
			continue
		}
		closed[k] = true
		expanded++
		if maxExpansions > 0 && expanded > maxExpansions {
			return nil, fmt.Errorf("%w: search limit %d reached", ErrNoSolution, maxExpansions)
		}

		for _, d := range dirs {
			nx, ny := cur.x+d[0], cur.y+d[1]
			if ng.IsBlocked(nx, ny) {
				continue
			}
			nk := ng.key(nx, ny)
			if closed[nk] {
				continue
			}
			g := cur.g + 1
			if prev, ok := best[nk]; ok && g >= prev.g {
				continue
			}
			seq++
			node := &pathNode{x: nx, y: ny, g: g, h: heuristic(nx, ny), seq: seq, parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil, nil
}

func buildPath(end *pathNode) []Point {
	var pts []Point
	for n := end; n != nil; n = n.parent {
		pts = append(pts, Point{X: n.x, Y: n.y})
	}
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
	return pts
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
