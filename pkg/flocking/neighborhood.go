package flocking

import (
	"fmt"
	"math"
	"slices"
)

// Neighborhood finds the agents around a given one.
//
// Rebuild is called once per frame with the frozen agent slice, Query is then called for every
// agent. Query appends to dst[:0] the indices j != i with |p_j - p_i| < radius, in ascending order,
// and must be safe for concurrent use until the next Rebuild.
type Neighborhood interface {
	Rebuild(agents []Agent, radius float64)
	Query(agents []Agent, i int, radius float64, dst []int) []int
}

// Strategy names accepted by NewNeighborhood.
const (
	StrategyBruteForce = "brute"
	StrategyGrid       = "grid"
	StrategyRTree      = "rtree"
)

// NewNeighborhood returns the strategy registered under name.
func NewNeighborhood(name string) (Neighborhood, error) {
	switch name {
	case "", StrategyBruteForce:
		return BruteForce{}, nil
	case StrategyGrid:
		return NewGrid(), nil
	case StrategyRTree:
		return NewRTree(), nil
	}
	return nil, fmt.Errorf("flocking: unknown neighborhood strategy %q", name)
}

// BruteForce scans every agent for every query: O(N) per query, O(N²) per frame.
// For the hundred or so agents of the demo this is cheaper than maintaining an index.
type BruteForce struct{}

func (BruteForce) String() string { return StrategyBruteForce }

func (BruteForce) Rebuild([]Agent, float64) {}

func (BruteForce) Query(agents []Agent, i int, radius float64, dst []int) []int {
	dst = dst[:0]
	me := agents[i].Position
	radiusSq := radius * radius
	for j := range agents {
		if j == i {
			continue
		}
		if me.DistanceSquaredTo(agents[j].Position) < radiusSq {
			dst = append(dst, j)
		}
	}
	return dst
}

type gridKey struct {
	x, y int
}

// Grid is a spatial hash: agents are bucketed in square cells at least as wide as the
// perception radius, so a query only visits the cells overlapping its bounding square.
type Grid struct {
	cellSize float64
	cells    map[gridKey][]int
}

// NewGrid returns an empty grid, sized on the first Rebuild.
func NewGrid() *Grid {
	return &Grid{cells: make(map[gridKey][]int), cellSize: minCellSize}
}

const minCellSize = 10.0

func (g *Grid) String() string { return StrategyGrid }

func (g *Grid) Rebuild(agents []Agent, radius float64) {
	// keep the slices, drop their content: the buckets are reused frame after frame
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	g.cellSize = math.Max(radius, minCellSize)
	for i, a := range agents {
		key := g.keyOf(a.Position.X, a.Position.Y)
		g.cells[key] = append(g.cells[key], i)
	}
}

func (g *Grid) keyOf(x, y float64) gridKey {
	return gridKey{x: int(math.Floor(x / g.cellSize)), y: int(math.Floor(y / g.cellSize))}
}

func (g *Grid) Query(agents []Agent, i int, radius float64, dst []int) []int {
	dst = dst[:0]
	me := agents[i].Position
	radiusSq := radius * radius

	lo := g.keyOf(me.X-radius, me.Y-radius)
	hi := g.keyOf(me.X+radius, me.Y+radius)
	for gx := lo.x; gx <= hi.x; gx++ {
		for gy := lo.y; gy <= hi.y; gy++ {
			for _, j := range g.cells[gridKey{x: gx, y: gy}] {
				if j == i {
					continue
				}
				if me.DistanceSquaredTo(agents[j].Position) < radiusSq {
					dst = append(dst, j)
				}
			}
		}
	}
	slices.Sort(dst)
	return dst
}
