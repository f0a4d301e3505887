package flocking

import (
	"slices"

	"github.com/dhconnelly/rtreego"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	// agents are indexed as tiny squares around their position
	rtreePointTolerance = 0.005
)

// RTree indexes agents in an R-tree rebuilt every frame. Queries intersect the tree with the
// square enclosing the radius, then keep the strict-radius matches.
type RTree struct {
	tree     *rtreego.Rtree
	items    []rtreeItem
	spatials []rtreego.Spatial
}

type rtreeItem struct {
	index int
	rect  rtreego.Rect
}

func (it *rtreeItem) Bounds() rtreego.Rect { return it.rect }

// NewRTree returns an empty index.
func NewRTree() *RTree {
	return &RTree{}
}

func (t *RTree) String() string { return StrategyRTree }

func (t *RTree) Rebuild(agents []Agent, _ float64) {
	t.items = slices.Grow(t.items[:0], len(agents))[:len(agents)]
	t.spatials = slices.Grow(t.spatials[:0], len(agents))[:len(agents)]
	for i, a := range agents {
		rect, _ := rtreego.NewRect(
			rtreego.Point{a.Position.X - rtreePointTolerance, a.Position.Y - rtreePointTolerance},
			[]float64{2 * rtreePointTolerance, 2 * rtreePointTolerance},
		)
		t.items[i] = rtreeItem{index: i, rect: rect}
		t.spatials[i] = &t.items[i]
	}
	t.tree = rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, t.spatials...)
}

func (t *RTree) Query(agents []Agent, i int, radius float64, dst []int) []int {
	dst = dst[:0]
	if t.tree == nil || radius <= 0 {
		return dst
	}
	me := agents[i].Position
	bb, err := rtreego.NewRect(rtreego.Point{me.X - radius, me.Y - radius}, []float64{2 * radius, 2 * radius})
	if err != nil {
		return dst
	}
	radiusSq := radius * radius
	for _, s := range t.tree.SearchIntersect(bb) {
		j := s.(*rtreeItem).index
		if j == i {
			continue
		}
		if me.DistanceSquaredTo(agents[j].Position) < radiusSq {
			dst = append(dst, j)
		}
	}
	slices.Sort(dst)
	return dst
}
