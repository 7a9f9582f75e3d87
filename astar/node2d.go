package astar

import (
	"math"

	"github.com/katalvlaran/navgrid/collision"
	"github.com/katalvlaran/navgrid/costmap"
)

// diagonalThreshold separates unit steps (d² = 1) from diagonal steps (d² = 2).
const diagonalThreshold = 1.05

// Coordinates is a cell position on a Grid2D.
type Coordinates struct {
	X, Y uint32
}

// Grid2DKind is the 2-D grid node kind. It only accepts a heading quantization of 1.
var Grid2DKind = Kind[Coordinates]{
	Name:      "grid2d",
	ValidDim3: func(size uint32) bool { return size == 1 },
	NewSpace: func(checker *collision.GridCollisionChecker, opts Options) NodeSpace[Coordinates] {
		return NewGrid2D(checker, opts.TravelCostMultiplier)
	},
}

// Grid2D is the 8-connected grid node space.
//
// Edge weight:   step · (1 + k · cost/MaxNonObstacle), step = 1 or √2.
// Heuristic:     Euclidean distance, admissible because every edge weighs ≥ 1.
// Neighbor order: the four diagonals, then the four cardinals. In open areas many
// nodes reach a cell at the same cost and the first relaxation wins, so this order
// decides which of the equal-cost paths is returned.
type Grid2D struct {
	checker    *collision.GridCollisionChecker
	costmap    *costmap.Costmap
	width      uint32
	height     uint32
	multiplier float64
	offsets    [8]int64
}

// NewGrid2D builds the space over checker's costmap with travel-cost multiplier k.
func NewGrid2D(checker *collision.GridCollisionChecker, k float64) *Grid2D {
	cm := checker.Costmap()
	w := int64(cm.SizeInCellsX())

	return &Grid2D{
		checker:    checker,
		costmap:    cm,
		width:      cm.SizeInCellsX(),
		height:     cm.SizeInCellsY(),
		multiplier: k,
		offsets:    [8]int64{-w - 1, -w + 1, w - 1, w + 1, -1, 1, -w, w},
	}
}

// Size returns width × height.
func (s *Grid2D) Size() uint32 { return s.width * s.height }

// Index returns y*width + x; ok is false off the grid.
func (s *Grid2D) Index(x, y, _ uint32) (uint32, bool) {
	if x >= s.width || y >= s.height {
		return 0, false
	}

	return y*s.width + x, true
}

// Coords converts an index back to (x,y).
func (s *Grid2D) Coords(index uint32) Coordinates {
	return Coordinates{X: index % s.width, Y: index / s.width}
}

// Heuristic returns the straight-line distance between a and goal.
func (s *Grid2D) Heuristic(a, goal Coordinates) float64 {
	dx := float64(goal.X) - float64(a.X)
	dy := float64(goal.Y) - float64(a.Y)

	return math.Sqrt(dx*dx + dy*dy)
}

// TraversalCost returns the weight of the edge from → to, priced by to's cell cost.
func (s *Grid2D) TraversalCost(from, to *Node) float64 {
	normalized := to.Cost() / float64(costmap.MaxNonObstacle)
	a, b := s.Coords(to.Index()), s.Coords(from.Index())
	dx := float64(a.X) - float64(b.X)
	dy := float64(a.Y) - float64(b.Y)
	if dx*dx+dy*dy > diagonalThreshold {
		return math.Sqrt2 * (1.0 + s.multiplier*normalized)
	}

	return 1.0 + s.multiplier*normalized
}

// Neighbors enumerates the 8-connected offsets in table order and keeps candidates that
// do not wrap across a row boundary, exist in the graph space, are collision-free and
// are not yet visited. Each kept node gets its cell cost refreshed from the costmap.
func (s *Grid2D) Neighbors(n *Node, get NeighborGetter, traverseUnknown bool, dst []*Node) []*Node {
	parent := s.Coords(n.Index())
	size := int64(s.Size())
	for _, off := range s.offsets {
		idx := int64(n.Index()) + off
		if idx < 0 || idx >= size {
			continue
		}
		child := s.Coords(uint32(idx))
		if absDiff(parent.X, child.X) > 1 || absDiff(parent.Y, child.Y) > 1 {
			continue
		}
		nb, ok := get(uint32(idx))
		if !ok {
			continue
		}
		if !s.IsValid(nb, traverseUnknown) || nb.WasVisited() {
			continue
		}
		nb.SetCost(float64(s.costmap.GetCostAt(nb.Index())))
		dst = append(dst, nb)
	}

	return dst
}

// IsValid delegates to the collision checker's single-cell test.
func (s *Grid2D) IsValid(n *Node, traverseUnknown bool) bool {
	return !s.checker.InCollisionIndex(n.Index(), traverseUnknown)
}

// ProcessSearchNode is a no-op: a 2-D node needs no per-pop work.
func (s *Grid2D) ProcessSearchNode(*NodeBasic[Coordinates]) {}

// ClearStart writes FreeSpace into the start cell.
func (s *Grid2D) ClearStart(n *Node) {
	c := s.Coords(n.Index())
	s.costmap.SetCost(c.X, c.Y, costmap.FreeSpace)
	n.SetCost(float64(costmap.FreeSpace))
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}

	return b - a
}
