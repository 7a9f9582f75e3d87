package astar

import "github.com/katalvlaran/navgrid/collision"

// NeighborGetter returns the graph node for index, creating it on first use.
// ok is false when index lies outside the search space.
type NeighborGetter func(index uint32) (n *Node, ok bool)

// NodeSpace is the capability set one node kind gives the search.
// C is the kind's coordinate type.
type NodeSpace[C any] interface {
	// Size is the number of valid indices; indices are in [0, Size).
	Size() uint32
	// Index maps coordinates to a linear index. dim3 is already clamped by the caller.
	Index(x, y, dim3 uint32) (index uint32, ok bool)
	// Coords maps an index back to coordinates.
	Coords(index uint32) C
	// Heuristic is an admissible estimate of the remaining cost from a to goal.
	Heuristic(a, goal C) float64
	// TraversalCost is the edge weight from → to.
	TraversalCost(from, to *Node) float64
	// Neighbors appends the valid, unvisited neighbors of n to dst.
	Neighbors(n *Node, get NeighborGetter, traverseUnknown bool, dst []*Node) []*Node
	// IsValid reports whether n is traversable.
	IsValid(n *Node, traverseUnknown bool) bool
	// ProcessSearchNode runs on every popped descriptor before expansion.
	ProcessSearchNode(b *NodeBasic[C])
	// ClearStart makes the start node's cell traversable.
	ClearStart(n *Node)
}

// Kind describes a node kind: which heading quantizations it accepts and how to build
// its NodeSpace over a collision checker.
type Kind[C any] struct {
	Name      string
	ValidDim3 func(size uint32) bool
	NewSpace  func(checker *collision.GridCollisionChecker, opts Options) NodeSpace[C]
}
