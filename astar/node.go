package astar

import "math"

// noSlot marks an absent arena slot (no parent, no start, no goal).
const noSlot int32 = -1

// Node is one search vertex. It lives in a Graph page and is addressed by its slot;
// Parent links are slots into the same Graph.
//
// Per search a node moves unvisited → queued → visited, and visited is final.
// It may be queued several times with different priorities; stale duplicates are
// dropped when popped.
type Node struct {
	index   uint32
	slot    int32
	parent  int32
	gen     uint32
	cost    float64 // cell cost from the costmap
	g       float64 // accumulated cost from the start
	visited bool
	queued  bool
}

// reset prepares the node for search generation gen.
func (n *Node) reset(gen uint32) {
	n.gen = gen
	n.g = math.Inf(1)
	n.parent = noSlot
	n.visited = false
	n.queued = false
}

// Index returns the linear cell index identifying the node.
func (n *Node) Index() uint32 { return n.index }

// Cost returns the cached cell cost.
func (n *Node) Cost() float64 { return n.cost }

// SetCost caches the cell cost used by traversal-cost computation.
func (n *Node) SetCost(c float64) { n.cost = c }

// AccumulatedCost returns g, +Inf until the node is relaxed.
func (n *Node) AccumulatedCost() float64 { return n.g }

// WasVisited reports whether the node was expanded in the current search.
func (n *Node) WasVisited() bool { return n.visited }

// IsQueued reports whether the node sits in the open set and was not yet visited.
func (n *Node) IsQueued() bool { return n.queued }

// HasParent reports whether the node was relaxed from another node.
func (n *Node) HasParent() bool { return n.parent != noSlot }

func (n *Node) setVisited() {
	n.visited = true
	n.queued = false
}

// NodeBasic is the lightweight descriptor stored in the open set instead of the node.
// Index and Pose are filled when the entry is pushed; the graph node is resolved when
// it is popped, after which NodeSpace.ProcessSearchNode runs on it.
type NodeBasic[C any] struct {
	Index uint32
	Pose  C

	slot int32
	node *Node
}

// populate caches identity and pose of n.
func (b *NodeBasic[C]) populate(n *Node, pose C) {
	b.Index = n.index
	b.Pose = pose
	b.slot = n.slot
}

// Node returns the graph node, nil before the descriptor is popped.
func (b *NodeBasic[C]) Node() *Node { return b.node }
