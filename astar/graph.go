package astar

import "fmt"

const (
	pageBits = 12
	pageSize = 1 << pageBits
	pageMask = pageSize - 1
)

// Graph is the sparse index→node arena of one Algorithm.
//
// Nodes are stored by value in fixed-size pages that are never reallocated, so a *Node
// handed out stays valid until Clear. Each node also has a stable int32 slot, used for
// parent links. The graph only grows during a search.
//
// Search state is versioned: NewSearch bumps the generation and every accessor resets a
// node from an older generation before returning it.
type Graph struct {
	slots   map[uint32]int32
	pages   [][]Node
	count   int32
	gen     uint32
	reserve int
}

// NewGraph returns an empty graph whose index map is pre-sized for reserve nodes.
// Clear keeps at least that capacity.
func NewGraph(reserve int) *Graph {
	if reserve < 0 {
		reserve = 0
	}

	return &Graph{
		slots:   make(map[uint32]int32, reserve),
		gen:     1,
		reserve: reserve,
	}
}

// Len returns the number of nodes discovered so far.
func (g *Graph) Len() int { return int(g.count) }

// Empty reports whether no node was discovered yet.
func (g *Graph) Empty() bool { return g.count == 0 }

// Add returns the node for index, creating it on first use.
// Complexity: amortized O(1).
func (g *Graph) Add(index uint32) *Node {
	if slot, ok := g.slots[index]; ok {
		return g.at(slot)
	}
	slot := g.count
	if int(slot)>>pageBits == len(g.pages) {
		g.pages = append(g.pages, make([]Node, pageSize))
	}
	n := &g.pages[slot>>pageBits][slot&pageMask]
	n.index = index
	n.slot = slot
	n.cost = 0
	n.reset(g.gen)
	g.slots[index] = slot
	g.count++

	return n
}

// Find returns the node for index if it was discovered.
func (g *Graph) Find(index uint32) (*Node, bool) {
	slot, ok := g.slots[index]
	if !ok {
		return nil, false
	}

	return g.at(slot), true
}

// at resolves a slot, resetting stale search state.
func (g *Graph) at(slot int32) *Node {
	n := &g.pages[slot>>pageBits][slot&pageMask]
	if n.gen != g.gen {
		n.reset(g.gen)
	}

	return n
}

// Parent returns n's parent, or nil for a root.
func (g *Graph) Parent(n *Node) *Node {
	if n.parent == noSlot {
		return nil
	}

	return g.at(n.parent)
}

// NewSearch invalidates per-node search state without touching the node set.
func (g *Graph) NewSearch() {
	g.gen++
	if g.gen == 0 {
		// wrapped: zero-valued pages would look current, force a reset of everything
		for p := range g.pages {
			for i := range g.pages[p] {
				g.pages[p][i].gen = 0
			}
		}
		g.gen = 1
	}
}

// Clear drops every node.
func (g *Graph) Clear() {
	g.slots = make(map[uint32]int32, max(len(g.slots), g.reserve))
	g.pages = nil
	g.count = 0
	g.gen = 1
}

// Backtrace walks parent links from n to the root and returns the coordinates in
// n → root order, root included. It fails with ErrNoParent if n was never relaxed.
// Complexity: O(path length).
func Backtrace[C any](g *Graph, n *Node, coords func(index uint32) C) ([]C, error) {
	if !n.HasParent() {
		return nil, fmt.Errorf("%w: index %d", ErrNoParent, n.index)
	}
	var path []C
	cur := n
	for guard := 0; cur.HasParent(); guard++ {
		if guard > g.Len() {
			return nil, fmt.Errorf("astar: parent cycle at index %d", cur.index)
		}
		path = append(path, coords(cur.index))
		cur = g.Parent(cur)
	}

	return append(path, coords(cur.index)), nil
}
