package astar

import (
	"math"
	"testing"

	"github.com/katalvlaran/navgrid/collision"
	"github.com/katalvlaran/navgrid/costmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid2D(t *testing.T, w, h uint32) (*Grid2D, *costmap.Costmap) {
	t.Helper()
	s := costmap.DefaultSettings()
	s.Width, s.Height = w, h
	cm := costmap.New(s)

	return NewGrid2D(collision.New(cm, 1), 2.0), cm
}

// TestGraph_AddIsIdempotent checks Add returns the same node for the same index.
func TestGraph_AddIsIdempotent(t *testing.T) {
	g := NewGraph(16)
	require.True(t, g.Empty())

	a := g.Add(42)
	b := g.Add(42)
	assert.Same(t, a, b)
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, uint32(42), a.Index())
	assert.True(t, math.IsInf(a.AccumulatedCost(), 1))
	assert.False(t, a.HasParent())

	found, ok := g.Find(42)
	require.True(t, ok)
	assert.Same(t, a, found)
	_, ok = g.Find(7)
	assert.False(t, ok)
}

// TestGraph_StableAddresses checks nodes keep their address while pages are added.
func TestGraph_StableAddresses(t *testing.T) {
	g := NewGraph(0)
	first := g.Add(0)
	for i := uint32(1); i < 3*pageSize; i++ {
		g.Add(i)
	}
	assert.Equal(t, 3*pageSize, g.Len())
	again, ok := g.Find(0)
	require.True(t, ok)
	assert.Same(t, first, again)
}

// TestGraph_NewSearchResetsState checks search state is dropped lazily while nodes remain.
func TestGraph_NewSearchResetsState(t *testing.T) {
	g := NewGraph(0)
	root := g.Add(1)
	child := g.Add(2)
	root.g = 0
	child.g = 1
	child.parent = root.slot
	child.setVisited()
	child.SetCost(50)

	g.NewSearch()

	n, ok := g.Find(2)
	require.True(t, ok)
	assert.Same(t, child, n)
	assert.False(t, n.WasVisited())
	assert.False(t, n.IsQueued())
	assert.False(t, n.HasParent())
	assert.True(t, math.IsInf(n.AccumulatedCost(), 1))
	assert.Equal(t, 50.0, n.Cost(), "cell cost survives a new search")
	assert.Equal(t, 2, g.Len())
}

// TestGraph_Clear drops every node.
func TestGraph_Clear(t *testing.T) {
	g := NewGraph(0)
	g.Add(1)
	g.Add(2)
	g.Clear()
	assert.True(t, g.Empty())
	_, ok := g.Find(1)
	assert.False(t, ok)
}

// TestBacktrace walks parents and reports the root last.
func TestBacktrace(t *testing.T) {
	g := NewGraph(0)
	a, b, c := g.Add(10), g.Add(11), g.Add(12)
	b.parent = a.slot
	c.parent = b.slot

	path, err := Backtrace(g, c, func(i uint32) uint32 { return i })
	require.NoError(t, err)
	assert.Equal(t, []uint32{12, 11, 10}, path)

	_, err = Backtrace(g, a, func(i uint32) uint32 { return i })
	assert.ErrorIs(t, err, ErrNoParent)
}

// TestOpenSet_Order checks priority order with FIFO ties.
func TestOpenSet_Order(t *testing.T) {
	var o openSet[uint32]
	push := func(p float64, idx uint32) {
		o.push(p, NodeBasic[uint32]{Index: idx})
	}
	push(3, 1)
	push(1, 2)
	push(2, 3)
	push(1, 4)
	push(1, 5)

	var got []uint32
	for o.len() > 0 {
		got = append(got, o.pop().Index)
	}
	assert.Equal(t, []uint32{2, 4, 5, 3, 1}, got)

	push(1, 9)
	o.reset()
	assert.Zero(t, o.len())
}

// TestGrid2D_NeighborOrder checks diagonals come first, then cardinals.
func TestGrid2D_NeighborOrder(t *testing.T) {
	s, _ := grid2D(t, 3, 3)
	g := NewGraph(0)
	get := func(i uint32) (*Node, bool) {
		if i >= s.Size() {
			return nil, false
		}

		return g.Add(i), true
	}
	indices := func(ns []*Node) []uint32 {
		out := make([]uint32, 0, len(ns))
		for _, n := range ns {
			out = append(out, n.Index())
		}

		return out
	}

	center := g.Add(4)
	assert.Equal(t, []uint32{0, 2, 6, 8, 3, 5, 1, 7}, indices(s.Neighbors(center, get, true, nil)))

	corner := g.Add(0)
	assert.Equal(t, []uint32{4, 1, 3}, indices(s.Neighbors(corner, get, true, nil)))
}

// TestGrid2D_NoRowWrap checks the right edge does not connect to the next row's left edge.
func TestGrid2D_NoRowWrap(t *testing.T) {
	s, _ := grid2D(t, 3, 3)
	g := NewGraph(0)
	get := func(i uint32) (*Node, bool) { return g.Add(i), i < s.Size() }

	var got []uint32
	for _, n := range s.Neighbors(g.Add(2), get, true, nil) {
		got = append(got, n.Index())
	}
	assert.Equal(t, []uint32{4, 1, 5}, got)
}

// TestGrid2D_NeighborFilters checks lethal, unknown and visited cells are skipped.
func TestGrid2D_NeighborFilters(t *testing.T) {
	s, cm := grid2D(t, 3, 3)
	cm.SetCost(0, 0, costmap.LethalObstacle)
	cm.SetCost(2, 0, costmap.NoInformation)
	cm.SetCost(1, 0, 100)
	g := NewGraph(0)
	get := func(i uint32) (*Node, bool) { return g.Add(i), i < s.Size() }
	g.Add(6).setVisited()

	var got []uint32
	for _, n := range s.Neighbors(g.Add(4), get, false, nil) {
		got = append(got, n.Index())
	}
	assert.Equal(t, []uint32{8, 3, 5, 1, 7}, got)

	n, _ := g.Find(1)
	assert.Equal(t, 100.0, n.Cost(), "neighbor cost refreshed from the costmap")

	got = got[:0]
	for _, n := range s.Neighbors(g.Add(4), get, true, nil) {
		got = append(got, n.Index())
	}
	assert.Equal(t, []uint32{2, 8, 3, 5, 1, 7}, got)
}

// TestGrid2D_Costs checks edge weights and the heuristic.
func TestGrid2D_Costs(t *testing.T) {
	s, _ := grid2D(t, 5, 5)
	g := NewGraph(0)
	from := g.Add(0)
	right := g.Add(1)
	diag := g.Add(6)

	assert.Equal(t, 1.0, s.TraversalCost(from, right))
	assert.InDelta(t, math.Sqrt2, s.TraversalCost(from, diag), 1e-12)

	right.SetCost(126)
	assert.InDelta(t, 2.0, s.TraversalCost(from, right), 1e-12)
	diag.SetCost(float64(costmap.MaxNonObstacle))
	assert.InDelta(t, 3*math.Sqrt2, s.TraversalCost(from, diag), 1e-12)

	assert.Equal(t, 5.0, s.Heuristic(Coordinates{0, 0}, Coordinates{3, 4}))
	assert.Zero(t, s.Heuristic(Coordinates{2, 2}, Coordinates{2, 2}))
}

// TestGrid2D_IndexCoordsRoundTrip checks Coords(Index(x,y)) == (x,y).
func TestGrid2D_IndexCoordsRoundTrip(t *testing.T) {
	s, _ := grid2D(t, 6, 4)
	for y := uint32(0); y < 4; y++ {
		for x := uint32(0); x < 6; x++ {
			i, ok := s.Index(x, y, 0)
			require.True(t, ok)
			assert.Equal(t, Coordinates{x, y}, s.Coords(i))
		}
	}
	_, ok := s.Index(6, 0, 0)
	assert.False(t, ok)
	_, ok = s.Index(0, 4, 0)
	assert.False(t, ok)
}

// TestGrid2D_ClearStart checks the start cell is freed in both node and costmap.
func TestGrid2D_ClearStart(t *testing.T) {
	s, cm := grid2D(t, 3, 3)
	cm.SetCost(1, 1, costmap.LethalObstacle)
	n := NewGraph(0).Add(4)
	n.SetCost(float64(costmap.LethalObstacle))

	s.ClearStart(n)
	assert.Equal(t, costmap.FreeSpace, cm.GetCost(1, 1))
	assert.Zero(t, n.Cost())
}

// TestNewAlgorithm_GraphReserve passes the capacity hint through unchanged.
func TestNewAlgorithm_GraphReserve(t *testing.T) {
	a := New(WithGraphReserve(4 * DefaultGraphReserve))
	assert.Equal(t, 4*DefaultGraphReserve, a.Graph().reserve)

	a.Graph().Clear()
	assert.Equal(t, 4*DefaultGraphReserve, a.Graph().reserve)

	assert.Equal(t, 0, NewGraph(-5).reserve)
}
