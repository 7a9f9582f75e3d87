package footprint

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/katalvlaran/navgrid/costmap"
)

// Cost is the breakdown of one footprint evaluation.
type Cost struct {
	// Max is the highest cell cost touched, NoInformation included.
	Max float64
	// MaxKnown ignores NoInformation cells.
	MaxKnown float64
	// Unknown is true if any touched cell is NoInformation.
	Unknown bool
	// Lethal is true if an edge hit LethalObstacle or a vertex left the grid.
	Lethal bool
}

var lethalCost = Cost{
	Max:      float64(costmap.LethalObstacle),
	MaxKnown: float64(costmap.LethalObstacle),
	Lethal:   true,
}

// Checker prices footprints against a costmap.
// It holds a non-owning reference; the costmap may be shared with other checkers.
type Checker struct {
	costmap *costmap.Costmap
}

// NewChecker returns a Checker bound to cm (which may be nil and set later).
func NewChecker(cm *costmap.Costmap) *Checker {
	return &Checker{costmap: cm}
}

// SetCostmap rebinds the checker.
func (c *Checker) SetCostmap(cm *costmap.Costmap) {
	c.costmap = cm
}

// Costmap returns the bound costmap.
func (c *Checker) Costmap() *costmap.Costmap {
	return c.costmap
}

// FootprintCost returns the worst cell cost along the outline of fp, given in world
// coordinates. Lethal short-circuits; a vertex outside the map is lethal.
func (c *Checker) FootprintCost(fp Footprint) float64 {
	return c.Evaluate(fp).Max
}

// Evaluate is FootprintCost with the unknown-space breakdown.
func (c *Checker) Evaluate(fp Footprint) Cost {
	var out Cost
	ok := c.walk(fp, func(x, y uint32) bool {
		cost := c.costmap.GetCost(x, y)
		switch cost {
		case costmap.LethalObstacle:
			return false
		case costmap.NoInformation:
			out.Unknown = true
			out.Max = math.Max(out.Max, float64(cost))
		default:
			out.Max = math.Max(out.Max, float64(cost))
			out.MaxKnown = math.Max(out.MaxKnown, float64(cost))
		}

		return true
	})
	if !ok {
		return lethalCost
	}

	return out
}

// Cells returns the distinct cells covered by the outline of fp, in walk order.
// ok is false if any vertex falls outside the map.
func (c *Checker) Cells(fp Footprint) (cells []Cell, ok bool) {
	seen := make(map[Cell]struct{})
	ok = c.walk(fp, func(x, y uint32) bool {
		cell := Cell{X: x, Y: y}
		if _, dup := seen[cell]; !dup {
			seen[cell] = struct{}{}
			cells = append(cells, cell)
		}

		return true
	})

	return cells, ok
}

// walk converts each vertex to map cells and rasterizes every edge, wrapping to the
// first vertex. It returns false if the map is missing, a vertex is off the map,
// or visit stopped the walk.
//
// A vertex on a cell border belongs to the cell on the side of the outline's center,
// so an outline centered on a cell covers the same cells on every side of it.
func (c *Checker) walk(fp Footprint, visit func(x, y uint32) bool) bool {
	if c.costmap == nil || len(fp) == 0 {
		return c.costmap != nil
	}
	minX, minY, maxX, maxY := c.costmap.WorldBounds()
	res := c.costmap.Resolution()
	if res <= 0 {
		return false
	}
	pad := borderEpsilon * res
	grid := orb.Bound{Min: orb.Point{minX - pad, minY - pad}, Max: orb.Point{maxX + pad, maxY + pad}}
	fb := fp.Bound()
	if !grid.Contains(fb.Min) || !grid.Contains(fb.Max) {
		return false
	}

	center := fb.Center()
	w, h := c.costmap.SizeInCellsX(), c.costmap.SizeInCellsY()
	cells := make([]Cell, len(fp))
	for i, p := range fp {
		mx, okX := toCell((p.X()-minX)/res, (center.X()-minX)/res, w)
		my, okY := toCell((p.Y()-minY)/res, (center.Y()-minY)/res, h)
		if !okX || !okY {
			return false
		}
		cells[i] = Cell{X: mx, Y: my}
	}

	n := len(cells)
	for i := 0; i < n; i++ {
		a, b := cells[i], cells[(i+1)%n]
		cont := rasterLine(int64(a.X), int64(a.Y), int64(b.X), int64(b.Y), func(x, y int64) bool {
			return visit(uint32(x), uint32(y))
		})
		if !cont {
			return false
		}
	}

	return true
}

// borderEpsilon is the distance, in cells, within which a coordinate counts as on a border.
const borderEpsilon = 1e-9

// toCell maps a coordinate v, in cells from the origin, to a cell index in [0,size).
// Above the pivot the upper border is exclusive, at or below it the lower border is inclusive.
func toCell(v, pivot float64, size uint32) (uint32, bool) {
	var f float64
	if v > pivot {
		f = math.Ceil(v-borderEpsilon) - 1
	} else {
		f = math.Floor(v + borderEpsilon)
	}
	if f < 0 || f >= float64(size) {
		return 0, false
	}

	return uint32(f), true
}
