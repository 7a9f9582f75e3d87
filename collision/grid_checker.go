// Package collision answers "is this pose in collision?" for grid planners.
//
// GridCollisionChecker combines a costmap with a robot footprint that is pre-rotated
// into N evenly spaced headings (quantization bins), so a pose query is a table lookup
// plus one outline rasterization instead of a rotation per call.
//
// Two modes:
//
//   - radius:  the robot is a circle already accounted for by obstacle inflation,
//     a pose collides when the cost of its center cell reaches the threshold;
//   - polygon: the footprint for the nearest heading bin is moved to the pose and
//     priced by footprint.Checker.
//
// Unknown cells (costmap.NoInformation) never collide when traverseUnknown is true
// and always collide when it is false.
package collision

import (
	"math"

	"github.com/katalvlaran/navgrid/costmap"
	"github.com/katalvlaran/navgrid/footprint"
)

// DefaultCollisionCost is the threshold in effect until SetFootprint provides one.
const DefaultCollisionCost = float64(costmap.InscribedInflatedObstacle)

// GridCollisionChecker is a costmap collision checker with precomputed footprint
// orientations. It is not safe for concurrent SetFootprint calls; queries are read-only.
type GridCollisionChecker struct {
	*footprint.Checker

	possibleCollisionCost float64
	radius                bool
	unoriented            footprint.Footprint
	angles                []float64
	oriented              []footprint.Footprint
}

// New creates a checker over cm with numQuantizations heading bins spaced 2π/N apart.
// A zero quantization count is treated as 1.
func New(cm *costmap.Costmap, numQuantizations uint32) *GridCollisionChecker {
	if numQuantizations == 0 {
		numQuantizations = 1
	}
	binSize := 2 * math.Pi / float64(numQuantizations)
	angles := make([]float64, numQuantizations)
	for i := range angles {
		angles[i] = binSize * float64(i)
	}

	return &GridCollisionChecker{
		Checker:               footprint.NewChecker(cm),
		possibleCollisionCost: DefaultCollisionCost,
		angles:                angles,
	}
}

// SetFootprint installs the robot outline.
//
//   - useRadius: store the threshold and skip all polygon work; pose checks
//     look at the center cell only.
//   - same polygon as last time with bins present: nothing is recomputed.
//   - otherwise every bin i is rebuilt as fp rotated by i·2π/N.
//
// A negative possibleCollisionCost selects DefaultCollisionCost.
func (g *GridCollisionChecker) SetFootprint(fp footprint.Footprint, useRadius bool, possibleCollisionCost float64) {
	if possibleCollisionCost < 0 {
		possibleCollisionCost = DefaultCollisionCost
	}
	g.possibleCollisionCost = possibleCollisionCost
	g.radius = useRadius
	if useRadius {
		return
	}
	if fp.Equal(g.unoriented) && len(g.oriented) != 0 {
		return
	}

	oriented := make([]footprint.Footprint, len(g.angles))
	for i, angle := range g.angles {
		oriented[i] = fp.Rotate(angle)
	}
	g.oriented = oriented
	g.unoriented = fp.Clone()
}

// InCollision checks the pose (x,y,theta); x,y are map coordinates in cells and theta is
// a heading in radians snapped to the nearest bin. Poses off the map are in collision.
//
// Polygon mode collides when the outline hits a lethal cell, when its worst known
// cost reaches the threshold, or, with traverseUnknown false, when it touches unknown space.
func (g *GridCollisionChecker) InCollision(x, y, theta float64, traverseUnknown bool) bool {
	cm := g.Costmap()
	if cm == nil || !cm.InBounds(int64(math.Floor(x)), int64(math.Floor(y))) {
		return true
	}
	if g.radius || len(g.oriented) == 0 || len(g.unoriented) == 0 {
		return g.cellInCollision(cm.GetCost(uint32(x), uint32(y)), traverseUnknown)
	}

	wx, wy := cm.MapToWorld(x, y)
	cost := g.Evaluate(g.oriented[g.Bin(theta)].Translate(wx, wy))
	if cost.Lethal {
		return true
	}
	if cost.Unknown && !traverseUnknown {
		return true
	}

	return cost.MaxKnown >= g.possibleCollisionCost
}

// InCollisionIndex is the grid-native check used during search: the single cell at a
// linear index against the threshold. Indices past the end of the map are in collision.
func (g *GridCollisionChecker) InCollisionIndex(index uint32, traverseUnknown bool) bool {
	cm := g.Costmap()
	if cm == nil || uint64(index) >= uint64(cm.SizeInCellsX())*uint64(cm.SizeInCellsY()) {
		return true
	}

	return g.cellInCollision(cm.GetCostAt(index), traverseUnknown)
}

func (g *GridCollisionChecker) cellInCollision(cost uint8, traverseUnknown bool) bool {
	if cost == costmap.NoInformation {
		return !traverseUnknown
	}

	return float64(cost) >= g.possibleCollisionCost
}

// Bin returns the heading bin nearest to theta: round(theta / binSize) mod N.
func (g *GridCollisionChecker) Bin(theta float64) int {
	n := len(g.angles)
	binSize := 2 * math.Pi / float64(n)
	bin := int(math.Round(theta/binSize)) % n
	if bin < 0 {
		bin += n
	}

	return bin
}

// PrecomputedAngles returns the bin headings in radians. The slice must not be modified.
func (g *GridCollisionChecker) PrecomputedAngles() []float64 {
	return g.angles
}

// OrientedFootprint returns the footprint precomputed for bin, or nil in radius mode,
// before SetFootprint, or for an out-of-range bin.
func (g *GridCollisionChecker) OrientedFootprint(bin int) footprint.Footprint {
	if bin < 0 || bin >= len(g.oriented) {
		return nil
	}

	return g.oriented[bin]
}

// PossibleCollisionCost returns the active collision threshold.
func (g *GridCollisionChecker) PossibleCollisionCost() float64 {
	return g.possibleCollisionCost
}

// UsesRadius reports whether radius mode is active.
func (g *GridCollisionChecker) UsesRadius() bool {
	return g.radius
}
