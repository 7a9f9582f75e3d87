package footprint

import (
	"math"

	"github.com/paulmach/orb"
)

// snapScale rounds rotated coordinates to 1e-9 so trig noise (sin π ≈ 1.2e-16)
// does not push a vertex that sits on a cell border into the neighbor cell.
const snapScale = 1e9

// Footprint is an ordered polygon in the robot frame. Only X and Y are read.
type Footprint []orb.Point

// Square returns the axis-aligned square of the given side centered on the origin,
// listed counter-clockwise starting at the lower-left corner.
func Square(side float64) Footprint {
	h := side / 2

	return Footprint{{-h, -h}, {h, -h}, {h, h}, {-h, h}}
}

// Equal reports full-sequence equality.
func (fp Footprint) Equal(other Footprint) bool {
	if len(fp) != len(other) {
		return false
	}
	for i := range fp {
		if !fp[i].Equal(other[i]) {
			return false
		}
	}

	return true
}

// Clone returns an independent copy.
func (fp Footprint) Clone() Footprint {
	if fp == nil {
		return nil
	}
	out := make(Footprint, len(fp))
	copy(out, fp)

	return out
}

// Rotate returns fp rotated by theta radians about the local origin, vertex order kept:
//
//	x' = x·cosθ − y·sinθ
//	y' = x·sinθ + y·cosθ
func (fp Footprint) Rotate(theta float64) Footprint {
	sin, cos := math.Sincos(theta)
	out := make(Footprint, len(fp))
	for i, p := range fp {
		out[i] = orb.Point{
			snap(p.X()*cos - p.Y()*sin),
			snap(p.X()*sin + p.Y()*cos),
		}
	}

	return out
}

// Translate returns fp shifted by (dx,dy).
func (fp Footprint) Translate(dx, dy float64) Footprint {
	out := make(Footprint, len(fp))
	for i, p := range fp {
		out[i] = orb.Point{p.X() + dx, p.Y() + dy}
	}

	return out
}

// Bound returns the axis-aligned bounding box of the vertices.
func (fp Footprint) Bound() orb.Bound {
	return orb.MultiPoint(fp).Bound()
}

// Ring returns the footprint as a closed orb.Ring (first vertex repeated at the end).
func (fp Footprint) Ring() orb.Ring {
	if len(fp) == 0 {
		return orb.Ring{}
	}
	ring := make(orb.Ring, 0, len(fp)+1)
	ring = append(ring, fp...)
	if !fp[0].Equal(fp[len(fp)-1]) {
		ring = append(ring, fp[0])
	}

	return ring
}

func snap(v float64) float64 {
	r := math.Round(v*snapScale) / snapScale
	if r == 0 {
		return 0 // drop negative zero
	}

	return r
}
