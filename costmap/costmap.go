package costmap

import (
	"math"
	"sync"
)

// Costmap is a dense row-major grid of uint8 traversal costs.
//
// mu guards the cells slice header and the size fields during bulk operations
// (InitMaps, ResetMaps, DeleteMaps, Clone, CopyFrom). Per-cell access is unguarded.
type Costmap struct {
	mu       sync.Mutex
	settings Settings
	cells    []uint8
}

// New allocates a Width×Height grid and fills every cell with settings.DefaultValue.
// A non-positive Resolution is replaced by 1.0 so that world↔map conversion stays defined.
// Complexity: O(W×H).
func New(settings Settings) *Costmap {
	if settings.Resolution <= 0 {
		settings.Resolution = 1.0
	}
	c := &Costmap{settings: settings}
	c.InitMaps(settings.Width, settings.Height)
	c.ResetMaps()

	return c
}

// GetCost returns the cost of cell (x,y).
// Precondition: 0 ≤ x < Width, 0 ≤ y < Height. Not checked.
func (c *Costmap) GetCost(x, y uint32) uint8 {
	if boundsChecks {
		c.assertInBounds(x, y)
	}

	return c.cells[c.Index(x, y)]
}

// SetCost overwrites the cost of cell (x,y).
// Precondition: 0 ≤ x < Width, 0 ≤ y < Height. Not checked.
func (c *Costmap) SetCost(x, y uint32, cost uint8) {
	if boundsChecks {
		c.assertInBounds(x, y)
	}
	c.cells[c.Index(x, y)] = cost
}

// GetCostAt returns the cost stored at a linear index.
// Precondition: index < Width×Height. Not checked.
func (c *Costmap) GetCostAt(index uint32) uint8 {
	return c.cells[index]
}

// InitMaps reallocates the grid to w×h cells. Cell contents are zeroed,
// call ResetMaps to apply the default value.
func (c *Costmap) InitMaps(w, h uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.Width = w
	c.settings.Height = h
	c.cells = make([]uint8, int(w)*int(h))
}

// ResetMaps fills every cell with the configured default value.
func (c *Costmap) ResetMaps() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fill := c.settings.DefaultValue
	for i := range c.cells {
		c.cells[i] = fill
	}
}

// DeleteMaps releases the cell storage. Sizes are kept so a later InitMaps
// call can restore the same shape.
func (c *Costmap) DeleteMaps() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cells = nil
}

// Clone returns a deep copy of the costmap. The copy is taken under the
// source lock, so it never observes a half-finished resize or reset.
// Complexity: O(W×H).
func (c *Costmap) Clone() *Costmap {
	settings, cells := c.snapshot()

	return &Costmap{settings: settings, cells: cells}
}

// CopyFrom replaces c's settings and cells with a deep copy of src.
// The source is snapshotted under its own lock and installed under c's lock,
// the two locks are never held together.
func (c *Costmap) CopyFrom(src *Costmap) {
	if c == src {
		return
	}
	settings, cells := src.snapshot()
	c.mu.Lock()
	c.settings = settings
	c.cells = cells
	c.mu.Unlock()
}

// snapshot copies settings and cells under the lock.
func (c *Costmap) snapshot() (Settings, []uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var cells []uint8
	if c.cells != nil {
		cells = make([]uint8, len(c.cells))
		copy(cells, c.cells)
	}

	return c.settings, cells
}

// Settings returns the current settings, including the live Width/Height.
func (c *Costmap) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.settings
}

// SizeInCellsX returns the grid width in cells.
func (c *Costmap) SizeInCellsX() uint32 { return c.settings.Width }

// SizeInCellsY returns the grid height in cells.
func (c *Costmap) SizeInCellsY() uint32 { return c.settings.Height }

// Resolution returns the cell edge length in meters.
func (c *Costmap) Resolution() float64 { return c.settings.Resolution }

// Index maps (x,y) to a row-major index: y*Width + x.
// Complexity: O(1).
func (c *Costmap) Index(x, y uint32) uint32 {
	return y*c.settings.Width + x
}

// Coords converts a row-major index back to (x,y).
// Complexity: O(1).
func (c *Costmap) Coords(index uint32) (x, y uint32) {
	w := c.settings.Width

	return index % w, index / w
}

// InBounds reports whether (x,y) lies within the grid boundaries.
func (c *Costmap) InBounds(x, y int64) bool {
	return x >= 0 && x < int64(c.settings.Width) && y >= 0 && y < int64(c.settings.Height)
}

// MapToWorld returns the world position of the center of cell (mx,my).
// Fractional map coordinates are accepted and offset by the same half cell.
func (c *Costmap) MapToWorld(mx, my float64) (wx, wy float64) {
	res := c.settings.Resolution
	wx = c.settings.OriginX + (mx+0.5)*res
	wy = c.settings.OriginY + (my+0.5)*res

	return wx, wy
}

// WorldToMap returns the cell containing world point (wx,wy).
// ok is false when the point lies outside the grid.
func (c *Costmap) WorldToMap(wx, wy float64) (mx, my uint32, ok bool) {
	res := c.settings.Resolution
	if res <= 0 || wx < c.settings.OriginX || wy < c.settings.OriginY {
		return 0, 0, false
	}
	fx := math.Floor((wx - c.settings.OriginX) / res)
	fy := math.Floor((wy - c.settings.OriginY) / res)
	if fx >= float64(c.settings.Width) || fy >= float64(c.settings.Height) {
		return 0, 0, false
	}

	return uint32(fx), uint32(fy), true
}

// WorldBounds returns the world-frame extent of the grid as min/max corners.
func (c *Costmap) WorldBounds() (minX, minY, maxX, maxY float64) {
	s := c.settings

	return s.OriginX, s.OriginY,
		s.OriginX + float64(s.Width)*s.Resolution,
		s.OriginY + float64(s.Height)*s.Resolution
}
