package costmap

import "errors"

// Reserved cost values.
const (
	// FreeSpace marks a cell with no traversal penalty.
	FreeSpace uint8 = 0
	// MaxNonObstacle is the highest cost that is still not an obstacle.
	MaxNonObstacle uint8 = 252
	// InscribedInflatedObstacle marks cells where the robot's inscribed circle touches an obstacle.
	InscribedInflatedObstacle uint8 = 253
	// LethalObstacle marks an occupied cell.
	LethalObstacle uint8 = 254
	// NoInformation marks a cell whose occupancy is unknown.
	NoInformation uint8 = 255
)

var (
	// ErrEmptyGrid indicates the input 2D slice is empty.
	ErrEmptyGrid = errors.New("costmap: input grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("costmap: all rows must have the same length")
	// ErrUnknownGlyph indicates an ASCII map character with no cost mapping.
	ErrUnknownGlyph = errors.New("costmap: unknown map glyph")
)

// Settings describes the geometry and default fill of a Costmap.
//
// Width/Height are in cells, Resolution is meters per cell and
// (OriginX, OriginY) is the world position of the lower-left corner of cell (0,0).
type Settings struct {
	Width        uint32  `yaml:"width"`
	Height       uint32  `yaml:"height"`
	Resolution   float64 `yaml:"resolution"`
	OriginX      float64 `yaml:"origin_x"`
	OriginY      float64 `yaml:"origin_y"`
	DefaultValue uint8   `yaml:"default_value"`
}

// DefaultSettings returns an empty 0×0 map at unit resolution filled with FreeSpace.
func DefaultSettings() Settings {
	return Settings{
		Resolution:   1.0,
		DefaultValue: FreeSpace,
	}
}
