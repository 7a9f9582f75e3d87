package costmap

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Glyphs understood by ParseASCII.
const (
	GlyphFree      = '.'
	GlyphLethal    = '#'
	GlyphInscribed = '+'
	GlyphUnknown   = '?'
)

// From2D builds a Costmap from a non-empty rectangular grid where values[y][x] is the
// cost of cell (x,y). Width/Height in settings are overwritten by the grid shape;
// resolution, origin and default value are kept.
// Returns ErrEmptyGrid or ErrNonRectangular on malformed input.
// Complexity: O(W×H).
func From2D(values [][]uint8, settings Settings) (*Costmap, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(values), len(values[0])
	for _, row := range values {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
	}
	settings.Width = uint32(w)
	settings.Height = uint32(h)
	c := New(settings)
	for y := 0; y < h; y++ {
		copy(c.cells[y*w:(y+1)*w], values[y])
	}

	return c, nil
}

// ParseASCII reads a text map, one row per line, first line is y=0.
//
//	.  FreeSpace
//	#  LethalObstacle
//	+  InscribedInflatedObstacle
//	?  NoInformation
//	0-9 cost scaled linearly onto [FreeSpace, MaxNonObstacle]
//
// Blank lines and lines starting with ';' are skipped.
func ParseASCII(r io.Reader, settings Settings) (*Costmap, error) {
	var rows [][]uint8
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), " \t\r")
		if text == "" || strings.HasPrefix(text, ";") {
			continue
		}
		row := make([]uint8, 0, len(text))
		for col, ch := range text {
			cost, ok := glyphCost(ch)
			if !ok {
				return nil, fmt.Errorf("%w: %q at line %d column %d", ErrUnknownGlyph, ch, line, col+1)
			}
			row = append(row, cost)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("costmap: read ascii map: %w", err)
	}

	return From2D(rows, settings)
}

// glyphCost maps one map character to a cost.
func glyphCost(ch rune) (uint8, bool) {
	switch {
	case ch == GlyphFree:
		return FreeSpace, true
	case ch == GlyphLethal:
		return LethalObstacle, true
	case ch == GlyphInscribed:
		return InscribedInflatedObstacle, true
	case ch == GlyphUnknown:
		return NoInformation, true
	case ch >= '0' && ch <= '9':
		return uint8(int(ch-'0') * int(MaxNonObstacle) / 9), true
	}

	return 0, false
}
