//go:build costmapdebug

package costmap

import "fmt"

const boundsChecks = true

// assertInBounds panics on an out-of-range cell access.
func (c *Costmap) assertInBounds(x, y uint32) {
	if x >= c.settings.Width || y >= c.settings.Height {
		panic(fmt.Sprintf("costmap: cell (%d,%d) outside %dx%d grid", x, y, c.settings.Width, c.settings.Height))
	}
}
