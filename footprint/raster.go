package footprint

// Cell is one grid cell (map coordinates).
type Cell struct {
	X, Y uint32
}

// rasterLine walks every cell of the Bresenham line between (x0,y0) and (x1,y1),
// both inclusive, calling visit for each. visit returning false stops the walk and
// rasterLine reports false.
//
// Endpoints are put in lexicographic order first, so a segment and its reverse
// cover exactly the same cells.
func rasterLine(x0, y0, x1, y1 int64, visit func(x, y int64) bool) bool {
	if x1 < x0 || (x1 == x0 && y1 < y0) {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sy := int64(1)
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if !visit(x, y) {
			return false
		}
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x++
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}
