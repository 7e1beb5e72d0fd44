package terrain

// CarveDisc clears every solid cell within radius of (cx, cy). The disc is
// scanned with the midpoint circle walk: one octant is traced with the
// Bresenham decision variable and each mirrored boundary row is filled
// across its full span. Sky shading inside the disc is kept.
func (f *Field) CarveDisc(cx, cy, radius int) {
	if radius <= 0 {
		return
	}

	x, y := 0, radius
	p := 3 - 2*radius

	for y >= x {
		f.clearSpan(cx-x, cx+x, cy-y)
		f.clearSpan(cx-y, cx+y, cy-x)
		f.clearSpan(cx-x, cx+x, cy+y)
		f.clearSpan(cx-y, cx+y, cy+x)

		if p < 0 {
			p += 4*x + 6
		} else {
			p += 4*(x-y) + 10
			y--
		}
		x++
	}
}

// clearSpan zeroes solid cells in row y from x0 to x1 inclusive, clipped to
// the grid.
func (f *Field) clearSpan(x0, x1, y int) {
	if y < 0 || y >= f.height {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 >= f.width {
		x1 = f.width - 1
	}
	row := f.cells[y*f.width : (y+1)*f.width]
	for i := x0; i <= x1; i++ {
		if row[i] > 0 {
			row[i] = Sky
		}
	}
}
