// Package terrain owns the destructible cell grid the artillery match is
// played on: procedural generation, point sampling and crater carving.
package terrain

import (
	"math/rand"
)

// Cell codes stored in the grid.
const (
	Solid int8 = 1
	Sky   int8 = 0
	// SkyTop is the darkest sky shade at the very top of the map. Shades run
	// from SkyTop up to SkyLow just above the shaded band. They are cosmetic.
	SkyTop int8 = -8
	SkyLow int8 = -1
)

// skyBands is the number of graduated sky codes.
const skyBands = 8

// Params controls profile generation.
type Params struct {
	Octaves int
	Bias    float64
}

// DefaultParams returns the octave/bias pair the game ships with.
func DefaultParams() Params {
	return Params{Octaves: 8, Bias: 2.0}
}

// Field is a fixed-size grid of terrain codes. Dimensions never change
// after New.
type Field struct {
	width   int
	height  int
	cells   []int8
	profile []float64
	params  Params
}

// New creates an all-sky field of the given size.
func New(width, height int, params Params) *Field {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if params.Octaves < 1 {
		params.Octaves = 1
	}
	if params.Bias <= 1 {
		params.Bias = DefaultParams().Bias
	}
	return &Field{
		width:  width,
		height: height,
		cells:  make([]int8, width*height),
		params: params,
	}
}

// Width returns the field width in cells.
func (f *Field) Width() int {
	return f.width
}

// Height returns the field height in cells.
func (f *Field) Height() int {
	return f.height
}

// Profile returns the surface heights (0 = top, 1 = bottom) from the last
// generation, or nil before the first one.
func (f *Field) Profile() []float64 {
	return f.profile
}

// Generate draws width uniform seeds from rng and builds a new profile.
// A nil rng falls back to the process-wide source.
func (f *Field) Generate(rng *rand.Rand) {
	seeds := make([]float64, f.width)
	for i := range seeds {
		if rng != nil {
			seeds[i] = rng.Float64()
		} else {
			seeds[i] = rand.Float64()
		}
	}
	f.GenerateFromSeeds(seeds)
}

// GenerateFromSeeds overwrites the whole grid from an explicit seed
// sequence. The first seed is forced to 0.5 so the surface starts and ends
// at half height. Missing seeds are treated as 0.5.
func (f *Field) GenerateFromSeeds(seeds []float64) {
	s := make([]float64, f.width)
	for i := range s {
		if i < len(seeds) {
			s[i] = seeds[i]
		} else {
			s[i] = 0.5
		}
	}
	s[0] = 0.5

	f.profile = Noise1D(s, f.params.Octaves, f.params.Bias)

	band := float64(f.height) / 3.0
	for x := 0; x < f.width; x++ {
		surface := f.profile[x] * float64(f.height)
		for y := 0; y < f.height; y++ {
			f.cells[y*f.width+x] = classify(float64(y), surface, band)
		}
	}
}

// classify picks the code for a cell at row y under a surface at the given
// height, shading the top band of the sky.
func classify(y, surface, band float64) int8 {
	if y >= surface {
		return Solid
	}
	if band <= 0 || y >= band {
		return Sky
	}
	shade := SkyTop + int8(y*skyBands/band)
	if shade > SkyLow {
		shade = SkyLow
	}
	return shade
}

// clamp restricts (x, y) to valid cell coordinates.
func (f *Field) clamp(x, y int) (int, int) {
	if x < 0 {
		x = 0
	} else if x >= f.width {
		x = f.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= f.height {
		y = f.height - 1
	}
	return x, y
}

// Cell returns the raw code at (x, y). Out-of-range coordinates are clamped.
func (f *Field) Cell(x, y int) int8 {
	x, y = f.clamp(x, y)
	return f.cells[y*f.width+x]
}

// IsSolid reports whether the cell at (x, y) is ground. Only positive codes
// collide; the shaded sky is open space.
func (f *Field) IsSolid(x, y int) bool {
	return f.Cell(x, y) > 0
}

// Contains reports whether (x, y) lies inside the grid.
func (f *Field) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x < float64(f.width) && y < float64(f.height)
}

// Fill sets every cell in rows [fromY, height) to Solid and the rest to Sky.
// Useful for flat test maps and the headless harness.
func (f *Field) Fill(fromY int) {
	for y := 0; y < f.height; y++ {
		code := Sky
		if y >= fromY {
			code = Solid
		}
		for x := 0; x < f.width; x++ {
			f.cells[y*f.width+x] = code
		}
	}
	f.profile = nil
}

// SurfaceAt returns the first solid row in column x, or height when the
// column is open all the way down.
func (f *Field) SurfaceAt(x int) int {
	x, _ = f.clamp(x, 0)
	for y := 0; y < f.height; y++ {
		if f.cells[y*f.width+x] > 0 {
			return y
		}
	}
	return f.height
}

// Clone returns an independent copy of the field.
func (f *Field) Clone() *Field {
	c := &Field{
		width:  f.width,
		height: f.height,
		cells:  make([]int8, len(f.cells)),
		params: f.params,
	}
	copy(c.cells, f.cells)
	if f.profile != nil {
		c.profile = append([]float64(nil), f.profile...)
	}
	return c
}

// Equal reports whether two fields hold identical cells.
func (f *Field) Equal(other *Field) bool {
	if other == nil || f.width != other.width || f.height != other.height {
		return false
	}
	for i := range f.cells {
		if f.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}
