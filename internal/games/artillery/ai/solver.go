package ai

import (
	"math"

	"github.com/vovakirdan/tui-artillery/internal/core"
)

// Solve returns the screen-space launch angle (negative is up) of the high
// ballistic arc that reaches a target dx cells to the right and dy cells
// above the shooter at the given speed and gravity. It fails when the
// target is out of range.
func Solve(speed, gravity, dx, dy float64) (float64, bool) {
	s2 := speed * speed
	disc := s2*s2 - gravity*(gravity*dx*dx+2*dy*s2)
	if disc < 0 || gravity <= 0 {
		return 0, false
	}

	num := s2 + math.Sqrt(disc)
	den := gravity * dx

	var phi float64
	switch {
	case den == 0:
		phi = math.Pi / 2
	default:
		phi = math.Atan(num / den)
		if dx < 0 {
			phi += math.Pi
		}
	}
	return core.WrapAngle(-phi), true
}
