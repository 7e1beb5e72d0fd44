package physics

import (
	"math"

	"github.com/vovakirdan/tui-artillery/internal/games/artillery/terrain"
)

// Explode carves a crater, throws nearby bodies outward and scatters
// debris. Knockback replaces a body's velocity with a radial one whose
// magnitude is the blast radius; damage falls off linearly with distance.
func (w *World) Explode(field *terrain.Field, x, y, radius float64) {
	if radius <= 0 {
		return
	}
	if field != nil {
		field.CarveDisc(int(x), int(y), int(radius))
	}

	for i := range w.slots {
		s := &w.slots[i]
		if !s.active || s.body == nil || s.body.Dead {
			continue
		}
		b := s.body

		dx := b.X - x
		dy := b.Y - y
		dist := math.Hypot(dx, dy)
		if dist < w.params.Epsilon {
			dist = w.params.Epsilon
		}
		if dist >= radius {
			continue
		}

		b.VX = dx / dist * radius
		b.VY = dy / dist * radius
		b.damage((radius - dist) / radius * w.specs.DamageFactor)
		b.Stable = false
	}

	for i := 0; i < int(radius); i++ {
		w.SpawnDebris(x, y)
	}
}
