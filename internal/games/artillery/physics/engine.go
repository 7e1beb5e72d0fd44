package physics

import (
	"math"

	"github.com/vovakirdan/tui-artillery/internal/games/artillery/terrain"
)

// probeSamples is the number of points tested on the leading half of a
// body's outline, pi/probeSamples apart.
const probeSamples = 8

// Detonation records a bounce death that caused an explosion.
type Detonation struct {
	Handle Handle
	X, Y   float64
	Radius float64
}

// Removed is a body swept out of the world, with the handle it had.
type Removed struct {
	Handle Handle
	Body   *Body
}

// StepReport summarizes one sub-step.
type StepReport struct {
	Collisions  int
	Detonations []Detonation
	Removed     []Removed
}

func (r *StepReport) merge(other StepReport) {
	r.Collisions += other.Collisions
	r.Detonations = append(r.Detonations, other.Detonations...)
	r.Removed = append(r.Removed, other.Removed...)
}

// Frame runs the configured number of sub-steps, each advancing by dt.
func (w *World) Frame(field *terrain.Field, dt float64) StepReport {
	var rep StepReport
	for i := 0; i < w.params.Substeps; i++ {
		rep.merge(w.Step(field, dt))
	}
	return rep
}

// Step advances every active body by dt against the terrain. Bodies are
// visited in slot order. Dead bodies are removed, and bodies spawned
// during the step are activated, only after all bodies have moved.
func (w *World) Step(field *terrain.Field, dt float64) StepReport {
	var rep StepReport

	w.stepping = true
	for i := range w.slots {
		s := &w.slots[i]
		if !s.active || s.body == nil || s.body.Dead {
			continue
		}
		h := Handle{index: int32(i), gen: s.gen}
		w.advance(field, h, s.body, dt, &rep)
	}
	w.stepping = false

	rep.Removed = w.sweep()
	w.commitStaged()
	return rep
}

// advance integrates one body and resolves its terrain contact.
func (w *World) advance(field *terrain.Field, h Handle, b *Body, dt float64, rep *StepReport) {
	b.AY += w.params.Gravity

	b.VX += b.AX * dt
	b.VY += b.AY * dt
	px := b.X + b.VX*dt
	py := b.Y + b.VY*dt

	b.AX, b.AY = 0, 0
	b.Stable = false

	rx, ry, hit := w.probe(field, b, px, py)
	if !hit {
		b.X, b.Y = px, py
	} else {
		rep.Collisions++
		b.Stable = true
		b.VX, b.VY = Reflect(b.VX, b.VY, rx, ry, b.Friction, w.params.Epsilon)
		b.Bounces++

		if b.BounceBudget > 0 {
			b.BounceBudget--
			if b.BounceBudget == 0 {
				b.Dead = true
				if radius := b.bounceDeath(); radius > 0 {
					rep.Detonations = append(rep.Detonations, Detonation{
						Handle: h,
						X:      b.X,
						Y:      b.Y,
						Radius: radius,
					})
					w.Explode(field, b.X, b.Y, radius)
				}
			}
		}
	}

	if b.Speed() < w.params.RestSpeed {
		b.Stable = true
	}

	if outOfWorld(field, b) {
		b.Dead = true
	}
}

// probe tests the half of the outline facing the direction of travel at
// the potential position. It returns the summed escape vector of every
// sample that lands on ground.
func (w *World) probe(field *terrain.Field, b *Body, px, py float64) (float64, float64, bool) {
	if field == nil {
		return 0, 0, false
	}

	maxX := float64(field.Width() - 1)
	maxY := float64(field.Height() - 1)
	heading := b.Heading()

	var rx, ry float64
	hit := false
	for k := 0; k < probeSamples; k++ {
		r := heading - math.Pi/2 + float64(k)*math.Pi/probeSamples

		tx := clampF(b.Radius*math.Cos(r)+px, 0, maxX)
		ty := clampF(b.Radius*math.Sin(r)+py, 0, maxY)

		if field.IsSolid(int(tx), int(ty)) {
			rx += px - tx
			ry += py - ty
			hit = true
		}
	}
	return rx, ry, hit
}

// Reflect mirrors (vx, vy) about the normalized (nx, ny) and scales the
// result by friction. A near-zero normal is floored to epsilon.
func Reflect(vx, vy, nx, ny, friction, epsilon float64) (float64, float64) {
	mag := math.Hypot(nx, ny)
	if mag < epsilon {
		mag = epsilon
	}
	nx /= mag
	ny /= mag

	dot := vx*nx + vy*ny
	return friction * (vx - 2*dot*nx), friction * (vy - 2*dot*ny)
}

// outOfWorld reports bodies that left through the sides or the bottom.
// Open sky above the map is still in play.
func outOfWorld(field *terrain.Field, b *Body) bool {
	if field == nil {
		return false
	}
	return b.X < 0 || b.X >= float64(field.Width()) || b.Y >= float64(field.Height())
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
