package physics

import (
	"math"
	"math/rand"
)

// Params holds the integration constants.
type Params struct {
	Gravity   float64 // downward acceleration, cells/s^2
	Substeps  int     // sub-steps per frame
	RestSpeed float64 // below this speed a body counts as stable
	Epsilon   float64 // floor for near-zero magnitudes
}

// DefaultParams returns the constants the game ships with.
func DefaultParams() Params {
	return Params{
		Gravity:   2.0,
		Substeps:  10,
		RestSpeed: 0.1,
		Epsilon:   1e-4,
	}
}

// Spec describes the physical shape of one body kind.
type Spec struct {
	Radius       float64
	Friction     float64
	BounceBudget int
}

// Specs holds the per-kind shapes plus the explosion tuning.
type Specs struct {
	Marker     Spec
	Debris     Spec
	Projectile Spec
	Unit       Spec

	BlastRadius  float64 // projectile explosion radius
	DebrisSpeed  float64 // launch speed of crater fragments
	DamageFactor float64 // damage at the blast centre
}

// DefaultSpecs returns the stock body shapes.
func DefaultSpecs() Specs {
	return Specs{
		Marker:       Spec{Radius: 4.0, Friction: 0.8, BounceBudget: Unlimited},
		Debris:       Spec{Radius: 1.0, Friction: 0.8, BounceBudget: 5},
		Projectile:   Spec{Radius: 2.5, Friction: 0.5, BounceBudget: 1},
		Unit:         Spec{Radius: 3.5, Friction: 0.2, BounceBudget: Unlimited},
		BlastRadius:  20,
		DebrisSpeed:  10,
		DamageFactor: 0.8,
	}
}

// Handle is a stable reference to a body in a World. A handle to a removed
// body stops resolving, even if its slot is reused.
type Handle struct {
	index int32
	gen   uint32
}

// NoHandle is the null handle.
var NoHandle Handle

// Valid reports whether the handle was ever issued. It does not check that
// the body is still alive; use World.Get for that.
func (h Handle) Valid() bool {
	return h.gen != 0
}

type slot struct {
	body   *Body
	gen    uint32
	active bool // false while staged during a sub-step
}

// World is the arena that owns every body of a match.
type World struct {
	params Params
	specs  Specs
	rng    *rand.Rand

	slots    []slot
	free     []int32
	staged   []int32
	stepping bool
}

// NewWorld creates an empty world. A nil rng is replaced by one seeded
// with zero.
func NewWorld(params Params, specs Specs, rng *rand.Rand) *World {
	if params.Substeps < 1 {
		params.Substeps = 1
	}
	if params.Epsilon <= 0 {
		params.Epsilon = DefaultParams().Epsilon
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}
	return &World{
		params: params,
		specs:  specs,
		rng:    rng,
	}
}

// Params returns the integration constants.
func (w *World) Params() Params {
	return w.params
}

// Specs returns the body shapes.
func (w *World) Specs() Specs {
	return w.specs
}

// Spawn adds a body and returns its handle. Bodies spawned while a
// sub-step is running are staged and join the simulation after it.
func (w *World) Spawn(b *Body) Handle {
	var idx int32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		w.slots = append(w.slots, slot{gen: 1})
		idx = int32(len(w.slots) - 1)
	}

	s := &w.slots[idx]
	s.body = b
	s.active = !w.stepping
	if w.stepping {
		w.staged = append(w.staged, idx)
	}
	return Handle{index: idx, gen: s.gen}
}

func (w *World) newBody(x, y float64, spec Spec, v Variant) *Body {
	return &Body{
		X:            x,
		Y:            y,
		Radius:       spec.Radius,
		Friction:     spec.Friction,
		BounceBudget: spec.BounceBudget,
		Variant:      v,
	}
}

// SpawnMarker adds a cosmetic marker.
func (w *World) SpawnMarker(x, y float64) Handle {
	return w.Spawn(w.newBody(x, y, w.specs.Marker, Marker{}))
}

// SpawnDebris adds a fragment flying off in a random direction.
func (w *World) SpawnDebris(x, y float64) Handle {
	b := w.newBody(x, y, w.specs.Debris, Debris{})
	angle := w.rng.Float64() * 2 * math.Pi
	b.VX = w.specs.DebrisSpeed * math.Cos(angle)
	b.VY = w.specs.DebrisSpeed * math.Sin(angle)
	return w.Spawn(b)
}

// SpawnProjectile adds a projectile with the given launch velocity.
func (w *World) SpawnProjectile(x, y, vx, vy float64) Handle {
	b := w.newBody(x, y, w.specs.Projectile, Projectile{BlastRadius: w.specs.BlastRadius})
	b.VX, b.VY = vx, vy
	return w.Spawn(b)
}

// SpawnUnit adds a full-health unit for the given team.
func (w *World) SpawnUnit(x, y float64, team int) Handle {
	u := &Unit{Team: team, Health: 1.0, Controllable: true}
	return w.Spawn(w.newBody(x, y, w.specs.Unit, u))
}

// Get resolves a handle. It fails for null handles and removed bodies.
func (w *World) Get(h Handle) (*Body, bool) {
	if h.gen == 0 || h.index < 0 || int(h.index) >= len(w.slots) {
		return nil, false
	}
	s := &w.slots[h.index]
	if s.gen != h.gen || s.body == nil {
		return nil, false
	}
	return s.body, true
}

// Unit resolves a handle to a unit body.
func (w *World) Unit(h Handle) (*Body, *Unit, bool) {
	b, ok := w.Get(h)
	if !ok {
		return nil, nil, false
	}
	u, ok := b.Unit()
	if !ok {
		return nil, nil, false
	}
	return b, u, true
}

// Each calls fn for every active body in slot order.
func (w *World) Each(fn func(h Handle, b *Body)) {
	for i := range w.slots {
		s := &w.slots[i]
		if !s.active || s.body == nil {
			continue
		}
		fn(Handle{index: int32(i), gen: s.gen}, s.body)
	}
}

// Len returns the number of bodies, staged ones included.
func (w *World) Len() int {
	return len(w.slots) - len(w.free)
}

// Stable reports whether every active body is at rest. An empty world is
// stable.
func (w *World) Stable() bool {
	for i := range w.slots {
		s := &w.slots[i]
		if s.active && s.body != nil && !s.body.Stable {
			return false
		}
	}
	return true
}

// Clear removes every body and invalidates all handles.
func (w *World) Clear() {
	for i := range w.slots {
		if w.slots[i].body != nil {
			w.release(int32(i))
		}
	}
	w.staged = w.staged[:0]
}

// release frees a slot and bumps its generation so old handles go stale.
func (w *World) release(idx int32) {
	s := &w.slots[idx]
	s.body = nil
	s.active = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	w.free = append(w.free, idx)
}

// sweep removes dead bodies and returns them with their old handles.
func (w *World) sweep() []Removed {
	var removed []Removed
	for i := range w.slots {
		s := &w.slots[i]
		if !s.active || s.body == nil || !s.body.Dead {
			continue
		}
		removed = append(removed, Removed{
			Handle: Handle{index: int32(i), gen: s.gen},
			Body:   s.body,
		})
		w.release(int32(i))
	}
	return removed
}

// commitStaged activates bodies spawned during the last sub-step.
func (w *World) commitStaged() {
	for _, idx := range w.staged {
		if w.slots[idx].body != nil {
			w.slots[idx].active = true
		}
	}
	w.staged = w.staged[:0]
}
