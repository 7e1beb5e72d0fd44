// Package physics simulates the bodies of an artillery match: sub-stepped
// integration against the terrain grid, bounce response, bounce-budget
// deaths and explosions.
package physics

import "math"

// Kind tags a body variant for the renderer and the match logic.
type Kind uint8

const (
	KindMarker Kind = iota
	KindDebris
	KindProjectile
	KindUnit
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindDebris:
		return "debris"
	case KindProjectile:
		return "projectile"
	case KindUnit:
		return "unit"
	default:
		return "unknown"
	}
}

// Variant is the per-kind behaviour attached to a Body.
type Variant interface {
	Kind() Kind

	// OnBounceDeath runs once when the bounce budget is spent.
	// A positive return value is the radius of the explosion it causes.
	OnBounceDeath() float64

	// OnDamage applies damage and reports whether the body is still alive.
	// Variants that cannot be hurt ignore the amount.
	OnDamage(amount float64) bool
}

// Unlimited marks a bounce budget that never runs out.
const Unlimited = -1

// Body is the kinematic state shared by every simulated object.
type Body struct {
	X, Y   float64
	VX, VY float64
	AX, AY float64

	Radius   float64
	Friction float64 // velocity kept after a bounce, 0..1

	BounceBudget int // Unlimited, or bounces left before death
	Bounces      int // terrain collisions recorded so far

	Stable bool
	Dead   bool

	Variant Variant
}

// Kind returns the variant tag. Bodies without a variant behave as markers.
func (b *Body) Kind() Kind {
	if b.Variant == nil {
		return KindMarker
	}
	return b.Variant.Kind()
}

// Heading returns the direction of travel in radians.
func (b *Body) Heading() float64 {
	return math.Atan2(b.VY, b.VX)
}

// Speed returns the velocity magnitude.
func (b *Body) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// Unit returns the unit state when the body is a unit.
func (b *Body) Unit() (*Unit, bool) {
	u, ok := b.Variant.(*Unit)
	return u, ok
}

// bounceDeath runs the variant death action.
func (b *Body) bounceDeath() float64 {
	if b.Variant == nil {
		return 0
	}
	return b.Variant.OnBounceDeath()
}

// damage forwards to the variant.
func (b *Body) damage(amount float64) bool {
	if b.Variant == nil {
		return true
	}
	return b.Variant.OnDamage(amount)
}

// Marker is a cosmetic body with no behaviour.
type Marker struct{}

func (Marker) Kind() Kind              { return KindMarker }
func (Marker) OnBounceDeath() float64  { return 0 }
func (Marker) OnDamage(_ float64) bool { return true }

// Debris is a crater fragment. It fades after its bounce budget.
type Debris struct{}

func (Debris) Kind() Kind              { return KindDebris }
func (Debris) OnBounceDeath() float64  { return 0 }
func (Debris) OnDamage(_ float64) bool { return true }

// Projectile detonates on its first bounce.
type Projectile struct {
	BlastRadius float64
}

func (p Projectile) Kind() Kind              { return KindProjectile }
func (p Projectile) OnBounceDeath() float64  { return p.BlastRadius }
func (p Projectile) OnDamage(_ float64) bool { return true }

// Unit is a team member that can be controlled while it has health.
type Unit struct {
	Team         int
	Health       float64
	Aim          float64 // radians, screen space (negative is up)
	Controllable bool
}

func (u *Unit) Kind() Kind             { return KindUnit }
func (u *Unit) OnBounceDeath() float64 { return 0 }

// OnDamage reduces health, clamping at zero. A unit at zero health loses
// control for the rest of the match.
func (u *Unit) OnDamage(amount float64) bool {
	u.Health -= amount
	if u.Health <= 0 {
		u.Health = 0
		u.Controllable = false
	}
	return u.Health > 0
}

// Alive reports whether the unit has health left.
func (u *Unit) Alive() bool {
	return u.Health > 0
}
