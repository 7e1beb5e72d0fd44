package match

import (
	"math"

	"github.com/vovakirdan/tui-artillery/internal/core"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/physics"
)

// applyControl feeds an intent to the unit under control. Units only
// respond while standing still and while they can still be controlled.
func (s *Session) applyControl(in Intent, dt float64) {
	b, u, ok := s.world.Unit(s.controlled)
	if !ok {
		s.charging = false
		s.startQueued = false
		s.fireRequested = false
		return
	}

	// A start press waits for the unit to settle; a release before then
	// cancels it.
	if in.ChargeStart {
		s.startQueued = true
	}
	if in.ChargeRelease && !s.charging {
		s.startQueued = false
	}

	if b.Stable && u.Controllable {
		if in.Jump {
			if in.UseJumpAngle {
				u.Aim = core.WrapAngle(in.JumpAngle)
			}
			b.VX = s.cfg.JumpVX * math.Cos(u.Aim)
			b.VY = s.cfg.JumpVY * math.Sin(u.Aim)
			b.Stable = false
		}
		if in.AimRight {
			u.Aim = core.WrapAngle(u.Aim + s.cfg.AimRate*dt)
		}
		if in.AimLeft {
			u.Aim = core.WrapAngle(u.Aim - s.cfg.AimRate*dt)
		}

		if s.startQueued {
			s.startQueued = false
			s.charging = true
			s.charge = 0
			s.fireRequested = false
		}
		if in.ChargeHold && s.charging {
			s.charge += s.cfg.ChargeRate * dt
			if s.charge >= 1 {
				s.charge = 1
				s.fireRequested = true
			}
		}
		if in.ChargeRelease {
			if s.charging {
				s.fireRequested = true
			}
			s.charging = false
		}
	}

	if s.fireRequested {
		s.fire(b, u)
	}
}

// fire launches a projectile along the unit's aim with the stored charge
// and hands the camera to it.
func (s *Session) fire(b *physics.Body, u *physics.Unit) {
	speed := s.cfg.LaunchSpeed * s.charge
	h := s.world.SpawnProjectile(b.X, b.Y, speed*math.Cos(u.Aim), speed*math.Sin(u.Aim))

	s.logger.Debug("fire", "team", u.Team, "aim", u.Aim, "charge", s.charge)

	s.tracked = h
	s.charge = 0
	s.charging = false
	s.startQueued = false
	s.fireRequested = false
	s.fired = true
	s.shots++
}
