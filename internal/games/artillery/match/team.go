package match

import "github.com/vovakirdan/tui-artillery/internal/games/artillery/physics"

// Team is a roster of unit handles. The world owns the bodies; a handle
// whose body is gone counts as a dead member.
type Team struct {
	ID      int
	Members []physics.Handle
	Size    int

	cursor int
}

// NewTeam creates an empty roster of the declared size.
func NewTeam(id, size int) *Team {
	return &Team{ID: id, Size: size, cursor: -1}
}

// Add appends a member.
func (t *Team) Add(h physics.Handle) {
	t.Members = append(t.Members, h)
	if len(t.Members) > t.Size {
		t.Size = len(t.Members)
	}
}

// health returns a member's health, zero for removed bodies.
func health(w *physics.World, h physics.Handle) float64 {
	_, u, ok := w.Unit(h)
	if !ok {
		return 0
	}
	return u.Health
}

// Alive reports whether any member still has health.
func (t *Team) Alive(w *physics.World) bool {
	return t.Living(w) > 0
}

// Living counts members with health left.
func (t *Team) Living(w *physics.World) int {
	n := 0
	for _, h := range t.Members {
		if health(w, h) > 0 {
			n++
		}
	}
	return n
}

// NextMember advances the rotation cursor to the next living member and
// returns it. Every living member is visited before one repeats. It fails
// only when the team is eliminated.
func (t *Team) NextMember(w *physics.World) (physics.Handle, bool) {
	n := len(t.Members)
	for i := 0; i < n; i++ {
		t.cursor = (t.cursor + 1) % n
		if h := t.Members[t.cursor]; health(w, h) > 0 {
			return h, true
		}
	}
	return physics.NoHandle, false
}

// FirstLiving returns the first living member without moving the rotation
// cursor, or NoHandle for an eliminated team.
func (t *Team) FirstLiving(w *physics.World) physics.Handle {
	for _, h := range t.Members {
		if health(w, h) > 0 {
			return h
		}
	}
	return physics.NoHandle
}

// Health returns the team's combined health as a fraction of a full
// roster.
func (t *Team) Health(w *physics.World) float64 {
	if t.Size == 0 {
		return 0
	}
	sum := 0.0
	for _, h := range t.Members {
		sum += health(w, h)
	}
	return sum / float64(t.Size)
}

// Healthiest returns the living member with the most health.
func (t *Team) Healthiest(w *physics.World) (physics.Handle, bool) {
	best := physics.NoHandle
	bestHealth := 0.0
	for _, h := range t.Members {
		if hp := health(w, h); hp > bestHealth {
			best, bestHealth = h, hp
		}
	}
	return best, bestHealth > 0
}
