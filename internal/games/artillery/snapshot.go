package artillery

import "github.com/vovakirdan/tui-artillery/internal/games/artillery/physics"

// Snapshot captures the observable match state for determinism checks.
type Snapshot struct {
	Frame       uint64
	Phase       string
	Turn        int
	CurrentTeam int
	Bodies      int
	Units       int
	Shots       int
	Detonations int
	Winner      int
	TeamHealth  []float64
	UnitX       []float64 // unit x positions in slot order
}

// Snapshot returns the current state.
func (g *Game) Snapshot() Snapshot {
	s := g.session
	snap := Snapshot{
		Frame:       s.Frames(),
		Phase:       s.State().String(),
		Turn:        s.Turns(),
		CurrentTeam: s.CurrentTeam(),
		Bodies:      s.World().Len(),
		Shots:       s.Shots(),
		Detonations: s.Detonations(),
		Winner:      s.Winner(),
	}
	for i := 0; i < s.TeamCount(); i++ {
		snap.TeamHealth = append(snap.TeamHealth, s.TeamHealth(i))
	}
	s.World().Each(func(_ physics.Handle, b *physics.Body) {
		if b.Kind() == physics.KindUnit {
			snap.Units++
			snap.UnitX = append(snap.UnitX, b.X)
		}
	})
	return snap
}
