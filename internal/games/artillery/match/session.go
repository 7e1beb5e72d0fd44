// Package match runs an artillery match: team rosters, the turn state
// machine, unit control and the firing mechanic. It owns the terrain field
// and the physics world for the match.
package match

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-artillery/internal/games/artillery/physics"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/terrain"
)

// AllComputer as Config.PlayerTeam hands every team to the opponent.
const AllComputer = -1

// Config holds the tunables of a match.
type Config struct {
	Width, Height int

	Terrain terrain.Params
	Physics physics.Params
	Specs   physics.Specs

	Teams        int
	UnitsPerTeam int
	TurnTime     float64 // seconds per turn
	PlayerTeam   int     // team driven by the player, or AllComputer
	Salvo        int     // projectiles dropped at game over

	JumpVX      float64
	JumpVY      float64
	AimRate     float64 // radians per second
	ChargeRate  float64 // charge per second
	LaunchSpeed float64 // projectile speed at full charge
}

// DefaultConfig returns the stock match: four teams of four on a
// 1024x512 map.
func DefaultConfig() Config {
	return Config{
		Width:        1024,
		Height:       512,
		Terrain:      terrain.DefaultParams(),
		Physics:      physics.DefaultParams(),
		Specs:        physics.DefaultSpecs(),
		Teams:        4,
		UnitsPerTeam: 4,
		TurnTime:     15,
		PlayerTeam:   0,
		Salvo:        100,
		JumpVX:       4,
		JumpVY:       8,
		AimRate:      1.0,
		ChargeRate:   0.75,
		LaunchSpeed:  40,
	}
}

// Opponent drives the teams the player does not control.
type Opponent interface {
	// Decide returns this frame's control signals.
	Decide(s *Session) Intent
	// Reset is called when a computer turn starts.
	Reset()
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOpponent sets the computer opponent.
func WithOpponent(o Opponent) Option {
	return func(s *Session) {
		s.opponent = o
	}
}

// Session is one match. It is not safe for concurrent use.
type Session struct {
	cfg      Config
	rng      *rand.Rand
	field    *terrain.Field
	world    *physics.World
	teams    []*Team
	opponent Opponent
	logger   *log.Logger

	state TurnState
	next  TurnState

	currentTeam int
	controlled  physics.Handle
	tracked     physics.Handle
	turnTime    float64

	charge        float64
	charging      bool
	startQueued   bool
	fireRequested bool
	fired         bool

	humanEnabled  bool
	aiEnabled     bool
	zoomOut       bool
	showCountdown bool
	stable        bool

	alive  []bool
	winner int
	turns  int
	frames uint64
	elapse float64

	shots       int
	detonations int
}

// NewSession creates a match in the Reset state. The seed drives terrain,
// debris and the salvo.
func NewSession(cfg Config, seed int64, opts ...Option) *Session {
	rng := rand.New(rand.NewSource(seed))
	s := &Session{
		cfg:    cfg,
		rng:    rng,
		field:  terrain.New(cfg.Width, cfg.Height, cfg.Terrain),
		world:  physics.NewWorld(cfg.Physics, cfg.Specs, rng),
		logger: log.New(io.Discard),
		state:  StateReset,
		next:   StateReset,
		winner: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update advances the match by one frame in this order: the turn state
// machine stages its next state from the previous frame's stability, then
// the AI decides, control is applied, the timer runs down and physics
// steps. The staged state is committed last. The player's intent is
// ignored unless a player-controlled turn is running.
func (s *Session) Update(dt float64, player Intent) {
	s.frames++
	s.elapse += dt

	s.runTurnState()

	var in Intent
	switch {
	case s.humanEnabled:
		in = player
	case s.aiEnabled && s.opponent != nil:
		in = s.opponent.Decide(s)
	}
	if player.ToggleView {
		s.zoomOut = !s.zoomOut
	}

	s.turnTime -= dt
	s.applyControl(in, dt)

	rep := s.world.Frame(s.field, dt)
	s.handleReport(rep)
	s.stable = s.world.Stable()

	if s.next != s.state {
		s.logger.Debug("turn state", "from", s.state, "to", s.next, "frame", s.frames)
	}
	s.state = s.next
}

func (s *Session) handleReport(rep physics.StepReport) {
	for _, d := range rep.Detonations {
		s.detonations++
		if d.Handle == s.tracked {
			s.tracked = physics.NoHandle
		}
		s.logger.Info("detonation", "x", int(d.X), "y", int(d.Y), "radius", d.Radius)
	}
	for _, r := range rep.Removed {
		if r.Handle == s.controlled {
			s.controlled = physics.NoHandle
		}
		if r.Handle == s.tracked {
			s.tracked = physics.NoHandle
		}
	}
	for i, t := range s.teams {
		if i < len(s.alive) && s.alive[i] && !t.Alive(s.world) {
			s.alive[i] = false
			s.logger.Info("team eliminated", "team", i)
		}
	}
}

// Field returns the terrain.
func (s *Session) Field() *terrain.Field { return s.field }

// World returns the physics world.
func (s *Session) World() *physics.World { return s.world }

// Config returns the match configuration.
func (s *Session) Config() Config { return s.cfg }

// Width returns the map width in cells.
func (s *Session) Width() int { return s.cfg.Width }

// State returns the current turn state.
func (s *Session) State() TurnState { return s.state }

// Controlled returns the unit under control, if any.
func (s *Session) Controlled() physics.Handle { return s.controlled }

// Tracked returns the body the camera follows.
func (s *Session) Tracked() physics.Handle { return s.tracked }

// CurrentTeam returns the team whose turn it is.
func (s *Session) CurrentTeam() int { return s.currentTeam }

// TeamCount returns the number of teams in play.
func (s *Session) TeamCount() int { return len(s.teams) }

// Team returns a roster, or nil when out of range.
func (s *Session) Team(i int) *Team {
	if i < 0 || i >= len(s.teams) {
		return nil
	}
	return s.teams[i]
}

// TeamMembers returns the handles of a team's units.
func (s *Session) TeamMembers(i int) []physics.Handle {
	if t := s.Team(i); t != nil {
		return t.Members
	}
	return nil
}

// TeamAlive reports whether a team still has a living unit.
func (s *Session) TeamAlive(i int) bool {
	t := s.Team(i)
	return t != nil && t.Alive(s.world)
}

// TeamHealth returns a team's health bar fraction.
func (s *Session) TeamHealth(i int) float64 {
	if t := s.Team(i); t != nil {
		return t.Health(s.world)
	}
	return 0
}

// TurnTime returns the seconds left in the current turn.
func (s *Session) TurnTime() float64 { return s.turnTime }

// Countdown returns the whole seconds shown on the turn timer.
func (s *Session) Countdown() int {
	if s.turnTime <= 0 {
		return 0
	}
	return int(s.turnTime)
}

// ShowCountdown reports whether the turn timer is visible.
func (s *Session) ShowCountdown() bool { return s.showCountdown }

// Stable reports whether every body was at rest after the last frame.
func (s *Session) Stable() bool { return s.stable }

// Charge returns the current shot charge in [0,1].
func (s *Session) Charge() float64 { return s.charge }

// Charging reports whether a shot is being charged.
func (s *Session) Charging() bool { return s.charging }

// ChargeQueued reports a start press waiting for the unit to settle.
func (s *Session) ChargeQueued() bool { return s.startQueued }

// PlayerControl reports whether the player drives the current turn.
func (s *Session) PlayerControl() bool { return s.humanEnabled }

// ComputerControl reports whether the opponent drives the current turn.
func (s *Session) ComputerControl() bool { return s.aiEnabled }

// ZoomedOut reports whether the whole map view is active.
func (s *Session) ZoomedOut() bool { return s.zoomOut }

// GameOver reports whether the match has been decided.
func (s *Session) GameOver() bool {
	return s.state == StateGameOver1 || s.state == StateGameOver2
}

// Winner returns the winning team, or -1 before game over or when no team
// survived.
func (s *Session) Winner() int { return s.winner }

// Turns returns the number of turns started.
func (s *Session) Turns() int { return s.turns }

// Frames returns the number of frames simulated.
func (s *Session) Frames() uint64 { return s.frames }

// Elapsed returns the simulated seconds since the session was created.
func (s *Session) Elapsed() float64 { return s.elapse }

// Shots returns the projectiles fired by units.
func (s *Session) Shots() int { return s.shots }

// Detonations returns the explosions so far, salvo included.
func (s *Session) Detonations() int { return s.detonations }

// CameraTarget returns the point the view should centre on: the tracked
// body, then the controlled unit, then the middle of the map.
func (s *Session) CameraTarget() (float64, float64) {
	if b, ok := s.world.Get(s.tracked); ok {
		return b.X, b.Y
	}
	if b, ok := s.world.Get(s.controlled); ok {
		return b.X, b.Y
	}
	return float64(s.cfg.Width) / 2, float64(s.cfg.Height) / 2
}

// spawnSalvo drops the game-over bombardment over the upper half of the
// map.
func (s *Session) spawnSalvo() {
	w, h := float64(s.cfg.Width), float64(s.cfg.Height)
	for i := 0; i < s.cfg.Salvo; i++ {
		x := s.rng.Float64() * w
		y := s.rng.Float64() * h / 2
		s.world.SpawnProjectile(x, y, 0, 0.5)
	}
}

// allocateUnits spawns every team along the top edge, one band of the map
// per team.
func (s *Session) allocateUnits() {
	s.teams = s.teams[:0]
	s.alive = s.alive[:0]

	n, units := s.cfg.Teams, s.cfg.UnitsPerTeam
	if n < 1 || units < 1 {
		return
	}
	band := float64(s.cfg.Width) / float64(n)
	spacing := band / float64(units*2)

	for t := 0; t < n; t++ {
		team := NewTeam(t, units)
		base := band/2 + float64(t)*band - spacing*float64(units)/2
		for u := 0; u < units; u++ {
			team.Add(s.world.SpawnUnit(base+float64(u)*spacing, 0, t))
		}
		s.teams = append(s.teams, team)
		s.alive = append(s.alive, true)
	}

	s.currentTeam = 0
	s.controlled = s.teams[0].FirstLiving(s.world)
	s.tracked = s.controlled
	s.logger.Debug("units allocated", "teams", n, "per_team", units)
}
