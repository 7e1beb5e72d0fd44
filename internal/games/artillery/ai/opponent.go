// Package ai is the computer opponent. Each frame it looks at the match,
// advances a small decision machine and returns the control intent for the
// unit whose turn it is.
package ai

import (
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-artillery/internal/core"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/match"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/physics"
)

// State is a step of the opponent's turn.
type State int

const (
	StateAssess State = iota
	StateMove
	StateChooseTarget
	StatePositionForTarget
	StateAim
	StateFire
)

func (s State) String() string {
	switch s {
	case StateAssess:
		return "assess"
	case StateMove:
		return "move"
	case StateChooseTarget:
		return "choose_target"
	case StatePositionForTarget:
		return "position_for_target"
	case StateAim:
		return "aim"
	case StateFire:
		return "fire"
	default:
		return "unknown"
	}
}

// Hop angles used to walk left and right.
const (
	HopLeft  = -0.6 * math.Pi
	HopRight = -0.4 * math.Pi
)

// Config tunes the opponent.
type Config struct {
	LaunchSpeed float64 // projectile speed at full charge
	Gravity     float64
	Charge      float64 // charge used for every shot

	AimNoise     float64 // max random aim error, radians
	AimTolerance float64 // aim counts as reached within this, radians

	MoveMinTime       float64 // stop walking below this many seconds
	RepositionMinTime float64 // stop chasing a target below this

	AllyProximity   float64
	RetreatDistance float64
	AdvanceDistance float64
	EdgeMargin      float64
	ArriveTolerance float64
}

// DefaultConfig returns the opponent of the shipped config: exact aim, with
// noise left to the difficulty presets.
func DefaultConfig() Config {
	return Config{
		LaunchSpeed:       40,
		Gravity:           2,
		Charge:            0.75,
		AimNoise:          0,
		AimTolerance:      0.02,
		MoveMinTime:       8,
		RepositionMinTime: 5,
		AllyProximity:     50,
		RetreatDistance:   80,
		AdvanceDistance:   200,
		EdgeMargin:        20,
		ArriveTolerance:   1,
	}
}

// Board is the view of the match the opponent needs.
type Board interface {
	World() *physics.World
	Width() int
	Controlled() physics.Handle
	TeamCount() int
	TeamMembers(team int) []physics.Handle
	TeamAlive(team int) bool
	TurnTime() float64
	Charge() float64
	Charging() bool
}

var (
	_ match.Opponent = (*Engine)(nil)
	_ Board          = (*match.Session)(nil)
)

// Engine is the opponent's decision machine. One engine serves every
// computer team; Reset starts a fresh turn.
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	logger *log.Logger

	state State
	next  State

	safeX float64

	target       physics.Handle
	targetX      float64
	targetY      float64
	targetAngle  float64
	targetCharge float64
}

// New creates an engine. A nil rng is seeded with zero and a nil logger
// discards output.
func New(cfg Config, rng *rand.Rand, logger *log.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{cfg: cfg, rng: rng, logger: logger}
}

// Reset returns the engine to the assess step.
func (e *Engine) Reset() {
	e.state = StateAssess
	e.next = StateAssess
	e.target = physics.NoHandle
}

// State returns the current step.
func (e *Engine) State() State { return e.state }

// Target returns the unit being aimed at.
func (e *Engine) Target() physics.Handle { return e.target }

// Decide implements match.Opponent.
func (e *Engine) Decide(s *match.Session) match.Intent {
	return e.Step(s)
}

// Step runs one frame of the decision machine against the board.
func (e *Engine) Step(b Board) match.Intent {
	body, unit, ok := b.World().Unit(b.Controlled())
	if !ok || !unit.Controllable {
		return match.Intent{}
	}

	var in match.Intent
	e.next = e.state

	switch e.state {
	case StateAssess:
		e.assess(b, body, unit.Team)
		e.next = StateMove

	case StateMove:
		if b.TurnTime() >= e.cfg.MoveMinTime && math.Abs(body.X-e.safeX) > e.cfg.ArriveTolerance {
			if body.Stable {
				in = hop(e.safeX < body.X)
			}
		} else {
			e.next = StateChooseTarget
		}

	case StateChooseTarget:
		if e.chooseTarget(b, unit.Team) {
			e.next = StatePositionForTarget
		} else {
			e.aimAt(unit.Aim)
			e.next = StateAim
		}

	case StatePositionForTarget:
		dx := e.targetX - body.X
		dy := body.Y - e.targetY
		angle, ok := Solve(e.cfg.LaunchSpeed*e.cfg.Charge, e.cfg.Gravity, dx, dy)
		switch {
		case ok:
			e.aimAt(angle + e.noise())
			e.next = StateAim
		case b.TurnTime() >= e.cfg.RepositionMinTime:
			if body.Stable {
				in = hop(dx < 0)
			}
		default:
			e.aimAt(unit.Aim)
			e.next = StateAim
		}

	case StateAim:
		diff := core.WrapAngle(e.targetAngle - unit.Aim)
		switch {
		case math.Abs(diff) <= e.cfg.AimTolerance:
			e.next = StateFire
		case diff > 0:
			in.AimRight = true
		default:
			in.AimLeft = true
		}

	case StateFire:
		switch {
		case !b.Charging():
			in.ChargeStart = true
		case b.Charge() >= e.targetCharge:
			in.ChargeRelease = true
			e.next = StateAssess
		default:
			in.ChargeHold = true
		}
	}

	if e.next != e.state {
		e.logger.Debug("ai state", "team", unit.Team, "from", e.state, "to", e.next)
	}
	e.state = e.next
	return in
}

func hop(left bool) match.Intent {
	angle := HopRight
	if left {
		angle = HopLeft
	}
	return match.Intent{Jump: true, JumpAngle: angle, UseJumpAngle: true}
}

func (e *Engine) noise() float64 {
	if e.cfg.AimNoise <= 0 {
		return 0
	}
	return (e.rng.Float64()*2 - 1) * e.cfg.AimNoise
}

func (e *Engine) aimAt(angle float64) {
	e.targetAngle = core.WrapAngle(angle)
	e.targetCharge = e.cfg.Charge
}

// assess picks where to stand this turn: back off from a crowding ally,
// push toward the middle, or hold.
func (e *Engine) assess(b Board, body *physics.Body, team int) {
	x := body.X
	e.safeX = x

	switch e.rng.Intn(3) {
	case 0:
		if allyX, dist, ok := e.nearestAlly(b, body, team); ok && dist < e.cfg.AllyProximity {
			if allyX < x {
				e.safeX = x + e.cfg.RetreatDistance
			} else {
				e.safeX = x - e.cfg.RetreatDistance
			}
		}
	case 1:
		if x < float64(b.Width())/2 {
			e.safeX = x + e.cfg.AdvanceDistance
		} else {
			e.safeX = x - e.cfg.AdvanceDistance
		}
	}

	lo, hi := e.cfg.EdgeMargin, float64(b.Width())-e.cfg.EdgeMargin
	if lo <= hi {
		e.safeX = core.ClampF(e.safeX, lo, hi)
	}
}

func (e *Engine) nearestAlly(b Board, self *physics.Body, team int) (float64, float64, bool) {
	w := b.World()
	bestX, best := 0.0, math.Inf(1)
	found := false
	for _, h := range b.TeamMembers(team) {
		ab, au, ok := w.Unit(h)
		if !ok || ab == self || !au.Alive() {
			continue
		}
		if d := math.Abs(ab.X - self.X); d < best {
			bestX, best, found = ab.X, d, true
		}
	}
	return bestX, best, found
}

// chooseTarget picks a random living enemy team and aims at its healthiest
// unit.
func (e *Engine) chooseTarget(b Board, own int) bool {
	var teams []int
	for t := 0; t < b.TeamCount(); t++ {
		if t != own && b.TeamAlive(t) {
			teams = append(teams, t)
		}
	}
	if len(teams) == 0 {
		return false
	}
	team := teams[e.rng.Intn(len(teams))]

	w := b.World()
	best := physics.NoHandle
	bestHealth := 0.0
	for _, h := range b.TeamMembers(team) {
		if _, u, ok := w.Unit(h); ok && u.Health > bestHealth {
			best, bestHealth = h, u.Health
		}
	}
	tb, ok := w.Get(best)
	if !ok {
		return false
	}
	e.target = best
	e.targetX, e.targetY = tb.X, tb.Y
	return true
}
