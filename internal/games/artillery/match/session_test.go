package match

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-artillery/internal/games/artillery/physics"
)

const frameDT = 1.0 / 60.0

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 256
	cfg.Height = 128
	cfg.Teams = 2
	cfg.UnitsPerTeam = 1
	cfg.TurnTime = 1
	cfg.Salvo = 5
	return cfg
}

// runUntil steps the session until cond holds, failing after max frames.
func runUntil(t *testing.T, s *Session, max int, cond func() bool) {
	t.Helper()
	for i := 0; i < max; i++ {
		if cond() {
			return
		}
		s.Update(frameDT, Intent{})
	}
	if !cond() {
		t.Fatalf("condition not reached after %d frames (state %v)", max, s.State())
	}
}

// groundedSession returns a session with one stable unit under control on
// flat ground at row 60.
func groundedSession(t *testing.T) (*Session, *physics.Body, *physics.Unit) {
	t.Helper()
	s := NewSession(smallConfig(), 1)
	s.field.Fill(60)
	h := s.world.SpawnUnit(100, 56, 0)
	b, u, _ := s.world.Unit(h)
	b.Stable = true
	s.controlled = h
	return s, b, u
}

func TestStartupReachesPlay(t *testing.T) {
	s := NewSession(smallConfig(), 42)
	want := []TurnState{
		StateReset, StateGenerateTerrain, StateGeneratingTerrain,
		StateAllocateUnits, StateAllocatingUnits, StateStartPlay,
	}

	seen := []TurnState{s.State()}
	for i := 0; i < 5000 && s.State() != StateStartPlay; i++ {
		s.Update(frameDT, Intent{})
		if last := seen[len(seen)-1]; s.State() != last {
			seen = append(seen, s.State())
		}
	}
	if len(seen) != len(want) {
		t.Fatalf("states = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("states = %v, want %v", seen, want)
		}
	}

	if !s.PlayerControl() || s.ComputerControl() {
		t.Error("team 0 should be player-controlled")
	}
	if s.CurrentTeam() != 0 {
		t.Errorf("current team = %d, want 0", s.CurrentTeam())
	}
	if s.TeamCount() != 2 {
		t.Errorf("team count = %d, want 2", s.TeamCount())
	}
	if s.Turns() != 1 {
		t.Errorf("turns = %d, want 1", s.Turns())
	}
}

func TestUnitSpawnPositions(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSession(cfg, 3)
	s.allocateUnits()

	first := s.TeamMembers(0)[0]
	if s.Controlled() != first || s.Tracked() != first {
		t.Errorf("controlled %v tracked %v, want team 0's first unit %v", s.Controlled(), s.Tracked(), first)
	}

	band := float64(cfg.Width) / float64(cfg.Teams)
	spacing := band / float64(cfg.UnitsPerTeam*2)
	for ti := 0; ti < cfg.Teams; ti++ {
		for wi, h := range s.TeamMembers(ti) {
			b, u, ok := s.world.Unit(h)
			if !ok {
				t.Fatalf("team %d member %d missing", ti, wi)
			}
			want := band/2 + float64(ti)*band - spacing*float64(cfg.UnitsPerTeam)/2 + float64(wi)*spacing
			if math.Abs(b.X-want) > 1e-9 || b.Y != 0 {
				t.Errorf("team %d member %d at (%f,%f), want (%f,0)", ti, wi, b.X, b.Y, want)
			}
			if u.Team != ti || u.Health != 1 || !u.Controllable {
				t.Errorf("team %d member %d has bad unit state %+v", ti, wi, *u)
			}
		}
	}
}

func TestMatchEndsWhenOneTeamSurvives(t *testing.T) {
	tests := []struct {
		name   string
		killed int
	}{
		{"waiting team wiped out", 1},
		{"playing team wiped out", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession(smallConfig(), 7)
			runUntil(t, s, 5000, func() bool { return s.State() == StateStartPlay })
			if s.CurrentTeam() != 0 {
				t.Fatalf("first turn went to team %d", s.CurrentTeam())
			}
			survivor := 1 - tc.killed
			if !s.TeamAlive(survivor) {
				t.Skip("the surviving team fell off this map")
			}

			for _, h := range s.TeamMembers(tc.killed) {
				if _, u, ok := s.world.Unit(h); ok {
					u.OnDamage(1)
				}
			}
			turns := s.Turns()

			sawGameOver1 := false
			for i := 0; i < 5000 && s.State() != StateGameOver2; i++ {
				s.Update(frameDT, Intent{})
				if s.State() == StateGameOver1 {
					sawGameOver1 = true
				}
			}
			if !sawGameOver1 || s.State() != StateGameOver2 {
				t.Fatalf("match did not finish, state %v", s.State())
			}
			if s.Turns() != turns {
				t.Errorf("survivor got %d extra turns", s.Turns()-turns)
			}
			if !s.GameOver() {
				t.Error("GameOver should report true")
			}
			if s.Winner() != survivor {
				t.Errorf("winner = %d, want %d", s.Winner(), survivor)
			}
			if s.PlayerControl() || s.ComputerControl() {
				t.Error("control should be disabled after the match")
			}
		})
	}
}

func TestTurnPassesWhenTimerRunsOut(t *testing.T) {
	s := NewSession(smallConfig(), 9)
	runUntil(t, s, 5000, func() bool { return s.State() == StateStartPlay })
	if !s.TeamAlive(0) || !s.TeamAlive(1) {
		t.Skip("a unit fell off this map")
	}

	runUntil(t, s, 5000, func() bool { return s.CurrentTeam() == 1 })
	if s.State() != StateStartPlay {
		t.Errorf("state = %v, want start_play", s.State())
	}
	if s.PlayerControl() || !s.ComputerControl() {
		t.Error("team 1 should be computer-controlled")
	}
	if math.Abs(s.TurnTime()-smallConfig().TurnTime) > frameDT+1e-9 {
		t.Errorf("turn timer = %f, want reset", s.TurnTime())
	}
}

// selfShooter fires straight away with no charge.
type selfShooter struct {
	resets int
}

func (o *selfShooter) Decide(s *Session) Intent {
	if s.Charging() {
		return Intent{ChargeRelease: true}
	}
	return Intent{ChargeStart: true}
}

func (o *selfShooter) Reset() { o.resets++ }

func TestComputerMatchRunsToCompletion(t *testing.T) {
	cfg := smallConfig()
	cfg.PlayerTeam = AllComputer
	opp := &selfShooter{}
	s := NewSession(cfg, 11, WithOpponent(opp))

	runUntil(t, s, 60000, func() bool { return s.State() == StateGameOver2 })

	if s.Shots() == 0 {
		t.Error("no shots fired")
	}
	if s.Turns() < 2 {
		t.Errorf("turns = %d, want at least 2", s.Turns())
	}
	if opp.resets != s.Turns() {
		t.Errorf("opponent reset %d times for %d computer turns", opp.resets, s.Turns())
	}
	if w := s.Winner(); w < -1 || w >= cfg.Teams {
		t.Errorf("winner = %d out of range", w)
	}
}

func TestPlayerIntentIgnoredOutsidePlayerTurn(t *testing.T) {
	s, b, u := groundedSession(t)
	aim := u.Aim

	s.Update(frameDT, Intent{AimRight: true, Jump: true, ChargeStart: true})

	if u.Aim != aim || s.Charging() || b.VY < -1 {
		t.Error("player intent applied while player control is off")
	}
}

func TestJumpUsesAim(t *testing.T) {
	s, b, u := groundedSession(t)
	u.Aim = -math.Pi / 2

	s.applyControl(Intent{Jump: true}, frameDT)

	if math.Abs(b.VX) > 1e-9 || math.Abs(b.VY+8) > 1e-9 {
		t.Errorf("jump velocity = (%f,%f), want (0,-8)", b.VX, b.VY)
	}
	if b.Stable {
		t.Error("jumping unit should not be stable")
	}
}

func TestJumpAngleOverridesAim(t *testing.T) {
	s, b, u := groundedSession(t)

	s.applyControl(Intent{Jump: true, JumpAngle: -0.6 * math.Pi, UseJumpAngle: true}, frameDT)

	if math.Abs(u.Aim+0.6*math.Pi) > 1e-12 {
		t.Errorf("aim = %f, want %f", u.Aim, -0.6*math.Pi)
	}
	if b.VX >= 0 || b.VY >= 0 {
		t.Errorf("expected an up-left hop, got (%f,%f)", b.VX, b.VY)
	}
}

func TestAimWraps(t *testing.T) {
	s, _, u := groundedSession(t)
	u.Aim = math.Pi - 0.01

	s.applyControl(Intent{AimRight: true}, 0.1)

	if u.Aim <= -math.Pi || u.Aim > math.Pi {
		t.Fatalf("aim %f outside (-pi, pi]", u.Aim)
	}
	if math.Abs(u.Aim-(-math.Pi+0.09)) > 1e-9 {
		t.Errorf("aim = %f, want %f", u.Aim, -math.Pi+0.09)
	}
}

func TestChargeAutoFiresAtFull(t *testing.T) {
	s, _, u := groundedSession(t)
	u.Aim = 0

	s.applyControl(Intent{ChargeStart: true}, 0.5)
	for i := 0; i < 2; i++ {
		s.applyControl(Intent{ChargeHold: true}, 0.5)
	}
	if s.Shots() != 0 {
		t.Fatal("fired before the charge was full")
	}
	if math.Abs(s.Charge()-0.75) > 1e-12 {
		t.Errorf("charge = %f, want 0.75", s.Charge())
	}

	s.applyControl(Intent{ChargeHold: true}, 0.5)

	if s.Shots() != 1 {
		t.Fatalf("shots = %d, want 1", s.Shots())
	}
	p, ok := s.world.Get(s.Tracked())
	if !ok || p.Kind() != physics.KindProjectile {
		t.Fatal("camera should track the projectile")
	}
	if math.Abs(p.VX-40) > 1e-9 || math.Abs(p.VY) > 1e-9 {
		t.Errorf("launch velocity = (%f,%f), want (40,0)", p.VX, p.VY)
	}
	if s.Charging() || s.Charge() != 0 {
		t.Error("charge should reset after firing")
	}
}

func TestReleaseFiresWithPartialCharge(t *testing.T) {
	s, _, u := groundedSession(t)
	u.Aim = -math.Pi / 2

	s.applyControl(Intent{ChargeStart: true}, 0.5)
	s.applyControl(Intent{ChargeHold: true}, 0.5)
	s.applyControl(Intent{ChargeRelease: true}, 0.5)

	p, ok := s.world.Get(s.Tracked())
	if !ok {
		t.Fatal("release did not fire")
	}
	if math.Abs(p.Speed()-40*0.375) > 1e-9 {
		t.Errorf("launch speed = %f, want %f", p.Speed(), 40*0.375)
	}
}

func TestChargeStartWaitsForStableUnit(t *testing.T) {
	s, b, _ := groundedSession(t)
	b.Stable = false

	s.applyControl(Intent{ChargeStart: true, ChargeHold: true}, frameDT)
	if s.Charging() || !s.ChargeQueued() {
		t.Fatalf("charging = %v queued = %v on a moving unit, want queued only", s.Charging(), s.ChargeQueued())
	}

	b.Stable = true
	s.applyControl(Intent{ChargeHold: true}, frameDT)
	if !s.Charging() || s.ChargeQueued() || s.Charge() <= 0 {
		t.Errorf("charging = %v queued = %v charge = %f once settled", s.Charging(), s.ChargeQueued(), s.Charge())
	}
}

func TestReleaseCancelsQueuedCharge(t *testing.T) {
	s, b, _ := groundedSession(t)
	b.Stable = false

	s.applyControl(Intent{ChargeStart: true}, frameDT)
	s.applyControl(Intent{ChargeRelease: true}, frameDT)
	b.Stable = true
	s.applyControl(Intent{}, frameDT)

	if s.Charging() || s.ChargeQueued() || s.Shots() != 0 {
		t.Errorf("charging = %v queued = %v shots = %d after cancel", s.Charging(), s.ChargeQueued(), s.Shots())
	}
}

func TestDeadUnitCannotAct(t *testing.T) {
	s, b, u := groundedSession(t)
	u.OnDamage(1)

	s.applyControl(Intent{Jump: true, ChargeStart: true}, frameDT)

	if b.VY != 0 || s.Charging() {
		t.Error("a unit without control responded to input")
	}
}
