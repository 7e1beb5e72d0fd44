package artillery

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-artillery/internal/config"
	"github.com/vovakirdan/tui-artillery/internal/core"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/ai"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/match"
	"github.com/vovakirdan/tui-artillery/internal/registry"
)

func smallConfig() config.ArtilleryConfig {
	cfg := config.DefaultArtilleryConfig()
	cfg.Terrain.Width = 256
	cfg.Terrain.Height = 128
	cfg.Match.Teams = 2
	cfg.Match.UnitsPerTeam = 2
	cfg.Match.Salvo = 5
	return cfg
}

func runtimeConfig(seed int64) core.RuntimeConfig {
	rc := core.DefaultConfig()
	rc.Seed = seed
	return rc
}

func newSmallGame(demo bool, seed int64) *Game {
	g := New()
	if demo {
		g = NewDemo()
	}
	g.ResetWith(smallConfig(), runtimeConfig(seed))
	return g
}

func stepN(g *Game, n int) {
	for i := 0; i < n; i++ {
		g.Step(core.NewInputFrame())
	}
}

func stepUntil(t *testing.T, g *Game, max int, cond func() bool) {
	t.Helper()
	for i := 0; i < max && !cond(); i++ {
		g.Step(core.NewInputFrame())
	}
	if !cond() {
		t.Fatalf("condition not reached after %d frames (phase %s)", max, g.State().Phase)
	}
}

func press(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestModesRegistered(t *testing.T) {
	for _, id := range []string{ModeVersus, ModeDemo} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, want %q", g.ID(), id)
		}
	}
	if New().Title() == NewDemo().Title() {
		t.Error("modes should have distinct titles")
	}
}

func TestDeterminism(t *testing.T) {
	a := newSmallGame(true, 777)
	b := newSmallGame(true, 777)

	for i := 0; i < 12; i++ {
		stepN(a, 100)
		stepN(b, 100)
		if sa, sb := a.Snapshot(), b.Snapshot(); !reflect.DeepEqual(sa, sb) {
			t.Fatalf("snapshots diverged at frame %d:\n%+v\n%+v", sa.Frame, sa, sb)
		}
	}
	if !a.Session().Field().Equal(b.Session().Field()) {
		t.Error("terrain diverged")
	}
}

func TestSeedChangesTerrain(t *testing.T) {
	a := newSmallGame(true, 1)
	b := newSmallGame(true, 2)
	stepN(a, 5)
	stepN(b, 5)
	if a.Session().Field().Equal(b.Session().Field()) {
		t.Error("different seeds should give different terrain")
	}
}

func TestAimPressIsHeld(t *testing.T) {
	g := newSmallGame(false, 1)

	it := g.intent(press(core.ActionAimLeft))
	if !it.AimLeft {
		t.Fatal("first frame should aim left")
	}
	held := 1
	for i := 0; i < 20; i++ {
		if g.intent(core.NewInputFrame()).AimLeft {
			held++
		}
	}
	if held != g.cfg.Match.AimHoldFrames {
		t.Errorf("aim held for %d frames, want %d", held, g.cfg.Match.AimHoldFrames)
	}

	// The opposite direction cancels the hold.
	g.intent(press(core.ActionAimLeft))
	it = g.intent(press(core.ActionAimRight))
	if it.AimLeft || !it.AimRight {
		t.Errorf("intent = %+v, want right only", it)
	}
}

func TestFireTogglesCharge(t *testing.T) {
	g := newSmallGame(false, 1)

	it := g.intent(press(core.ActionFire))
	if !it.ChargeStart || !it.ChargeHold {
		t.Fatalf("first press = %+v, want start and hold", it)
	}
	if it = g.intent(core.NewInputFrame()); !it.ChargeHold || it.ChargeStart {
		t.Fatalf("between presses = %+v, want hold only", it)
	}
	it = g.intent(press(core.ActionFire))
	if !it.ChargeRelease || it.ChargeHold {
		t.Fatalf("second press = %+v, want release", it)
	}
	if it = g.intent(core.NewInputFrame()); !it.Empty() {
		t.Errorf("after release = %+v, want nothing", it)
	}
}

func TestPlayerCanShoot(t *testing.T) {
	g := newSmallGame(false, 3)
	s := g.Session()
	stepUntil(t, g, 5000, func() bool { return s.State() == match.StateStartPlay })
	if !s.PlayerControl() {
		t.Fatal("team 1 should open under player control")
	}

	// Press while the unit is still settling; the start must not be lost.
	if b, _, ok := s.World().Unit(s.Controlled()); ok {
		b.Stable = false
	}
	g.Step(press(core.ActionFire))
	if !g.charging {
		t.Fatal("fire press on a settling unit was dropped")
	}
	stepN(g, 30)
	if !s.Charging() || s.Charge() <= 0 {
		t.Fatalf("charge = %f charging = %v after holding", s.Charge(), s.Charging())
	}
	g.Step(press(core.ActionFire))
	if s.Shots() != 1 {
		t.Fatalf("shots = %d, want 1", s.Shots())
	}
	if g.charging {
		t.Error("key state should be cleared after the shot")
	}
}

func TestPauseFreezesMatch(t *testing.T) {
	g := newSmallGame(true, 4)
	stepN(g, 10)

	res := g.Step(press(core.ActionPause))
	if !res.State.Paused {
		t.Fatal("pause should be reported")
	}
	frames := g.Session().Frames()
	stepN(g, 50)
	if g.Session().Frames() != frames {
		t.Error("paused match should not advance")
	}

	g.Step(press(core.ActionPause))
	if g.State().Paused || g.Session().Frames() != frames+1 {
		t.Error("second press should resume")
	}
}

func TestOpponentDefaultsMatchConfig(t *testing.T) {
	got := OpponentConfig(config.DefaultArtilleryConfig())
	if want := ai.DefaultConfig(); got != want {
		t.Errorf("opponent from default config = %+v, want %+v", got, want)
	}
}

func TestRenderPlayView(t *testing.T) {
	g := newSmallGame(false, 5)
	s := g.Session()
	stepUntil(t, g, 5000, func() bool { return s.State() == match.StateStartPlay })

	scr := core.NewScreen(80, 24)
	g.Render(scr)

	if row := scr.Row(0); !strings.Contains(row, "Turn 1") || !strings.Contains(row, "Team 1 (YOU)") {
		t.Errorf("HUD row = %q", row)
	}
	if row := scr.Row(23); !strings.HasPrefix(row, "T1") || !strings.Contains(row, "T2") {
		t.Errorf("team bar row = %q", row)
	}
	if !strings.ContainsRune(scr.String(), '@') {
		t.Error("units should be drawn")
	}
	if !strings.ContainsRune(scr.String(), '█') && !strings.ContainsRune(scr.String(), '▀') {
		t.Error("ground should be drawn")
	}
}

func TestRenderZoomedOutShowsWholeMap(t *testing.T) {
	g := newSmallGame(false, 6)
	s := g.Session()
	stepUntil(t, g, 5000, func() bool { return s.State() == match.StateStartPlay })

	g.Step(press(core.ActionZoom))
	if !s.ZoomedOut() {
		t.Fatal("zoom key should toggle the map view")
	}

	scr := core.NewScreen(64, 20)
	g.Render(scr)
	if n := strings.Count(scr.String(), "@"); n != 4 {
		t.Errorf("zoomed-out view shows %d units, want 4", n)
	}
}

func TestRenderBannerBeforePlay(t *testing.T) {
	g := newSmallGame(true, 2)
	scr := core.NewScreen(80, 24)
	g.Render(scr)

	if row := scr.Row(12); !strings.Contains(row, "Shaping the landscape") || !strings.Contains(row, "│") {
		t.Errorf("banner row = %q", row)
	}
	if !strings.Contains(scr.Row(11), "┌") || !strings.Contains(scr.Row(13), "┘") {
		t.Error("banner should be boxed")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newSmallGame(true, 1)
	scr := core.NewScreen(20, 5)
	g.Render(scr)
	if !strings.Contains(scr.String(), "too small") {
		t.Errorf("screen = %q", scr.String())
	}
}

func TestMatchResultShape(t *testing.T) {
	g := newSmallGame(true, 8)
	s := g.Session()
	stepUntil(t, g, 5000, func() bool { return s.State() == match.StateStartPlay })

	r := g.MatchResult()
	if r.Mode != ModeDemo || r.Seed != 8 || r.Turns != 1 {
		t.Errorf("result = %+v", r)
	}
	if r.WinnerTeam != -1 {
		t.Errorf("winner before game over = %d", r.WinnerTeam)
	}
	if len(r.Teams) != 2 || r.Teams[1].UnitsAlive != 2 || r.Teams[1].Health != 1 {
		t.Errorf("teams = %+v", r.Teams)
	}
}

func TestResetFallsBackOnBadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	SetConfigPath("/nonexistent/artillery.yaml")
	t.Cleanup(func() { SetConfigPath("") })

	g := New()
	g.Reset(runtimeConfig(1))
	if g.ConfigError() == nil {
		t.Error("missing custom config should be reported")
	}
	if g.Config().Terrain.Width != 1024 {
		t.Errorf("width = %d, want the default", g.Config().Terrain.Width)
	}
}

func TestDifficultyPresetApplied(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	SetDifficultyPreset("hard")
	t.Cleanup(func() { SetDifficultyPreset("") })

	g := NewDemo()
	g.Reset(runtimeConfig(1))
	if g.ConfigError() != nil {
		t.Fatalf("ConfigError() = %v", g.ConfigError())
	}
	if ai := g.Config().AI; ai.AimNoise != 0 || ai.AimTolerance != 0.01 {
		t.Errorf("ai = %+v, want the hard preset", ai)
	}
	if g.Session().Config().PlayerTeam != match.AllComputer {
		t.Error("demo mode should hand every team to the computer")
	}
}
