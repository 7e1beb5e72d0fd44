// Package artillery registers the artillery match modes with the platform.
// It loads the configuration, builds a match session with a computer
// opponent and turns key presses into control intents.
package artillery

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-artillery/internal/config"
	"github.com/vovakirdan/tui-artillery/internal/core"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/ai"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/match"
	"github.com/vovakirdan/tui-artillery/internal/registry"
	"github.com/vovakirdan/tui-artillery/internal/storage"
)

// Mode IDs.
const (
	ModeVersus = "artillery"
	ModeDemo   = "artillery_cpu"
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// logger receives match events; discarded unless the CLI sets one.
var logger = log.New(io.Discard)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset selects a preset by name. Unknown names fall back
// to the config file's own preset.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil || preset == "" {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// SetLogger routes match logging. A nil logger discards it.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

func init() {
	registry.Register(ModeVersus, "You command team 1 against three computer teams", func() registry.Game {
		return New()
	})
	registry.Register(ModeDemo, "Every team is computer controlled", func() registry.Game {
		return NewDemo()
	})
}

// Game adapts a match session to the platform's Game interface.
type Game struct {
	allComputer bool
	preset      config.DifficultyPreset // overrides the CLI preset when set

	cfg     config.ArtilleryConfig
	cfgErr  error
	runtime core.RuntimeConfig
	session *match.Session
	engine  *ai.Engine

	paused bool

	// Terminals send presses only, so held keys are emulated.
	aimLeftHold  int
	aimRightHold int
	charging     bool
}

// New creates the player-versus-computer mode.
func New() *Game {
	return &Game{}
}

// NewDemo creates the all-computer mode.
func NewDemo() *Game {
	return &Game{allComputer: true}
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	if g.allComputer {
		return ModeDemo
	}
	return ModeVersus
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.allComputer {
		return "Artillery (CPU demo)"
	}
	return "Artillery"
}

// SetDifficulty selects a preset for this game only. SSH sessions use it
// so each player keeps their own choice.
func (g *Game) SetDifficulty(preset string) {
	if p, err := config.ParsePreset(preset); err == nil && preset != "" {
		g.preset = p
	}
}

// loadConfig resolves the configuration for a new match. A broken custom
// file falls back to the defaults and is reported through ConfigError.
func loadConfig(preset config.DifficultyPreset) (config.ArtilleryConfig, error) {
	cfg, err := config.LoadArtillery(configPath)
	if err != nil {
		cfg = config.DefaultArtilleryConfig()
	}

	if preset == "" {
		preset = difficultyPreset
	}
	if preset == "" {
		preset, _ = config.ParsePreset(cfg.Difficulty.Preset)
	}
	if preset != "" {
		config.ApplyArtilleryPreset(&cfg, preset)
	}

	if verr := cfg.Validate(); verr != nil {
		return config.DefaultArtilleryConfig(), verr
	}
	return cfg, err
}

// Reset starts a new match seeded from the runtime config.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.cfg, g.cfgErr = loadConfig(g.preset)
	if g.cfgErr != nil {
		logger.Warn("using default config", "err", g.cfgErr)
	}
	g.start(runtime.Seed)
}

// ResetWith starts a match from an explicit configuration.
func (g *Game) ResetWith(cfg config.ArtilleryConfig, runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.cfg, g.cfgErr = cfg, nil
	g.start(runtime.Seed)
}

func (g *Game) start(seed int64) {
	// The opponent gets its own stream so its dice do not shift the
	// terrain and debris sequence.
	g.engine = ai.New(OpponentConfig(g.cfg), rand.New(rand.NewSource(seed^0x5eed)), logger)
	g.session = match.NewSession(MatchConfig(g.cfg, g.allComputer), seed,
		match.WithLogger(logger),
		match.WithOpponent(g.engine),
	)
	g.paused = false
	g.aimLeftHold, g.aimRightHold = 0, 0
	g.charging = false
}

// Step advances the match by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) && !g.session.GameOver() {
		g.paused = !g.paused
	}
	if !g.paused {
		g.session.Update(g.runtime.Dt(), g.intent(in))
		if g.charging && !g.session.Charging() && !g.session.ChargeQueued() {
			g.charging = false
		}
	}
	return core.StepResult{State: g.State()}
}

// intent maps one frame of key presses to a control intent.
func (g *Game) intent(in core.InputFrame) match.Intent {
	hold := g.cfg.Match.AimHoldFrames
	if in.Has(core.ActionAimLeft) {
		g.aimLeftHold, g.aimRightHold = hold, 0
	}
	if in.Has(core.ActionAimRight) {
		g.aimRightHold, g.aimLeftHold = hold, 0
	}

	var it match.Intent
	if g.aimLeftHold > 0 {
		it.AimLeft = true
		g.aimLeftHold--
	}
	if g.aimRightHold > 0 {
		it.AimRight = true
		g.aimRightHold--
	}

	it.Jump = in.Has(core.ActionJump)
	it.ToggleView = in.Has(core.ActionZoom)

	if in.Has(core.ActionFire) {
		if g.charging {
			it.ChargeRelease = true
			g.charging = false
		} else {
			it.ChargeStart = true
			g.charging = true
		}
	}
	if g.charging {
		it.ChargeHold = true
	}
	return it
}

// State returns the current status.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{Winner: core.NoWinner}
	}
	st := core.GameState{
		Phase:    g.session.State().String(),
		Turn:     g.session.Turns(),
		GameOver: g.session.State() == match.StateGameOver2,
		Winner:   core.NoWinner,
		Paused:   g.paused,
	}
	if st.GameOver {
		st.Winner = g.session.Winner()
	}
	return st
}

// Session exposes the running match.
func (g *Game) Session() *match.Session {
	return g.session
}

// Config returns the configuration of the running match.
func (g *Game) Config() config.ArtilleryConfig {
	return g.cfg
}

// ConfigError reports why the configured settings were replaced by
// defaults, if they were.
func (g *Game) ConfigError() error {
	return g.cfgErr
}

// MatchResult summarizes the finished match for the history store.
func (g *Game) MatchResult() storage.MatchResult {
	s := g.session
	r := storage.MatchResult{
		Mode:       g.ID(),
		Seed:       g.runtime.Seed,
		WinnerTeam: s.Winner(),
		Turns:      s.Turns(),
		Duration:   int(s.Elapsed()),
	}
	for i := 0; i < s.TeamCount(); i++ {
		r.Teams = append(r.Teams, storage.TeamResult{
			Team:       i,
			UnitsAlive: s.Team(i).Living(s.World()),
			Health:     s.TeamHealth(i),
		})
	}
	return r
}
