package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-artillery/internal/core"
	"github.com/vovakirdan/tui-artillery/internal/registry"
	"github.com/vovakirdan/tui-artillery/internal/storage"
)

// MatchRecorder is implemented by games that can summarize a finished
// match for the history store.
type MatchRecorder interface {
	MatchResult() storage.MatchResult
}

// DifficultySetter is implemented by games with a per-instance preset.
type DifficultySetter interface {
	SetDifficulty(preset string)
}

// noticeTicks is how long a status notice stays on screen.
const noticeTicks = 120

// Model is the Bubble Tea model that runs one game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState

	clipboard bool // ctrl+y copies to the local clipboard
	embedded  bool // back returns to a parent model instead of quitting

	notice      string
	noticeLeft  int
	resultSaved bool
	lastMatchID string

	quitting   bool
	backToMenu bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithLogger sets the logger for platform events.
func WithLogger(l *log.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClipboard enables copying frames to the system clipboard.
func WithClipboard(enabled bool) ModelOption {
	return func(m *Model) {
		m.clipboard = enabled
	}
}

// withEmbedded marks a model that runs inside a SessionModel.
func withEmbedded() ModelOption {
	return func(m *Model) {
		m.embedded = true
	}
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     log.New(io.Discard),
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.logger.Info("match started", "mode", m.game.ID(), "seed", m.config.Seed)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The map does not depend on the screen, so a resize keeps the match.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	switch {
	case m.inputFrame.Has(core.ActionScreenshot):
		m.saveScreenshot()
	case m.inputFrame.Has(core.ActionCopy):
		m.copyFrame()
	case m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused):
		m.backToMenu = true
		if !m.embedded {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.resultSaved = false
		m.inputFrame.Clear()
		m.logger.Info("match restarted", "mode", m.game.ID(), "seed", m.config.Seed)
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.resultSaved {
		m.saveResult()
		m.resultSaved = true
	}

	if m.noticeLeft > 0 {
		m.noticeLeft--
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveResult records the finished match. Failures are logged; the game
// goes on.
func (m *Model) saveResult() {
	m.logger.Info("match over", "mode", m.game.ID(), "winner", m.gameState.Winner, "turns", m.gameState.Turn)

	rec, ok := m.game.(MatchRecorder)
	if !ok || m.store == nil {
		return
	}
	r := rec.MatchResult()
	if r.Seed == 0 {
		r.Seed = m.config.Seed
	}
	id, err := m.store.SaveMatch(r)
	if err != nil {
		m.logger.Error("could not save match", "err", err)
		return
	}
	m.lastMatchID = id
	m.logger.Debug("match saved", "match_id", id)
}

func (m *Model) flash(format string, args ...any) {
	m.notice = fmt.Sprintf(format, args...)
	m.noticeLeft = noticeTicks
}

// frame draws the game into the screen buffer.
func (m *Model) frame() {
	m.screen.Clear()
	m.game.Render(m.screen)
}

// saveScreenshot writes the current frame as plain text under
// ~/.artillery/screenshots.
func (m *Model) saveScreenshot() {
	m.frame()

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}
	dir := filepath.Join(home, ".artillery", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}
	m.flash("saved %s", name)
}

// copyFrame puts the current frame on the system clipboard.
func (m *Model) copyFrame() {
	if !m.clipboard {
		m.flash("clipboard not available")
		return
	}
	m.frame()
	if err := clipboard.WriteAll(m.screen.String()); err != nil {
		m.logger.Warn("copy failed", "err", err)
		m.flash("copy failed")
		return
	}
	m.flash("frame copied")
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.frame()
	if m.noticeLeft > 0 && m.screen.Height() > 1 {
		m.screen.DrawTextColored(1, m.screen.Height()-2, m.notice, core.ColorBrightCyan)
	}
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// LastMatchID returns the history ID of the last saved match.
func (m Model) LastMatchID() string {
	return m.lastMatchID
}

// Run plays one game in the terminal. It returns when the player quits or
// goes back to the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) (backToMenu bool, err error) {
	model := NewModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if fm, ok := final.(Model); ok {
		return fm.BackToMenu(), nil
	}
	return false, nil
}
