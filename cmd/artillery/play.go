package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-artillery/internal/core"
	"github.com/vovakirdan/tui-artillery/internal/platform/tui"
	"github.com/vovakirdan/tui-artillery/internal/registry"
	"github.com/vovakirdan/tui-artillery/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a match",
	Long: `Start a match of the given mode. Without a mode, a menu lets you
pick the mode and the opponent difficulty, and you return to it after
each match.

Controls:
  A/D, Left/Right  - Aim (hold for a short sweep)
  W/Z/Up           - Jump
  Space            - Start charging, press again to fire
  Tab              - Toggle the zoomed-out map
  P                - Pause
  B/Esc            - Back to menu (paused or game over)
  R                - New match (after game over)
  Ctrl+S           - Save a text screenshot
  Ctrl+Y           - Copy the frame to the clipboard
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Wide aim error, loose aim
  normal - Small aim error
  hard   - Exact aim
  fixed  - Use the config file's ai section as is

Examples:
  artillery play
  artillery play artillery --difficulty hard
  artillery play artillery_cpu --seed 7
  artillery play artillery --config ./my-artillery.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the history database. Matches still run without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		logger.Warn("history disabled", "err", err)
		return nil
	}
	return store
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := runtimeConfig()

	if len(args) == 1 && !registry.Exists(args[0]) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'artillery list' to see available modes.")
		os.Exit(1)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if len(args) == 1 {
		if _, err := playMode(args[0], flagDifficulty, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			os.Exit(1)
		}
		return
	}

	menuLoop(store, cfg)
}

// menuLoop shows the menu until the player quits.
func menuLoop(store *storage.Store, cfg core.RuntimeConfig) {
	preset := flagDifficulty
	for {
		result, err := tui.RunMenu(cfg, preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = result.Config
		preset = string(result.Difficulty)

		switch {
		case result.Quit:
			return

		case result.WantsHistory:
			goBack, err := tui.RunHistory(store, "", cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if !goBack {
				return
			}

		default:
			// Each match from the menu gets a fresh seed.
			if flagSeed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}
			back, err := playMode(result.GameID, preset, store, cfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
				continue
			}
			if !back {
				return
			}
		}
	}
}

// playMode runs one mode and reports whether the player went back to the
// menu.
func playMode(mode, preset string, store *storage.Store, cfg core.RuntimeConfig) (bool, error) {
	game, err := registry.Create(mode)
	if err != nil {
		return false, err
	}
	if ds, ok := game.(tui.DifficultySetter); ok {
		ds.SetDifficulty(preset)
	}

	logger.Info("starting match", "mode", mode, "difficulty", preset)
	return tui.Run(game, store, cfg, tui.WithLogger(logger), tui.WithClipboard(true))
}
