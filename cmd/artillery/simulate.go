package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-artillery/internal/core"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery"
	"github.com/vovakirdan/tui-artillery/internal/storage"
)

var (
	flagFrames int
	flagSave   bool
	flagShow   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a computer-only match without a terminal",
	Long: `Run the CPU demo mode headless as fast as possible and print the
outcome. The same seed and config always produce the same match.

Examples:
  artillery simulate --seed 42
  artillery simulate --seed 42 --frames 50000 --show
  artillery simulate --difficulty easy --save`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagFrames, "frames", 36000, "Frame limit before the match is abandoned")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Record the finished match in the history database")
	simulateCmd.Flags().BoolVar(&flagShow, "show", false, "Print the final frame")
}

func runSimulate(_ *cobra.Command, _ []string) {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: flagFPS, Seed: seed}

	game := artillery.NewDemo()
	game.Reset(cfg)
	if err := game.ConfigError(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: using default config: %v\n", err)
	}

	start := time.Now()
	in := core.NewInputFrame()
	frames := 0
	for ; frames < flagFrames && !game.State().GameOver; frames++ {
		game.Step(in)
	}
	logger.Debug("simulation finished", "frames", frames, "wall", time.Since(start))

	s := game.Session()
	result := game.MatchResult()

	fmt.Printf("Seed:    %d\n", seed)
	fmt.Printf("Frames:  %d (%.1fs of play)\n", frames, s.Elapsed())
	fmt.Printf("Turns:   %d\n", result.Turns)
	fmt.Printf("Shots:   %d\n", s.Shots())
	switch {
	case !game.State().GameOver:
		fmt.Println("Result:  unfinished after the frame limit")
	case result.WinnerTeam == storage.NoWinner:
		fmt.Println("Result:  no survivors")
	default:
		fmt.Printf("Result:  Team %d wins\n", result.WinnerTeam+1)
	}
	fmt.Println()
	for _, t := range result.Teams {
		fmt.Printf("  Team %d  units %d  health %3.0f%%\n", t.Team+1, t.UnitsAlive, t.Health*100)
	}

	if flagShow {
		screen := core.NewScreen(cfg.ScreenW, cfg.ScreenH)
		game.Render(screen)
		fmt.Println()
		fmt.Println(screen.String())
	}

	if flagSave && game.State().GameOver {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		id, err := store.SaveMatch(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving match: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nSaved as %s\n", id)
	}
}
