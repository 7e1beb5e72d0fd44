// artillery is a turn-based artillery game for the terminal.
//
// Usage:
//
//	artillery list               - List available modes
//	artillery play [mode]        - Play a mode, or pick one from the menu
//	artillery history [mode]     - Show finished matches
//	artillery simulate           - Run a computer-only match headless
//	artillery serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible matches
//	--db <path>           - Set database path (default: ~/.artillery/history.db)
//	--config <path>       - Use a custom artillery.yaml
//	--difficulty <name>   - Opponent preset: easy, normal, hard, fixed
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-artillery/internal/config"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

var (
	logger *log.Logger

	// logFile is closed on exit when --log-file is set.
	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "artillery",
	Short: "Artillery - turn-based team battles in your terminal",
	Long: `Artillery is a turn-based game on destructible terrain. Teams take
turns to move one unit and fire a single charged shot; the last team
standing wins.

Available commands:
  list      - Show all available modes
  play      - Play a mode directly, or pick one from the menu
  history   - View finished matches
  simulate  - Run a computer-only match without a terminal
  serve     - Start SSH server for remote play

Examples:
  artillery play
  artillery play artillery --difficulty hard
  artillery simulate --seed 42 --frames 20000
  artillery serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.artillery/history.db", "Path to match history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom artillery config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Opponent preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup validates the shared flags and hands them to the game package.
func setup(cmd *cobra.Command, _ []string) error {
	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}

	l, err := newLogger(cmd.Name())
	if err != nil {
		return err
	}
	logger = l

	artillery.SetConfigPath(flagConfig)
	artillery.SetDifficultyPreset(flagDifficulty)
	artillery.SetLogger(logger)
	return nil
}

// newLogger builds the process logger. Interactive play owns the terminal,
// so it only logs when --log-file is given.
func newLogger(command string) (*log.Logger, error) {
	level, err := log.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var w io.Writer = os.Stderr
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		w = f
	case command == "play":
		w = io.Discard
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "artillery",
		Level:           level,
	}), nil
}
