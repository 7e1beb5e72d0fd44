package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-artillery/internal/platform/tui"
	"github.com/vovakirdan/tui-artillery/internal/registry"
	"github.com/vovakirdan/tui-artillery/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
	flagClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [mode]",
	Short: "Show finished matches",
	Long: `Browse finished matches and win counts. Without --plain the
history opens as an interactive table.

Examples:
  artillery history
  artillery history artillery_cpu --plain
  artillery history artillery --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print the history instead of opening the table")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of matches to print with --plain")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded matches")
}

func runHistory(cmd *cobra.Command, args []string) {
	mode := ""
	if len(args) == 1 {
		mode = args[0]
		if !registry.Exists(mode) {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
			fmt.Fprintln(os.Stderr, "Run 'artillery list' to see available modes.")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearMatches(mode); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
	case flagPlain:
		if err := printHistory(store, mode); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
			os.Exit(1)
		}
	default:
		cfg := runtimeConfig()
		if _, err := tui.RunHistory(store, mode, cfg.ScreenW, cfg.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func printHistory(store *storage.Store, mode string) error {
	matches, err := store.RecentMatches(mode, flagLimit)
	if err != nil {
		return err
	}
	for i := range matches {
		if matches[i].Teams, err = store.TeamResults(matches[i].MatchID); err != nil {
			return err
		}
	}
	wins, err := store.WinCounts(mode)
	if err != nil {
		return err
	}

	title := "all modes"
	if mode != "" {
		title = mode
	}
	fmt.Printf("Match History - %s\n", title)
	fmt.Println()

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'artillery play' to record the first one!")
		return nil
	}

	fmt.Printf("  %-12s  %-8s  %-5s  %-7s  %s\n", "Date", "Winner", "Turns", "Time", "Survivors")
	fmt.Printf("  %-12s  %-8s  %-5s  %-7s  %s\n", "----", "------", "-----", "----", "---------")
	for _, row := range tui.HistoryRows(matches) {
		fmt.Printf("  %-12s  %-8s  %-5s  %-7s  %s\n", row[0], row[1], row[2], row[3], row[4])
	}

	fmt.Println()
	fmt.Printf("Wins: %s\n", tui.WinSummary(wins))

	if mode != "" {
		if stats, err := store.Stats(mode); err == nil && stats.Matches > 0 {
			fmt.Printf("Matches: %d  Draws: %d  Avg turns: %.1f  Avg time: %.0fs\n",
				stats.Matches, stats.Draws, stats.AvgTurns, stats.AvgDuration)
		}
	}
	return nil
}
