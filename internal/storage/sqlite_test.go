package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id, err := store.SaveMatch(MatchResult{Mode: "artillery", WinnerTeam: 1, Turns: 9})
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	m, err := store.MatchByID(id)
	if err != nil || m == nil {
		t.Fatalf("MatchByID() = %v, %v", m, err)
	}
	if m.Turns != 9 {
		t.Errorf("turns = %d, want 9", m.Turns)
	}
}

func TestSaveMatchRoundTrip(t *testing.T) {
	store := openTestStore(t)

	in := MatchResult{
		Mode:       "artillery",
		Seed:       1234,
		WinnerTeam: 2,
		Turns:      17,
		Duration:   240,
		Teams: []TeamResult{
			{Team: 0, UnitsAlive: 0, Health: 0},
			{Team: 1, UnitsAlive: 0, Health: 0},
			{Team: 2, UnitsAlive: 3, Health: 0.55},
		},
	}
	id, err := store.SaveMatch(in)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveMatch() should assign a match ID")
	}

	got, err := store.MatchByID(id)
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("saved match not found")
	}
	if got.Mode != in.Mode || got.Seed != in.Seed || got.WinnerTeam != 2 || got.Turns != 17 || got.Duration != 240 {
		t.Errorf("match = %+v", *got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
	if len(got.Teams) != 3 {
		t.Fatalf("got %d team results, want 3", len(got.Teams))
	}
	if got.Teams[2] != in.Teams[2] {
		t.Errorf("team 2 = %+v, want %+v", got.Teams[2], in.Teams[2])
	}
}

func TestSaveMatchDraw(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveMatch(MatchResult{Mode: "artillery_cpu", WinnerTeam: NoWinner})
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	m, err := store.MatchByID(id)
	if err != nil || m == nil {
		t.Fatalf("MatchByID() = %v, %v", m, err)
	}
	if m.WinnerTeam != NoWinner {
		t.Errorf("winner = %d, want NoWinner", m.WinnerTeam)
	}
}

func TestSaveMatchDuplicateIDFails(t *testing.T) {
	store := openTestStore(t)

	r := MatchResult{MatchID: "fixed-id", Mode: "artillery", Teams: []TeamResult{{Team: 0}}}
	if _, err := store.SaveMatch(r); err != nil {
		t.Fatalf("first SaveMatch() failed: %v", err)
	}
	if _, err := store.SaveMatch(r); err == nil {
		t.Fatal("duplicate match ID should fail")
	}

	// The failed save must not leave extra team rows behind.
	teams, err := store.TeamResults("fixed-id")
	if err != nil {
		t.Fatalf("TeamResults() failed: %v", err)
	}
	if len(teams) != 1 {
		t.Errorf("got %d team rows, want 1", len(teams))
	}
}

func TestMatchByIDUnknown(t *testing.T) {
	store := openTestStore(t)

	m, err := store.MatchByID("nope")
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if m != nil {
		t.Error("unknown match should be nil")
	}
}

func TestRecentMatchesAndWinCounts(t *testing.T) {
	store := openTestStore(t)

	results := []MatchResult{
		{Mode: "artillery", WinnerTeam: 0, Turns: 1},
		{Mode: "artillery", WinnerTeam: 1, Turns: 2},
		{Mode: "artillery", WinnerTeam: 0, Turns: 3},
		{Mode: "artillery", WinnerTeam: NoWinner, Turns: 4},
		{Mode: "artillery_cpu", WinnerTeam: 3, Turns: 5},
	}
	for _, r := range results {
		if _, err := store.SaveMatch(r); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	recent, err := store.RecentMatches("artillery", 3)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("got %d matches, want 3", len(recent))
	}
	// Same-second inserts fall back to insertion order, newest first.
	if recent[0].Turns != 4 || recent[2].Turns != 2 {
		t.Errorf("unexpected order: %d, %d, %d", recent[0].Turns, recent[1].Turns, recent[2].Turns)
	}

	all, err := store.RecentMatches("", 0)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("got %d matches across modes, want 5", len(all))
	}

	wins, err := store.WinCounts("artillery")
	if err != nil {
		t.Fatalf("WinCounts() failed: %v", err)
	}
	if wins[0] != 2 || wins[1] != 1 || len(wins) != 2 {
		t.Errorf("wins = %v, want map[0:2 1:1]", wins)
	}

	allWins, err := store.WinCounts("")
	if err != nil {
		t.Fatalf("WinCounts() failed: %v", err)
	}
	if allWins[3] != 1 {
		t.Errorf("all-mode wins = %v, want team 3 with 1", allWins)
	}
}

func TestStatsAndClear(t *testing.T) {
	store := openTestStore(t)

	for _, turns := range []int{4, 8} {
		if _, err := store.SaveMatch(MatchResult{
			Mode: "artillery", WinnerTeam: NoWinner, Turns: turns, Duration: turns * 10,
			Teams: []TeamResult{{Team: 0}, {Team: 1}},
		}); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	stats, err := store.Stats("artillery")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Matches != 2 || stats.Draws != 2 || stats.AvgTurns != 6 || stats.AvgDuration != 60 {
		t.Errorf("stats = %+v", *stats)
	}

	if err := store.ClearMatches("artillery"); err != nil {
		t.Fatalf("ClearMatches() failed: %v", err)
	}
	recent, err := store.RecentMatches("artillery", 10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("got %d matches after clear, want 0", len(recent))
	}

	empty, err := store.Stats("artillery")
	if err != nil {
		t.Fatalf("Stats() on empty history failed: %v", err)
	}
	if empty.Matches != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", *empty)
	}
}
