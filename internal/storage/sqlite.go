// Package storage provides SQLite-based persistence for match history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// NoWinner is stored as a NULL winner: every team was wiped out.
const NoWinner = -1

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// MatchResult is the outcome of one finished match.
type MatchResult struct {
	ID         int64
	MatchID    string
	Mode       string // registered game ID, e.g. "artillery"
	Seed       int64
	WinnerTeam int // NoWinner for a draw
	Turns      int
	Duration   int // Duration in seconds
	CreatedAt  time.Time

	Teams []TeamResult
}

// TeamResult is one team's standing at the end of a match.
type TeamResult struct {
	Team       int
	UnitsAlive int
	Health     float64 // 0..1 of a full roster
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			mode TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			winner_team INTEGER,
			turns INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_mode ON matches(mode);

		CREATE TABLE IF NOT EXISTS team_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL REFERENCES matches(match_id) ON DELETE CASCADE,
			team INTEGER NOT NULL,
			units_alive INTEGER NOT NULL DEFAULT 0,
			health REAL NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_team_results_match ON team_results(match_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a match and its team standings in one transaction.
// A missing MatchID is filled with a fresh UUID. Returns the match ID.
func (s *Store) SaveMatch(r MatchResult) (string, error) {
	if r.MatchID == "" {
		r.MatchID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	var winner sql.NullInt64
	if r.WinnerTeam != NoWinner {
		winner = sql.NullInt64{Int64: int64(r.WinnerTeam), Valid: true}
	}

	if _, err := tx.Exec(
		`INSERT INTO matches (match_id, mode, seed, winner_team, turns, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.MatchID, r.Mode, r.Seed, winner, r.Turns, r.Duration,
	); err != nil {
		return "", fmt.Errorf("storage: cannot save match: %w", err)
	}

	for _, t := range r.Teams {
		if _, err := tx.Exec(
			`INSERT INTO team_results (match_id, team, units_alive, health) VALUES (?, ?, ?, ?)`,
			r.MatchID, t.Team, t.UnitsAlive, t.Health,
		); err != nil {
			return "", fmt.Errorf("storage: cannot save team %d: %w", t.Team, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit match: %w", err)
	}
	return r.MatchID, nil
}

const matchColumns = `id, match_id, mode, seed, winner_team, turns, duration_secs, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (MatchResult, error) {
	var r MatchResult
	var winner sql.NullInt64
	var createdAt any
	if err := row.Scan(&r.ID, &r.MatchID, &r.Mode, &r.Seed, &winner, &r.Turns, &r.Duration, &createdAt); err != nil {
		return r, err
	}
	r.WinnerTeam = NoWinner
	if winner.Valid {
		r.WinnerTeam = int(winner.Int64)
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// MatchByID retrieves a match with its team standings. Returns nil when
// the match is unknown.
func (s *Store) MatchByID(matchID string) (*MatchResult, error) {
	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE match_id = ?`, matchID)
	r, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}

	r.Teams, err = s.TeamResults(matchID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RecentMatches retrieves the newest matches, optionally for one mode.
// Team standings are not loaded; use TeamResults.
func (s *Store) RecentMatches(mode string, limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows *sql.Rows
		err  error
	)
	if mode == "" {
		rows, err = s.db.Query(
			`SELECT `+matchColumns+` FROM matches ORDER BY created_at DESC, id DESC LIMIT ?`,
			limit,
		)
	} else {
		rows, err = s.db.Query(
			`SELECT `+matchColumns+` FROM matches WHERE mode = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
			mode, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		r, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// TeamResults retrieves the team standings of a match, ordered by team.
func (s *Store) TeamResults(matchID string) ([]TeamResult, error) {
	rows, err := s.db.Query(
		`SELECT team, units_alive, health FROM team_results WHERE match_id = ? ORDER BY team`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query team results: %w", err)
	}
	defer rows.Close()

	var results []TeamResult
	for rows.Next() {
		var t TeamResult
		if err := rows.Scan(&t.Team, &t.UnitsAlive, &t.Health); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// WinCounts returns how many matches each team has won, optionally for one
// mode. Draws are not counted.
func (s *Store) WinCounts(mode string) (map[int]int, error) {
	query := `SELECT winner_team, COUNT(*) FROM matches WHERE winner_team IS NOT NULL`
	args := []any{}
	if mode != "" {
		query += ` AND mode = ?`
		args = append(args, mode)
	}
	query += ` GROUP BY winner_team`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count wins: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var team, wins int
		if err := rows.Scan(&team, &wins); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		counts[team] = wins
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return counts, nil
}

// ClearMatches deletes the history of a mode, or all history for "".
func (s *Store) ClearMatches(mode string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	where, args := "", []any{}
	if mode != "" {
		where, args = " WHERE mode = ?", []any{mode}
	}
	if _, err := tx.Exec(
		`DELETE FROM team_results WHERE match_id IN (SELECT match_id FROM matches`+where+`)`, args...,
	); err != nil {
		return fmt.Errorf("storage: cannot clear team results: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM matches`+where, args...); err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// ModeStats contains aggregated statistics for a mode.
type ModeStats struct {
	Mode        string
	Matches     int
	Draws       int
	AvgTurns    float64
	AvgDuration float64
	LastPlayed  time.Time
}

// Stats retrieves aggregated statistics for a mode.
func (s *Store) Stats(mode string) (*ModeStats, error) {
	stats := &ModeStats{Mode: mode}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN winner_team IS NULL THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(turns), 0), COALESCE(AVG(duration_secs), 0), MAX(created_at)
		 FROM matches WHERE mode = ?`,
		mode,
	).Scan(&stats.Matches, &stats.Draws, &stats.AvgTurns, &stats.AvgDuration, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}
