// Package storage provides SQLite-based persistence for completed coin cycles.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/reaction-arcade/internal/reaction"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SessionEntry is one stored coin cycle.
type SessionEntry struct {
	ID              string
	GameID          string
	Player          string
	Games           int
	CumulativeTicks int
	AverageSeconds  float64
	TimedOut        int     // rounds that ended without a press
	RankSeconds     float64 // average with timeouts charged in full
	CreatedAt       time.Time
}

// RoundEntry is one stored game inside a session.
type RoundEntry struct {
	Game          int
	ReactionTicks int
	TimedOut      bool
}

// Summary aggregates every session of a game.
// Best and Mean use the rank average, so timeouts never improve them.
type Summary struct {
	Sessions int
	Best     float64 // lowest rank average, seconds
	Mean     float64 // mean of rank averages, seconds
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
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			games INTEGER NOT NULL,
			cumulative_ticks INTEGER NOT NULL,
			average_seconds REAL NOT NULL,
			timed_out INTEGER NOT NULL DEFAULT 0,
			rank_seconds REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS rounds (
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			game_no INTEGER NOT NULL,
			reaction_ticks INTEGER NOT NULL,
			timed_out INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, game_no)
		);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Ranking columns were added after the first schema; databases created
	// before them are upgraded in place.
	added := false
	for _, col := range []struct{ name, def string }{
		{"timed_out", "INTEGER NOT NULL DEFAULT 0"},
		{"rank_seconds", "REAL NOT NULL DEFAULT 0"},
	} {
		ok, err := s.hasColumn("sessions", col.name)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := s.db.Exec("ALTER TABLE sessions ADD COLUMN " + col.name + " " + col.def); err != nil {
			return err
		}
		added = true
	}
	if added {
		// Old rows: charge each timed-out round its recorded ticks, at the
		// session's own tick rate when it is known and 100/s otherwise.
		_, err := s.db.Exec(`
			UPDATE sessions SET
				timed_out = (SELECT COUNT(*) FROM rounds WHERE session_id = sessions.id AND rounds.timed_out = 1),
				rank_seconds = CASE
					WHEN games = 0 THEN 0
					WHEN cumulative_ticks > 0 THEN average_seconds *
						COALESCE((SELECT SUM(reaction_ticks) FROM rounds WHERE session_id = sessions.id), cumulative_ticks) / cumulative_ticks
					ELSE COALESCE((SELECT SUM(reaction_ticks) FROM rounds WHERE session_id = sessions.id), 0) / CAST(games AS REAL) / 100.0
				END`)
		if err != nil {
			return err
		}
	}

	_, err := s.db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_rank ON sessions(game_id, rank_seconds ASC)")
	return err
}

func (s *Store) hasColumn(table, column string) (bool, error) {
	rows, err := s.db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a completed coin cycle and its rounds in one transaction.
// Returns the generated session ID.
func (s *Store) SaveSession(gameID, player string, res reaction.SessionResult) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	_, err = tx.Exec(
		`INSERT INTO sessions (id, game_id, player, games, cumulative_ticks, average_seconds, timed_out, rank_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, gameID, player, res.GamesPlayed, res.CumulativeTicks, res.AverageSeconds, res.TimedOut, res.RankSeconds,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save session: %w", err)
	}

	for _, r := range res.Rounds {
		_, err = tx.Exec(
			"INSERT INTO rounds (session_id, game_no, reaction_ticks, timed_out) VALUES (?, ?, ?, ?)",
			id, r.Game, r.ReactionTicks, boolToInt(r.TimedOut),
		)
		if err != nil {
			return "", fmt.Errorf("storage: cannot save round %d: %w", r.Game, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit session: %w", err)
	}
	return id, nil
}

// BestSessions retrieves the top N sessions for the given game.
// Lower rank averages come first, then fewer timeouts, then the earlier session.
func (s *Store) BestSessions(gameID string, limit int) ([]SessionEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, player, games, cumulative_ticks, average_seconds, timed_out, rank_seconds, created_at
		 FROM sessions
		 WHERE game_id = ?
		 ORDER BY rank_seconds ASC, timed_out ASC, created_at ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var entries []SessionEntry
	for rows.Next() {
		var e SessionEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Player, &e.Games, &e.CumulativeTicks, &e.AverageSeconds, &e.TimedOut, &e.RankSeconds, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// SessionRounds returns the rounds of one session in play order.
func (s *Store) SessionRounds(sessionID string) ([]RoundEntry, error) {
	rows, err := s.db.Query(
		`SELECT game_no, reaction_ticks, timed_out
		 FROM rounds
		 WHERE session_id = ?
		 ORDER BY game_no`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}
	defer rows.Close()

	var entries []RoundEntry
	for rows.Next() {
		var r RoundEntry
		var timedOut int
		if err := rows.Scan(&r.Game, &r.ReactionTicks, &timedOut); err != nil {
			return nil, fmt.Errorf("storage: cannot scan round: %w", err)
		}
		r.TimedOut = timedOut != 0
		entries = append(entries, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// Summary aggregates all sessions of a game. Zero value if none exist.
func (s *Store) Summary(gameID string) (Summary, error) {
	var count int
	var best, mean sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT COUNT(*), MIN(rank_seconds), AVG(rank_seconds) FROM sessions WHERE game_id = ?",
		gameID,
	).Scan(&count, &best, &mean)
	if err != nil {
		return Summary{}, fmt.Errorf("storage: cannot query summary: %w", err)
	}

	return Summary{
		Sessions: count,
		Best:     best.Float64,
		Mean:     mean.Float64,
	}, nil
}

// ClearSessions deletes all sessions (and their rounds) for the given game.
func (s *Store) ClearSessions(gameID string) error {
	_, err := s.db.Exec(
		"DELETE FROM rounds WHERE session_id IN (SELECT id FROM sessions WHERE game_id = ?)",
		gameID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot clear rounds: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM sessions WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
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
