// Package storage provides SQLite-based persistence for session results
// and brainprint profiles. Uses the pure-Go modernc.org/sqlite driver to
// avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/corticalab/neuroplay/internal/brainprint"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SessionRecord is one persisted game session result.
type SessionRecord struct {
	ID         int64
	SessionID  string
	GameID     string
	UserID     string
	Mode       string
	Score      int
	DurationMs int64
	CreatedAt  time.Time
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
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			game_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			score INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_game ON sessions(game_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS brainprint (
			user_id TEXT NOT NULL,
			dimension_id TEXT NOT NULL,
			score REAL NOT NULL,
			sample_count INTEGER NOT NULL,
			PRIMARY KEY (user_id, dimension_id)
		);
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

// SaveSession records one completed game session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions (session_id, game_id, user_id, mode, score, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.GameID, rec.UserID, rec.Mode, rec.Score, rec.DurationMs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions retrieves the most recent session records for a game.
func (s *Store) RecentSessions(gameID string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, game_id, user_id, mode, score, duration_ms, created_at
		 FROM sessions
		 WHERE game_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var createdAt any
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.GameID, &rec.UserID,
			&rec.Mode, &rec.Score, &rec.DurationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.CreatedAt = parseTimestamp(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	Sessions   int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0)
		 FROM sessions WHERE game_id = ?`,
		gameID,
	).Scan(&stats.Sessions, &stats.HighScore, &stats.AvgScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM sessions WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// LoadProfile implements brainprint.ProfileStore. A user with no stored
// profile gets an empty map, not an error.
func (s *Store) LoadProfile(userID string) (map[string]brainprint.Dimension, error) {
	rows, err := s.db.Query(
		`SELECT dimension_id, score, sample_count FROM brainprint WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query profile: %w", err)
	}
	defer rows.Close()

	dims := make(map[string]brainprint.Dimension)
	for rows.Next() {
		var d brainprint.Dimension
		if err := rows.Scan(&d.ID, &d.Score, &d.SampleCount); err != nil {
			return nil, fmt.Errorf("storage: cannot scan dimension: %w", err)
		}
		dims[d.ID] = d
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return dims, nil
}

// SaveProfile implements brainprint.ProfileStore, upserting every
// dimension of the profile.
func (s *Store) SaveProfile(userID string, dims map[string]brainprint.Dimension) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}

	for _, d := range dims {
		_, err := tx.Exec(
			`INSERT INTO brainprint (user_id, dimension_id, score, sample_count)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(user_id, dimension_id)
			 DO UPDATE SET score = excluded.score, sample_count = excluded.sample_count`,
			userID, d.ID, d.Score, d.SampleCount,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("storage: cannot upsert dimension %q: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit profile: %w", err)
	}
	return nil
}

// Ensure Store implements ProfileStore
var _ brainprint.ProfileStore = (*Store)(nil)

// parseTimestamp handles both time.Time and string datetime columns.
func parseTimestamp(v any) time.Time {
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
