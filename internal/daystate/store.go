// Package daystate persists the last observed local day per user and turns a
// change of day or zone into a regeneration signal.
package daystate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/clock"
)

// Store holds one DayStamp per user.
type Store interface {
	Load(ctx context.Context, userID int64) (clock.DayStamp, bool, error)
	Save(ctx context.Context, userID int64, stamp clock.DayStamp) error
}

// SQLiteStore keeps day stamps in a small local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. ":memory:" is accepted
// for tests.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open day state database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set WAL mode: %w", err)
		}
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS day_stamps (
			user_id    INTEGER PRIMARY KEY,
			day_key    TEXT NOT NULL,
			zone       TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create day_stamps table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns the stored stamp; ok is false when none exists yet.
func (s *SQLiteStore) Load(ctx context.Context, userID int64) (clock.DayStamp, bool, error) {
	var stamp clock.DayStamp
	err := s.db.QueryRowContext(ctx,
		`SELECT day_key, zone FROM day_stamps WHERE user_id = ?`, userID,
	).Scan(&stamp.Key, &stamp.Zone)
	if errors.Is(err, sql.ErrNoRows) {
		return clock.DayStamp{}, false, nil
	}
	if err != nil {
		return clock.DayStamp{}, false, fmt.Errorf("failed to load day stamp: %w", err)
	}
	return stamp, true, nil
}

// Save upserts the stamp for userID.
func (s *SQLiteStore) Save(ctx context.Context, userID int64, stamp clock.DayStamp) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO day_stamps (user_id, day_key, zone, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			day_key = excluded.day_key,
			zone = excluded.zone,
			updated_at = excluded.updated_at
	`, userID, stamp.Key, stamp.Zone, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save day stamp: %w", err)
	}
	return nil
}
