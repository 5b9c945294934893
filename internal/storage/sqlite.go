package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
)

// SQLiteStore keeps the collections in a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)
	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  site_id TEXT NOT NULL,
  date TEXT NOT NULL,
  active_minutes REAL NOT NULL,
  position INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date, position);
CREATE TABLE IF NOT EXISTS streaks (
  site_id TEXT PRIMARY KEY,
  length INTEGER NOT NULL,
  last_date TEXT NOT NULL,
  frozen_days_left INTEGER,
  position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  data TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadDay(ctx context.Context, date string) ([]model.Session, error) {
	return s.querySessions(ctx, `
SELECT id, site_id, date, active_minutes FROM sessions
WHERE date = ? ORDER BY position;`, date)
}

// SaveDay replaces all sessions stored for date.
func (s *SQLiteStore) SaveDay(ctx context.Context, date string, sessions []model.Session) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE date = ?;`, date); err != nil {
			return fmt.Errorf("clear sessions for %s: %w", date, err)
		}
		for i, sess := range sessions {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO sessions (id, site_id, date, active_minutes, position)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET active_minutes = excluded.active_minutes, position = excluded.position;`,
				sess.ID, sess.SiteID, date, sess.ActiveMinutes, i); err != nil {
				return fmt.Errorf("upsert session %s: %w", sess.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) LoadRange(ctx context.Context, from, to string) ([]model.Session, error) {
	return s.querySessions(ctx, `
SELECT id, site_id, date, active_minutes FROM sessions
WHERE date >= ? AND date <= ? ORDER BY date, position;`, from, to)
}

func (s *SQLiteStore) querySessions(ctx context.Context, query string, args ...any) ([]model.Session, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		var sess model.Session
		if err := rows.Scan(&sess.ID, &sess.SiteID, &sess.Date, &sess.ActiveMinutes); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) LoadStreaks(ctx context.Context) ([]model.Streak, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT site_id, length, last_date, frozen_days_left FROM streaks ORDER BY position;`)
	if err != nil {
		return nil, fmt.Errorf("query streaks: %w", err)
	}
	defer rows.Close()

	streaks := []model.Streak{}
	for rows.Next() {
		var st model.Streak
		var frozen sql.NullInt64
		if err := rows.Scan(&st.SiteID, &st.Length, &st.LastDate, &frozen); err != nil {
			return nil, fmt.Errorf("scan streak: %w", err)
		}
		if frozen.Valid {
			v := int(frozen.Int64)
			st.FrozenDaysLeft = &v
		}
		streaks = append(streaks, st)
	}
	return streaks, rows.Err()
}

// SaveStreaks replaces the stored streak collection.
func (s *SQLiteStore) SaveStreaks(ctx context.Context, streaks []model.Streak) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM streaks;`); err != nil {
			return fmt.Errorf("clear streaks: %w", err)
		}
		for i, st := range streaks {
			var frozen sql.NullInt64
			if st.FrozenDaysLeft != nil {
				frozen = sql.NullInt64{Int64: int64(*st.FrozenDaysLeft), Valid: true}
			}
			if _, err := tx.ExecContext(ctx, `
INSERT INTO streaks (site_id, length, last_date, frozen_days_left, position)
VALUES (?, ?, ?, ?, ?);`, st.SiteID, st.Length, st.LastDate, frozen, i); err != nil {
				return fmt.Errorf("insert streak %s: %w", st.SiteID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (model.Settings, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1;`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.DefaultSettings(), fmt.Errorf("query settings: %w", err)
	}
	settings := model.DefaultSettings()
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return model.DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, settings model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
INSERT INTO settings (id, data) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET data = excluded.data;`, string(data)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
