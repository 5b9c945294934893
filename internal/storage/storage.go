// Package storage persists the sessions, streaks and settings collections.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store is the persisted home of the tracker's collections. Loads of missing
// data return empty collections or default settings, never an error.
type Store interface {
	LoadDay(ctx context.Context, date string) ([]model.Session, error)
	SaveDay(ctx context.Context, date string, sessions []model.Session) error
	// LoadRange returns all sessions dated within [from, to], ordered by date.
	LoadRange(ctx context.Context, from, to string) ([]model.Session, error)
	LoadStreaks(ctx context.Context) ([]model.Streak, error)
	SaveStreaks(ctx context.Context, streaks []model.Streak) error
	LoadSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error
	Close() error
}

// BaseDir returns the root data directory (~/.fst).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".fst"), nil
}

// Open returns the Store for backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(dir), nil
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, "fst.db"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
