package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/timecalc"
)

// FileStore keeps one human-readable JSON file per local date plus
// streaks.json and settings.json.
type FileStore struct {
	base string
}

// NewFileStore creates a FileStore rooted at base.
func NewFileStore(base string) *FileStore {
	return &FileStore{base: base}
}

// dayFilePath returns the path for the given date's JSON file.
func (s *FileStore) dayFilePath(date string) (string, error) {
	t, err := timecalc.ParseDateKey(date)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.base, t.Format("2006"), t.Format("01"), t.Format("02")+".json"), nil
}

// LoadDay loads the sessions for date. Returns no sessions if the file is missing.
func (s *FileStore) LoadDay(_ context.Context, date string) ([]model.Session, error) {
	path, err := s.dayFilePath(date)
	if err != nil {
		return nil, err
	}
	var df model.DayFile
	found, err := readJSON(path, &df)
	if err != nil {
		return nil, err
	}
	if !found || df.Sessions == nil {
		df.Sessions = []model.Session{}
	}
	return df.Sessions, nil
}

// SaveDay atomically writes the sessions for date.
func (s *FileStore) SaveDay(_ context.Context, date string, sessions []model.Session) error {
	path, err := s.dayFilePath(date)
	if err != nil {
		return err
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	return writeJSON(path, model.DayFile{Date: date, Sessions: sessions})
}

// LoadRange loads all sessions in [from, to] inclusive.
func (s *FileStore) LoadRange(ctx context.Context, from, to string) ([]model.Session, error) {
	start, err := timecalc.ParseDateKey(from)
	if err != nil {
		return nil, err
	}
	end, err := timecalc.ParseDateKey(to)
	if err != nil {
		return nil, err
	}
	var sessions []model.Session
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day, err := s.LoadDay(ctx, d.Format(timecalc.DateLayout))
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, day...)
	}
	return sessions, nil
}

func (s *FileStore) LoadStreaks(_ context.Context) ([]model.Streak, error) {
	streaks := []model.Streak{}
	if _, err := readJSON(filepath.Join(s.base, "streaks.json"), &streaks); err != nil {
		return nil, err
	}
	return streaks, nil
}

func (s *FileStore) SaveStreaks(_ context.Context, streaks []model.Streak) error {
	if streaks == nil {
		streaks = []model.Streak{}
	}
	return writeJSON(filepath.Join(s.base, "streaks.json"), streaks)
}

// LoadSettings returns the saved settings, or the defaults on first run.
// Fields missing from the file keep their default values.
func (s *FileStore) LoadSettings(_ context.Context) (model.Settings, error) {
	settings := model.DefaultSettings()
	if _, err := readJSON(filepath.Join(s.base, "settings.json"), &settings); err != nil {
		return model.DefaultSettings(), err
	}
	return settings, nil
}

func (s *FileStore) SaveSettings(_ context.Context, settings model.Settings) error {
	return writeJSON(filepath.Join(s.base, "settings.json"), settings)
}

func (s *FileStore) Close() error { return nil }

// readJSON decodes path into v. A missing file is reported as not found.
// A corrupt file is moved aside to <path>.corrupt.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return false, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return true, nil
}

// writeJSON atomically writes v as indented JSON.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
