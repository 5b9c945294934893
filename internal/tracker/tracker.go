// Package tracker is the host service around the pure activity core: it
// serializes read-modify-write cycles against the store, persists results and
// raises notifications.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/focus-streak-tracker/internal/activity"
	"github.com/Tiliavir/focus-streak-tracker/internal/cache"
	"github.com/Tiliavir/focus-streak-tracker/internal/metrics"
	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/notify"
	"github.com/Tiliavir/focus-streak-tracker/internal/timecalc"
)

var (
	// ErrInvalidSlot is returned for activity slots that cannot be recorded.
	ErrInvalidSlot = errors.New("invalid activity slot")
	// ErrInvalidDate is returned for malformed date keys.
	ErrInvalidDate = errors.New("invalid date")
)

// Tracker records activity and raises streak and focus notifications.
type Tracker struct {
	mu         sync.Mutex
	state      *cache.StateCache
	dispatcher *notify.Dispatcher
	log        *zap.SugaredLogger
	now        func() time.Time

	warnMu sync.Mutex
	warned map[string]struct{}

	focusMu sync.Mutex
	focus   *focusTimer
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates a Tracker.
func New(state *cache.StateCache, dispatcher *notify.Dispatcher, log *zap.SugaredLogger, opts ...Option) *Tracker {
	t := &Tracker{
		state:      state,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
		warned:     map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordSlot folds one activity slot into the stored sessions and streaks and
// returns the slot's day together with all streaks. A zero Timestamp is taken
// as the current time.
func (t *Tracker) RecordSlot(ctx context.Context, slot model.ActivitySlot) (model.State, error) {
	slot.SiteID = strings.TrimSpace(slot.SiteID)
	if slot.SiteID == "" {
		return model.State{}, fmt.Errorf("%w: missing site id", ErrInvalidSlot)
	}
	if slot.DurationSec < 0 {
		return model.State{}, fmt.Errorf("%w: negative duration %v", ErrInvalidSlot, slot.DurationSec)
	}
	if slot.Timestamp == 0 {
		slot.Timestamp = t.now().UnixMilli()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	settings, err := t.state.Settings(ctx)
	if err != nil {
		return model.State{}, fmt.Errorf("loading settings: %w", err)
	}
	date := timecalc.ToDateKey(slot.Timestamp, settings.TZ)
	sessions, err := t.state.Sessions(ctx, date)
	if err != nil {
		return model.State{}, fmt.Errorf("loading sessions for %s: %w", date, err)
	}
	streaks, err := t.state.Streaks(ctx)
	if err != nil {
		return model.State{}, fmt.Errorf("loading streaks: %w", err)
	}

	next := activity.MergeActivitySlot(slot, model.State{Sessions: sessions, Streaks: streaks}, settings)

	if err := t.state.SaveDay(ctx, date, next.Sessions); err != nil {
		return model.State{}, fmt.Errorf("saving sessions for %s: %w", date, err)
	}
	if err := t.state.SaveStreaks(ctx, next.Streaks); err != nil {
		// Put the day back so a retried slot is not counted twice.
		if rerr := t.state.SaveDay(ctx, date, sessions); rerr != nil {
			t.log.Errorw("restoring sessions failed", "date", date, "error", rerr)
			return model.State{}, fmt.Errorf("saving streaks: %w (restoring sessions for %s: %w)", err, date, rerr)
		}
		return model.State{}, fmt.Errorf("saving streaks: %w", err)
	}

	metrics.RecordSlot(slot.SiteID, slot.DurationSec/60, time.UnixMilli(slot.Timestamp))
	if st, ok := activity.FindStreak(next.Streaks, slot.SiteID); ok {
		metrics.RecordStreak(slot.SiteID, st.Length)
	}
	t.log.Debugw("activity slot merged", "site", slot.SiteID, "date", date, "duration_sec", slot.DurationSec)
	return next, nil
}

// State returns the sessions of date (today in the configured offset when
// empty) and all streaks.
func (t *Tracker) State(ctx context.Context, date string) (model.State, error) {
	if date == "" {
		settings, err := t.state.Settings(ctx)
		if err != nil {
			return model.State{}, err
		}
		date = timecalc.Today(t.now(), settings.TZ)
	} else if _, err := timecalc.ParseDateKey(date); err != nil {
		return model.State{}, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	sessions, err := t.state.Sessions(ctx, date)
	if err != nil {
		return model.State{}, err
	}
	streaks, err := t.state.Streaks(ctx)
	if err != nil {
		return model.State{}, err
	}
	return model.State{Sessions: sessions, Streaks: streaks}, nil
}

// Settings returns the current settings.
func (t *Tracker) Settings(ctx context.Context) (model.Settings, error) {
	return t.state.Settings(ctx)
}

// SaveSettings validates and persists settings.
func (t *Tracker) SaveSettings(ctx context.Context, settings model.Settings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.SaveSettings(ctx, settings)
}

// UpdateSettings applies fn to the current settings, validates the result and
// persists it. Concurrent updates do not lose each other's changes.
func (t *Tracker) UpdateSettings(ctx context.Context, fn func(model.Settings) (model.Settings, error)) (model.Settings, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, err := t.state.Settings(ctx)
	if err != nil {
		return model.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	next, err := fn(current)
	if err != nil {
		return model.Settings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if err := ValidateSettings(next); err != nil {
		return model.Settings{}, err
	}
	if err := t.state.SaveSettings(ctx, next); err != nil {
		return model.Settings{}, err
	}
	return next, nil
}

// QuietStatus evaluates quiet hours at the current time.
func (t *Tracker) QuietStatus(ctx context.Context) (notify.QuietStatus, error) {
	settings, err := t.state.Settings(ctx)
	if err != nil {
		return notify.QuietStatus{}, err
	}
	return notify.EvaluateQuietHours(settings, t.now()), nil
}

// Refresh reloads cached state from the store.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Refresh(ctx)
}
