// Package cache holds the host's in-memory view of persisted state. Entries
// expire after a fixed write TTL, which bounds how stale a read can be when
// another process writes the same store; Refresh drops everything at once.
package cache

import (
	"context"
	"slices"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/storage"
)

// DefaultTTL is the staleness window used when none is configured.
const DefaultTTL = time.Minute

const (
	streaksKey  = "streaks"
	settingsKey = "settings"
)

// StateCache is a write-through cache in front of a storage.Store.
// Returned slices are copies and may be modified by callers.
type StateCache struct {
	store    storage.Store
	days     *otter.Cache[string, []model.Session]
	streaks  *otter.Cache[string, []model.Streak]
	settings *otter.Cache[string, model.Settings]
}

// New creates a StateCache whose entries go stale after ttl.
func New(store storage.Store, ttl time.Duration) *StateCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &StateCache{
		store: store,
		days: otter.Must(&otter.Options[string, []model.Session]{
			MaximumSize:      366,
			ExpiryCalculator: otter.ExpiryWriting[string, []model.Session](ttl),
		}),
		streaks: otter.Must(&otter.Options[string, []model.Streak]{
			MaximumSize:      1,
			ExpiryCalculator: otter.ExpiryWriting[string, []model.Streak](ttl),
		}),
		settings: otter.Must(&otter.Options[string, model.Settings]{
			MaximumSize:      1,
			ExpiryCalculator: otter.ExpiryWriting[string, model.Settings](ttl),
		}),
	}
}

// Sessions returns the sessions recorded for a date.
func (c *StateCache) Sessions(ctx context.Context, date string) ([]model.Session, error) {
	if v, ok := c.days.GetIfPresent(date); ok {
		return slices.Clone(v), nil
	}
	v, err := c.store.LoadDay(ctx, date)
	if err != nil {
		return nil, err
	}
	c.days.Set(date, v)
	return slices.Clone(v), nil
}

// Streaks returns all streaks.
func (c *StateCache) Streaks(ctx context.Context) ([]model.Streak, error) {
	if v, ok := c.streaks.GetIfPresent(streaksKey); ok {
		return cloneStreaks(v), nil
	}
	v, err := c.store.LoadStreaks(ctx)
	if err != nil {
		return nil, err
	}
	c.streaks.Set(streaksKey, v)
	return cloneStreaks(v), nil
}

// Settings returns the current settings.
func (c *StateCache) Settings(ctx context.Context) (model.Settings, error) {
	if v, ok := c.settings.GetIfPresent(settingsKey); ok {
		return cloneSettings(v), nil
	}
	v, err := c.store.LoadSettings(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	c.settings.Set(settingsKey, v)
	return cloneSettings(v), nil
}

// SaveDay persists sessions for date and caches them.
func (c *StateCache) SaveDay(ctx context.Context, date string, sessions []model.Session) error {
	if err := c.store.SaveDay(ctx, date, sessions); err != nil {
		c.days.Invalidate(date)
		return err
	}
	c.days.Set(date, slices.Clone(sessions))
	return nil
}

// SaveStreaks persists streaks and caches them.
func (c *StateCache) SaveStreaks(ctx context.Context, streaks []model.Streak) error {
	if err := c.store.SaveStreaks(ctx, streaks); err != nil {
		c.streaks.Invalidate(streaksKey)
		return err
	}
	c.streaks.Set(streaksKey, cloneStreaks(streaks))
	return nil
}

// SaveSettings persists settings and caches them.
func (c *StateCache) SaveSettings(ctx context.Context, settings model.Settings) error {
	if err := c.store.SaveSettings(ctx, settings); err != nil {
		c.settings.Invalidate(settingsKey)
		return err
	}
	c.settings.Set(settingsKey, cloneSettings(settings))
	return nil
}

// Refresh discards every cached entry and reloads settings and streaks.
func (c *StateCache) Refresh(ctx context.Context) error {
	c.days.InvalidateAll()
	c.streaks.InvalidateAll()
	c.settings.InvalidateAll()
	if _, err := c.Settings(ctx); err != nil {
		return err
	}
	_, err := c.Streaks(ctx)
	return err
}

func cloneStreaks(streaks []model.Streak) []model.Streak {
	out := slices.Clone(streaks)
	for i := range out {
		if out[i].FrozenDaysLeft != nil {
			v := *out[i].FrozenDaysLeft
			out[i].FrozenDaysLeft = &v
		}
	}
	return out
}

func cloneSettings(s model.Settings) model.Settings {
	s.QuietHours = slices.Clone(s.QuietHours)
	return s
}
