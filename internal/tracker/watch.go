package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/notify"
)

// Warning is the result of one streak-expiry notification attempt.
type Warning struct {
	SiteID   string         `json:"siteId"`
	Length   int            `json:"length"`
	LastDate string         `json:"lastDate"`
	Outcome  notify.Outcome `json:"outcome"`
}

// CheckStreaks warns about every streak inside its expiry window. Each
// (site, last date) pair is delivered at most once per process; suppressed
// warnings are retried on the next check.
func (t *Tracker) CheckStreaks(ctx context.Context) ([]Warning, error) {
	settings, err := t.state.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	streaks, err := t.state.Streaks(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading streaks: %w", err)
	}

	now := t.now()
	var warnings []Warning
	for _, st := range streaks {
		if !notify.ShouldWarnStreakExpiry(st, now, settings) {
			continue
		}
		key := st.SiteID + "|" + st.LastDate
		if t.alreadyWarned(key) {
			continue
		}

		outcome, err := t.dispatcher.Notify(ctx, settings, now, model.Notification{
			Kind:   model.NotificationStreakExpiry,
			SiteID: st.SiteID,
			Title:  "Streak ending soon",
			Body:   fmt.Sprintf("Your %d-day streak on %s ends unless you visit today.", st.Length, st.SiteID),
		})
		if err != nil {
			t.log.Warnw("streak warning failed", "site", st.SiteID, "error", err)
		}
		if outcome == notify.OutcomeDelivered {
			t.markWarned(key)
		}
		warnings = append(warnings, Warning{SiteID: st.SiteID, Length: st.Length, LastDate: st.LastDate, Outcome: outcome})
	}
	return warnings, nil
}

func (t *Tracker) alreadyWarned(key string) bool {
	t.warnMu.Lock()
	defer t.warnMu.Unlock()
	_, ok := t.warned[key]
	return ok
}

func (t *Tracker) markWarned(key string) {
	t.warnMu.Lock()
	defer t.warnMu.Unlock()
	t.warned[key] = struct{}{}
}

// Run refreshes the cache and checks streaks every interval until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	t.log.Infow("watcher started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			t.log.Infow("watcher stopped")
			return nil
		case <-ticker.C:
			if err := t.Refresh(ctx); err != nil {
				t.log.Errorw("cache refresh failed", "error", err)
				continue
			}
			if _, err := t.CheckStreaks(ctx); err != nil {
				t.log.Errorw("streak check failed", "error", err)
			}
		}
	}
}
