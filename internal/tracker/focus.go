package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
)

// FocusStatus describes the focus timer.
type FocusStatus struct {
	Active  bool      `json:"active"`
	Started time.Time `json:"started,omitzero"`
	EndsAt  time.Time `json:"endsAt,omitzero"`
}

type focusTimer struct {
	timer   *time.Timer
	started time.Time
	endsAt  time.Time
	done    chan struct{}
}

// StartFocus arms a focus timer for d, or for the configured focus length when
// d is zero. A running timer is replaced. When it fires, a focus-complete
// notification goes through the dispatcher.
func (t *Tracker) StartFocus(ctx context.Context, d time.Duration) (FocusStatus, error) {
	if d <= 0 {
		settings, err := t.state.Settings(ctx)
		if err != nil {
			return FocusStatus{}, err
		}
		d = time.Duration(max(settings.FocusMinutes, 1)) * time.Minute
	}

	t.focusMu.Lock()
	defer t.focusMu.Unlock()
	if t.focus != nil {
		t.focus.timer.Stop()
		close(t.focus.done)
	}

	now := t.now()
	ft := &focusTimer{started: now, endsAt: now.Add(d), done: make(chan struct{})}
	ft.timer = time.AfterFunc(d, func() { t.completeFocus(ft, d) })
	t.focus = ft

	t.log.Infow("focus started", "duration", d)
	return FocusStatus{Active: true, Started: ft.started, EndsAt: ft.endsAt}, nil
}

// CancelFocus stops the running focus timer and reports whether one was running.
func (t *Tracker) CancelFocus() bool {
	t.focusMu.Lock()
	defer t.focusMu.Unlock()
	if t.focus == nil {
		return false
	}
	t.focus.timer.Stop()
	close(t.focus.done)
	t.focus = nil
	return true
}

// FocusDone returns a channel closed once the running focus timer has ended
// and its notification was attempted, or it was cancelled. When no timer is
// running the channel is already closed.
func (t *Tracker) FocusDone() <-chan struct{} {
	t.focusMu.Lock()
	defer t.focusMu.Unlock()
	if t.focus == nil {
		return closedDone
	}
	return t.focus.done
}

var closedDone = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// Focus returns the focus timer state.
func (t *Tracker) Focus() FocusStatus {
	t.focusMu.Lock()
	defer t.focusMu.Unlock()
	if t.focus == nil {
		return FocusStatus{}
	}
	return FocusStatus{Active: true, Started: t.focus.started, EndsAt: t.focus.endsAt}
}

func (t *Tracker) completeFocus(ft *focusTimer, d time.Duration) {
	t.focusMu.Lock()
	if t.focus != ft {
		t.focusMu.Unlock()
		return
	}
	t.focus = nil
	t.focusMu.Unlock()
	defer close(ft.done)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	settings, err := t.state.Settings(ctx)
	if err != nil {
		t.log.Errorw("focus notification skipped", "error", err)
		return
	}
	if _, err := t.dispatcher.Notify(ctx, settings, t.now(), model.Notification{
		Kind:  model.NotificationFocusComplete,
		Title: "Focus session complete",
		Body:  fmt.Sprintf("You stayed focused for %s.", d.Round(time.Second)),
	}); err != nil {
		t.log.Warnw("focus notification failed", "error", err)
	}
}
