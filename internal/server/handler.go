package server

import (
	"context"
	"time"

	"github.com/Tiliavir/focus-streak-tracker/internal/message"
	"github.com/Tiliavir/focus-streak-tracker/internal/tracker"
)

// handler answers host messages from the tracker.
type handler struct {
	tracker *tracker.Tracker
}

var _ message.Handler = (*handler)(nil)

func (h *handler) ActivitySlot(ctx context.Context, m message.ActivitySlot) (any, error) {
	return h.tracker.RecordSlot(ctx, m.Slot)
}

func (h *handler) GetState(ctx context.Context, m message.GetState) (any, error) {
	return h.tracker.State(ctx, m.Date)
}

func (h *handler) GetSettings(ctx context.Context, _ message.GetSettings) (any, error) {
	return h.tracker.Settings(ctx)
}

func (h *handler) SaveSettings(ctx context.Context, m message.SaveSettings) (any, error) {
	return h.tracker.UpdateSettings(ctx, m.Apply)
}

func (h *handler) QuietStatus(ctx context.Context, _ message.QuietStatus) (any, error) {
	return h.tracker.QuietStatus(ctx)
}

func (h *handler) CheckStreaks(ctx context.Context, _ message.CheckStreaks) (any, error) {
	warnings, err := h.tracker.CheckStreaks(ctx)
	if err != nil {
		return nil, err
	}
	if warnings == nil {
		warnings = []tracker.Warning{}
	}
	return warnings, nil
}

func (h *handler) StartFocus(ctx context.Context, m message.StartFocus) (any, error) {
	return h.tracker.StartFocus(ctx, time.Duration(m.Minutes)*time.Minute)
}

func (h *handler) CancelFocus(_ context.Context, _ message.CancelFocus) (any, error) {
	return map[string]bool{"cancelled": h.tracker.CancelFocus()}, nil
}
