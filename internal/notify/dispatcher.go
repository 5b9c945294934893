// Package notify decides whether user-facing alerts may fire and delivers
// them to a sink.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tiliavir/focus-streak-tracker/internal/metrics"
	"github.com/Tiliavir/focus-streak-tracker/internal/model"
)

// Sink delivers a notification to the user.
type Sink interface {
	Send(ctx context.Context, n model.Notification) error
}

// Outcome describes what happened to a notification.
type Outcome string

const (
	OutcomeDelivered  Outcome = "delivered"
	OutcomeQuiet      Outcome = "suppressed_quiet"
	OutcomeDisabled   Outcome = "disabled"
	OutcomeSendFailed Outcome = "failed"
)

// Dispatcher gates notifications and sounds behind settings and quiet hours.
type Dispatcher struct {
	sink   Sink
	sounds *SoundResolver
	log    *zap.SugaredLogger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(sink Sink, sounds *SoundResolver, log *zap.SugaredLogger) *Dispatcher {
	if sounds == nil {
		sounds = NewSoundResolver(nil)
	}
	return &Dispatcher{sink: sink, sounds: sounds, log: log}
}

// Notify sends n unless notifications are disabled or now falls within quiet
// hours. A sound is attached only when audio is enabled.
func (d *Dispatcher) Notify(ctx context.Context, settings model.Settings, now time.Time, n model.Notification) (Outcome, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}

	if !settings.Notifications {
		return d.record(n, OutcomeDisabled), nil
	}
	if q := EvaluateQuietHours(settings, now); q.WithinQuietHours {
		d.log.Debugw("notification suppressed by quiet hours",
			"id", n.ID, "kind", n.Kind, "range", *q.ActiveRange)
		return d.record(n, OutcomeQuiet), nil
	}
	if settings.Audio {
		n.Sound = d.sounds.Resolve(settings.Sound)
	}

	if err := d.sink.Send(ctx, n); err != nil {
		d.record(n, OutcomeSendFailed)
		return OutcomeSendFailed, fmt.Errorf("sending notification %s: %w", n.ID, err)
	}
	return d.record(n, OutcomeDelivered), nil
}

func (d *Dispatcher) record(n model.Notification, o Outcome) Outcome {
	metrics.RecordNotification(string(n.Kind), string(o))
	d.log.Infow("notification", "id", n.ID, "kind", n.Kind, "site", n.SiteID, "outcome", o)
	return o
}
