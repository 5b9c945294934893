package notify

import (
	"time"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
)

// QuietStatus reports whether a point in time falls inside quiet hours and
// which configured range matched first.
type QuietStatus struct {
	WithinQuietHours bool              `json:"withinQuietHours"`
	ActiveRange      *model.QuietRange `json:"activeRange"`
}

// EvaluateQuietHours checks now against the configured quiet ranges.
//
// The hour is read from now's own location, so callers passing time.Now()
// get the process-local clock. This deliberately differs from session date
// keys, which always use settings.TZ.
func EvaluateQuietHours(settings model.Settings, now time.Time) QuietStatus {
	hour := now.Hour()
	for _, r := range settings.QuietHours {
		if inRange(r, hour) {
			matched := r
			return QuietStatus{WithinQuietHours: true, ActiveRange: &matched}
		}
	}
	return QuietStatus{}
}

func inRange(r model.QuietRange, hour int) bool {
	start, end := r.Start(), r.End()
	switch {
	case start == end:
		return false
	case start < end:
		return hour >= start && hour < end
	default: // wraps midnight
		return hour >= start || hour < end
	}
}
