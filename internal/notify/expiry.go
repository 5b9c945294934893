package notify

import (
	"time"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/timecalc"
)

// Expiry warning window, measured from local midnight of the streak's last date.
const (
	ExpiryWarnFrom  = 21 * time.Hour
	ExpiryWarnUntil = 48 * time.Hour
)

// ShouldWarnStreakExpiry reports whether a streak is close enough to lapsing
// to warn about it. Local midnight is taken in now's location.
func ShouldWarnStreakExpiry(streak model.Streak, now time.Time, settings model.Settings) bool {
	if streak.Length == 0 || !settings.Notifications {
		return false
	}
	anchor, err := timecalc.LocalMidnight(streak.LastDate, now.Location())
	if err != nil {
		return false
	}
	elapsed := now.Sub(anchor)
	return elapsed >= ExpiryWarnFrom && elapsed < ExpiryWarnUntil
}
