// Package activity folds activity slots into per-day sessions and advances
// per-site streaks. Every function is pure: inputs are never mutated and the
// returned collections share no backing arrays with them.
package activity

import (
	"math"
	"slices"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/timecalc"
)

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MergeActivitySlot adds a slot's duration to the session for its site and
// local date, then advances that site's streak.
func MergeActivitySlot(slot model.ActivitySlot, state model.State, settings model.Settings) model.State {
	dateKey := timecalc.ToDateKey(slot.Timestamp, settings.TZ)
	id := model.SessionID(slot.SiteID, dateKey)
	minutes := slot.DurationSec / 60

	sessions := slices.Clone(state.Sessions)
	idx := slices.IndexFunc(sessions, func(s model.Session) bool { return s.ID == id })

	var session model.Session
	if idx >= 0 {
		session = sessions[idx]
		session.ActiveMinutes = Round2(session.ActiveMinutes + minutes)
		sessions[idx] = session
	} else {
		session = model.Session{
			ID:            id,
			SiteID:        slot.SiteID,
			Date:          dateKey,
			ActiveMinutes: Round2(minutes),
		}
		sessions = append(sessions, session)
	}

	return model.State{
		Sessions: sessions,
		Streaks:  EnsureStreakProgress(session, state.Streaks, settings),
	}
}

// QualifyingMinutes is the minimum session length that counts a day toward a streak.
func QualifyingMinutes(settings model.Settings) float64 {
	return float64(max(settings.SessionLengthMinutes, 1))
}

// EnsureStreakProgress records the session's date against its site's streak
// once the session qualifies. A gap of anything but exactly one day, including
// a date earlier than the streak's last date, restarts the streak at 1.
func EnsureStreakProgress(session model.Session, streaks []model.Streak, settings model.Settings) []model.Streak {
	out := cloneStreaks(streaks)
	if session.ActiveMinutes < QualifyingMinutes(settings) {
		return out
	}

	idx := slices.IndexFunc(out, func(s model.Streak) bool { return s.SiteID == session.SiteID })
	if idx < 0 {
		return append(out, model.Streak{SiteID: session.SiteID, Length: 1, LastDate: session.Date})
	}

	existing := out[idx]
	if existing.LastDate == session.Date {
		return out
	}

	next := existing
	next.LastDate = session.Date
	if diff, err := timecalc.DaysBetween(existing.LastDate, session.Date); err == nil && diff == 1 {
		next.Length = existing.Length + 1
	} else {
		next.Length = 1
	}
	out[idx] = next
	return out
}

// FindStreak returns the streak for a site.
func FindStreak(streaks []model.Streak, siteID string) (model.Streak, bool) {
	idx := slices.IndexFunc(streaks, func(s model.Streak) bool { return s.SiteID == siteID })
	if idx < 0 {
		return model.Streak{}, false
	}
	return streaks[idx], true
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
