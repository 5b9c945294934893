package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/notify"
	"github.com/Tiliavir/focus-streak-tracker/internal/timecalc"
)

var (
	highlight = color.New(color.FgCyan, color.Bold).SprintFunc()
	warn      = color.New(color.FgYellow).SprintFunc()
	muted     = color.New(color.Faint).SprintFunc()
)

func formatStreak(st model.Streak) string {
	unit := "days"
	if st.Length == 1 {
		unit = "day"
	}
	s := fmt.Sprintf("%d %s (last %s)", st.Length, unit, st.LastDate)
	if st.FrozenDaysLeft != nil {
		s += muted(fmt.Sprintf(" %d freeze days left", *st.FrozenDaysLeft))
	}
	return s
}

func printSessions(sessions []model.Session) {
	if len(sessions) == 0 {
		fmt.Println(muted("No sessions."))
		return
	}
	var total float64
	for _, s := range sessions {
		fmt.Printf("  %s  %-30s %s\n", s.Date, highlight(s.SiteID), timecalc.FormatMinutes(s.ActiveMinutes))
		total += s.ActiveMinutes
	}
	fmt.Printf("  %-41s %s\n", "Total", timecalc.FormatMinutes(total))
}

func printStreaks(streaks []model.Streak, settings model.Settings, now time.Time) {
	if len(streaks) == 0 {
		fmt.Println(muted("No streaks yet."))
		return
	}
	for _, st := range streaks {
		line := fmt.Sprintf("  %-30s %s", highlight(st.SiteID), formatStreak(st))
		if notify.ShouldWarnStreakExpiry(st, now, settings) {
			line += " " + warn("ends soon")
		}
		fmt.Println(line)
	}
}

func printQuiet(q notify.QuietStatus) {
	if !q.WithinQuietHours {
		fmt.Println("Quiet hours: off")
		return
	}
	fmt.Printf("Quiet hours: %s (%02d:00-%02d:00)\n", warn("on"), q.ActiveRange.Start(), q.ActiveRange.End())
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
