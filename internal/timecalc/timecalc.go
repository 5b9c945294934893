// Package timecalc resolves local calendar dates from epoch timestamps and a
// fixed UTC offset, and provides the date arithmetic used by streaks and reports.
package timecalc

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the layout of a date key.
const DateLayout = "2006-01-02"

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// ParseOffsetMinutes parses a ±HH:MM offset into minutes. Anything that does
// not match the pattern is treated as UTC.
func ParseOffsetMinutes(tz string) int {
	m := offsetPattern.FindStringSubmatch(tz)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	total := hours*60 + minutes
	if m[1] == "-" {
		return -total
	}
	return total
}

// ToDateKey shifts an epoch-millisecond timestamp by the offset and returns the
// UTC calendar date of the shifted instant.
func ToDateKey(timestampMs int64, tz string) string {
	shifted := timestampMs + int64(ParseOffsetMinutes(tz))*60_000
	return time.UnixMilli(shifted).UTC().Format(DateLayout)
}

// Today returns the date key of now for the given offset.
func Today(now time.Time, tz string) string {
	return ToDateKey(now.UnixMilli(), tz)
}

// ParseDateKey parses a YYYY-MM-DD key as midnight UTC.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", key, err)
	}
	return t, nil
}

// DaysBetween returns the rounded number of calendar days from a to b.
// Both keys are anchored at midnight so the local offset plays no part.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDateKey(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDateKey(b)
	if err != nil {
		return 0, err
	}
	return int(math.Round(tb.Sub(ta).Hours() / 24)), nil
}

// LocalMidnight returns midnight of the date key in loc.
func LocalMidnight(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", key, err)
	}
	return t, nil
}

// AddDays returns the key n days after key.
func AddDays(key string, n int) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// WeekRange returns the Monday and Sunday keys of the ISO week containing key.
func WeekRange(key string) (string, string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", "", err
	}
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(DateLayout), sunday.Format(DateLayout), nil
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(key string) string {
	t, err := ParseDateKey(key)
	if err != nil {
		return key
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// FormatMinutes formats fractional minutes as "1h 40m", "45m" or "30s".
func FormatMinutes(minutes float64) string {
	seconds := int64(math.Round(minutes * 60))
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}
