package model

// ActivitySlot is one observed heartbeat interval of active attention on a
// site. It is never persisted itself, only folded into a Session.
type ActivitySlot struct {
	SiteID      string  `json:"siteId" yaml:"site_id" binding:"required"`
	URL         string  `json:"url" yaml:"url"`
	DurationSec float64 `json:"durationSec" yaml:"duration_sec" binding:"gte=0"`
	Timestamp   int64   `json:"timestamp" yaml:"timestamp"` // epoch milliseconds, 0 means now
}

// Session aggregates the active minutes for one site on one local calendar date.
type Session struct {
	ID            string  `json:"id" yaml:"id"`
	SiteID        string  `json:"siteId" yaml:"site_id"`
	Date          string  `json:"date" yaml:"date"`
	ActiveMinutes float64 `json:"activeMinutes" yaml:"active_minutes"`
}

// Streak counts consecutive qualifying days for a site.
type Streak struct {
	SiteID   string `json:"siteId" yaml:"site_id"`
	Length   int    `json:"length" yaml:"length"`
	LastDate string `json:"lastDate" yaml:"last_date"`
	// FrozenDaysLeft is carried through streak updates untouched.
	FrozenDaysLeft *int `json:"frozenDaysLeft,omitempty" yaml:"frozen_days_left,omitempty"`
}

// State is the pair of collections the merge logic reads and returns.
type State struct {
	Sessions []Session `json:"sessions" yaml:"sessions"`
	Streaks  []Streak  `json:"streaks" yaml:"streaks"`
}

// DayFile is the top-level structure stored in each daily JSON file.
type DayFile struct {
	Date     string    `json:"date"`
	Sessions []Session `json:"sessions"`
}

// SessionID returns the composite key of the session for a site and date.
func SessionID(siteID, dateKey string) string {
	return siteID + ":" + dateKey
}
