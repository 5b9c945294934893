package model

// QuietRange is a half-open [start, end) range of local hours. A range whose
// start is greater than its end wraps past midnight.
type QuietRange [2]int

// Start returns the first muted hour.
func (r QuietRange) Start() int { return r[0] }

// End returns the first hour after the muted window.
func (r QuietRange) End() int { return r[1] }

// Settings are the user preferences consumed read-only by the core.
type Settings struct {
	// TZ is a fixed UTC offset in ±HH:MM form used for session date keys.
	TZ                   string       `json:"tz" yaml:"tz"`
	QuietHours           []QuietRange `json:"quietHours" yaml:"quiet_hours" validate:"dive,dive,min=0,max=23"`
	Notifications        bool         `json:"notifications" yaml:"notifications"`
	Audio                bool         `json:"audio" yaml:"audio"`
	Sound                string       `json:"sound" yaml:"sound"`
	SessionLengthMinutes int          `json:"sessionLengthMinutes" yaml:"session_length_minutes" validate:"gte=0"`
	FocusMinutes         int          `json:"focusMinutes" yaml:"focus_minutes" validate:"gte=0"`

	// UI-only fields.
	OverlayEnabled  bool   `json:"overlayEnabled" yaml:"overlay_enabled"`
	OverlayPosition string `json:"overlayPosition" yaml:"overlay_position"`
	Theme           string `json:"theme" yaml:"theme"`
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() Settings {
	return Settings{
		TZ:                   "+00:00",
		QuietHours:           []QuietRange{{22, 7}},
		Notifications:        true,
		Audio:                true,
		Sound:                "chime",
		SessionLengthMinutes: 5,
		FocusMinutes:         25,
		OverlayEnabled:       true,
		OverlayPosition:      "bottom-right",
		Theme:                "system",
	}
}
