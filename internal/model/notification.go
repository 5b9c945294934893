package model

import "time"

// NotificationKind identifies why a notification was raised.
type NotificationKind string

const (
	NotificationStreakExpiry  NotificationKind = "streak_expiry"
	NotificationFocusComplete NotificationKind = "focus_complete"
)

// Notification is a user-facing alert handed to a notification sink.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	SiteID    string           `json:"siteId,omitempty"`
	Sound     string           `json:"sound,omitempty"` // resolved asset reference
	CreatedAt time.Time        `json:"createdAt"`
}
