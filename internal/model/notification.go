package model

import "time"

// Notification is a message addressed to a single user.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Urgent    bool      `json:"urgent"`
	ItemID    *int64    `json:"item_id,omitempty"`
	MatchID   *int64    `json:"match_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification types.
const (
	NotificationMatch        = "match"
	NotificationReminder     = "reminder"
	NotificationAnnouncement = "announcement"
)
