// Package notify turns match events and stale reports into notifications.
//
// A Policy is a fixed rule table: it never stores state between calls, so the
// caller owns all "already notified" bookkeeping.
package notify

import (
	"fmt"
	"math"
	"time"

	"github.com/erazemk/lostfound/internal/model"
)

// Config holds the rule thresholds.
type Config struct {
	// HighMatchThreshold is the score at or above which both sides of a match
	// receive an urgent notification.
	HighMatchThreshold float64

	// ReminderDays is the age in whole days after which an unresolved report
	// gets a regular reminder.
	ReminderDays int

	// UrgentReminderDays is the age after which the reminder becomes urgent.
	UrgentReminderDays int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		HighMatchThreshold: 80,
		ReminderDays:       7,
		UrgentReminderDays: 14,
	}
}

// Validate checks that the thresholds are usable.
func (c Config) Validate() error {
	if math.IsNaN(c.HighMatchThreshold) || c.HighMatchThreshold < 0 || c.HighMatchThreshold > 100 {
		return fmt.Errorf("high match threshold must be within [0, 100], got %v", c.HighMatchThreshold)
	}
	if c.ReminderDays <= 0 {
		return fmt.Errorf("reminder days must be positive, got %d", c.ReminderDays)
	}
	if c.UrgentReminderDays < c.ReminderDays {
		return fmt.Errorf("urgent reminder days (%d) must not be below reminder days (%d)",
			c.UrgentReminderDays, c.ReminderDays)
	}
	return nil
}

// Policy applies the notification rules. Its configuration cannot change
// after construction.
type Policy struct {
	cfg Config
}

// New creates a policy with the given thresholds.
func New(cfg Config) (*Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid notification config: %w", err)
	}
	return &Policy{cfg: cfg}, nil
}

// Config returns a copy of the policy thresholds.
func (p *Policy) Config() Config {
	return p.cfg
}

// OnMatch builds the notifications for a newly stored match. A high score
// notifies the lost report owner and the found report owner urgently; any
// other score notifies only the lost report owner. Sides without an owner are
// skipped.
func (p *Policy) OnMatch(m model.MatchRecord, lost model.LostReport, found model.FoundReport) []model.Notification {
	var out []model.Notification

	if m.Score >= p.cfg.HighMatchThreshold {
		if lost.UserID != nil {
			out = append(out, matchNotification(*lost.UserID, m, lost.ID, true,
				"High match: your lost item may have been found",
				fmt.Sprintf("Your lost item %q has a high-scoring found report (score %.1f). Please check it as soon as possible.",
					lost.ItemName, m.Score)))
		}
		if found.UserID != nil {
			out = append(out, matchNotification(*found.UserID, m, found.ID, true,
				"Your found item matches a lost report",
				fmt.Sprintf("The item %q you found may match a lost report (score %.1f). Please review the details.",
					found.ItemName, m.Score)))
		}
		return out
	}

	if lost.UserID != nil {
		out = append(out, matchNotification(*lost.UserID, m, lost.ID, false,
			"Possible match for your lost item",
			fmt.Sprintf("Your lost item %q has a possible found report (score %.1f). Please review the details.",
				lost.ItemName, m.Score)))
	}
	return out
}

func matchNotification(userID int64, m model.MatchRecord, itemID int64, urgent bool, title, body string) model.Notification {
	return model.Notification{
		UserID:  userID,
		Type:    model.NotificationMatch,
		Title:   title,
		Body:    body,
		Urgent:  urgent,
		ItemID:  idRef(itemID),
		MatchID: idRef(m.ID),
	}
}

// Sweep builds reminders for every unresolved report in the snapshot. A report
// older than UrgentReminderDays gets one urgent reminder, one older than
// ReminderDays gets one regular reminder, younger reports get nothing.
// Resolved and ownerless reports are skipped.
func (p *Policy) Sweep(now time.Time, lost []model.LostReport, found []model.FoundReport) []model.Notification {
	var out []model.Notification
	for _, r := range lost {
		if r.Resolved || r.UserID == nil {
			continue
		}
		if n, ok := p.reminder(now, r.LostTime, *r.UserID, r.ID, model.KindLost, r.ItemName); ok {
			out = append(out, n)
		}
	}
	for _, r := range found {
		if r.Resolved || r.UserID == nil {
			continue
		}
		if n, ok := p.reminder(now, r.FoundTime, *r.UserID, r.ID, model.KindFound, r.ItemName); ok {
			out = append(out, n)
		}
	}
	return out
}

func (p *Policy) reminder(now, at time.Time, userID, itemID int64, kind, itemName string) (model.Notification, bool) {
	days := DaysElapsed(now, at)

	var urgent bool
	switch {
	case days >= p.cfg.UrgentReminderDays:
		urgent = true
	case days >= p.cfg.ReminderDays:
	default:
		return model.Notification{}, false
	}

	n := model.Notification{
		UserID: userID,
		Type:   model.NotificationReminder,
		Urgent: urgent,
		ItemID: idRef(itemID),
	}
	if urgent {
		n.Title = fmt.Sprintf("Urgent: your %s report is over %d days old", kind, p.cfg.UrgentReminderDays)
		n.Body = fmt.Sprintf("Your %s report %q was posted %d days ago and is still unresolved. Consider updating or reposting it.",
			kind, itemName, days)
	} else {
		n.Title = fmt.Sprintf("Reminder: your %s report is over %d days old", kind, p.cfg.ReminderDays)
		n.Body = fmt.Sprintf("Your %s report %q was posted %d days ago. Keep an eye on new matches.",
			kind, itemName, days)
	}
	return n, true
}

// DaysElapsed returns the number of whole days from at to now. Timestamps in
// the future count as zero days.
func DaysElapsed(now, at time.Time) int {
	d := now.Sub(at)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// Announce fans an announcement out to recipients, or to every known user when
// recipients is empty. Each user is notified at most once.
func (p *Policy) Announce(title, body string, recipients, known []int64) []model.Notification {
	if len(recipients) == 0 {
		recipients = known
	}

	seen := make(map[int64]bool, len(recipients))
	var out []model.Notification
	for _, id := range recipients {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, model.Notification{
			UserID: id,
			Type:   model.NotificationAnnouncement,
			Title:  title,
			Body:   body,
		})
	}
	return out
}

// idRef returns a pointer to id, or nil for an unpersisted (zero) ID.
func idRef(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
