package service

import (
	"context"
	"errors"
	"time"

	"github.com/erazemk/lostfound/internal/store"
)

// SweepResult summarizes one reminder sweep.
type SweepResult struct {
	RunID string

	// Previous is when the sweep before this one ran; zero on the first sweep.
	Previous time.Time

	Lost          int
	Found         int
	Notifications int
}

// Sweep sends reminders for unresolved reports that have been open too long
// and records when it ran.
func (s *Service) Sweep(ctx context.Context) (*SweepResult, error) {
	log, runID := s.runLogger("sweep")
	now := s.now()

	previous, err := store.GetLastSweep(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	lost, found, err := store.ListUnresolvedReports(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	notes := s.Policy.Sweep(now, lost, found)
	n, err := store.CreateNotifications(ctx, s.DB, notes)
	if err != nil {
		log.Error("reminder sweep failed", "error", err)
		return nil, err
	}

	if err := store.SetLastSweep(ctx, s.DB, now); err != nil {
		return nil, err
	}

	log.Info("reminder sweep finished", "lost", len(lost), "found", len(found), "notifications", n,
		"previous", previous)
	return &SweepResult{RunID: runID, Previous: previous, Lost: len(lost), Found: len(found), Notifications: n}, nil
}

// Announce sends an announcement to the given users, or to every user when
// userIDs is empty. Unknown user IDs are skipped. It returns how many
// notifications were stored.
func (s *Service) Announce(ctx context.Context, title, body string, userIDs []int64) (int, error) {
	if title == "" || body == "" {
		return 0, errors.New("announcement title and body are required")
	}
	log, _ := s.runLogger("announce")

	known, err := store.ListUserIDs(ctx, s.DB)
	if err != nil {
		return 0, err
	}

	exists := make(map[int64]bool, len(known))
	for _, id := range known {
		exists[id] = true
	}
	var recipients []int64
	for _, id := range userIDs {
		if !exists[id] {
			log.Warn("skipping unknown recipient", "user", id)
			continue
		}
		recipients = append(recipients, id)
	}
	if len(userIDs) > 0 && len(recipients) == 0 {
		return 0, nil
	}

	notes := s.Policy.Announce(title, body, recipients, known)
	n, err := store.CreateNotifications(ctx, s.DB, notes)
	if err != nil {
		return 0, err
	}

	log.Info("announcement sent", "recipients", n)
	return n, nil
}
