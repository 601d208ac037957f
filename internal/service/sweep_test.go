package service

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

func TestSweep(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustRegister(t, s, "1")
	b := mustRegister(t, s, "2")

	// Stored directly so no match cycle runs.
	store.CreateLostReport(ctx, s.DB, wallet(&a.ID, "图书馆", now.Add(-8*24*time.Hour)))
	store.CreateLostReport(ctx, s.DB, wallet(&b.ID, "食堂", now.Add(-15*24*time.Hour)))
	store.CreateLostReport(ctx, s.DB, wallet(&a.ID, "操场", now.Add(-2*24*time.Hour)))
	store.CreateFoundReport(ctx, s.DB, foundWallet(nil, "操场", now.Add(-30*24*time.Hour)))

	res, err := s.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Lost != 3 || res.Found != 1 {
		t.Errorf("expected snapshot of 3 lost and 1 found, got %+v", res)
	}
	if res.Notifications != 2 {
		t.Errorf("expected 2 reminders, got %d", res.Notifications)
	}
	if !res.Previous.IsZero() {
		t.Errorf("expected no previous sweep, got %v", res.Previous)
	}

	aNotes, _ := s.Notifications(ctx, a.ID, false, 0)
	if len(aNotes) != 1 || aNotes[0].Urgent || aNotes[0].Type != model.NotificationReminder {
		t.Errorf("expected one regular reminder for user a, got %+v", aNotes)
	}
	bNotes, _ := s.Notifications(ctx, b.ID, false, 0)
	if len(bNotes) != 1 || !bNotes[0].Urgent {
		t.Errorf("expected one urgent reminder for user b, got %+v", bNotes)
	}

	last, err := store.GetLastSweep(ctx, s.DB)
	if err != nil {
		t.Fatalf("GetLastSweep: %v", err)
	}
	if !last.Equal(now) {
		t.Errorf("expected last sweep %v, got %v", now, last)
	}

	later := now.Add(24 * time.Hour)
	s.Now = func() time.Time { return later }
	res, err = s.Sweep(ctx)
	if err != nil {
		t.Fatalf("second Sweep: %v", err)
	}
	if !res.Previous.Equal(now) {
		t.Errorf("expected previous sweep %v, got %v", now, res.Previous)
	}
}

func TestSweepSkipsResolved(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustRegister(t, s, "1")

	r, _ := store.CreateLostReport(ctx, s.DB, wallet(&a.ID, "图书馆", now.Add(-20*24*time.Hour)))
	if err := s.ResolveLost(ctx, r.ID, a.ID); err != nil {
		t.Fatalf("ResolveLost: %v", err)
	}

	res, err := s.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Lost != 0 || res.Notifications != 0 {
		t.Errorf("expected nothing to remind, got %+v", res)
	}
}

func TestAnnounce(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustRegister(t, s, "1")
	b := mustRegister(t, s, "2")

	n, err := s.Announce(ctx, "Closed Friday", "The office is closed on Friday.", nil)
	if err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 recipients, got %d", n)
	}

	n, err = s.Announce(ctx, "Hello", "Only you.", []int64{b.ID, b.ID, 999})
	if err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 recipient, got %d", n)
	}

	if count, _ := s.UnreadCount(ctx, a.ID); count != 1 {
		t.Errorf("expected user a to have 1 announcement, got %d", count)
	}
	if count, _ := s.UnreadCount(ctx, b.ID); count != 2 {
		t.Errorf("expected user b to have 2 announcements, got %d", count)
	}

	n, err = s.Announce(ctx, "Nobody", "No one.", []int64{999})
	if err != nil || n != 0 {
		t.Errorf("expected 0, nil for unknown recipients, got %d, %v", n, err)
	}
}

func TestAnnounceRequiresText(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Announce(context.Background(), "", "body", nil); err == nil {
		t.Error("expected error for empty title")
	}
}
