package store

import (
	"context"
	"testing"

	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
)

func TestCreateAndListNotifications(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	a := mustUser(t, database, "1")
	b := mustUser(t, database, "2")

	n, err := CreateNotification(ctx, database, model.Notification{
		UserID: a.ID, Type: model.NotificationReminder, Title: "Reminder", Body: "still open", Urgent: true,
	})
	if err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}
	if !n.Urgent || n.Read || n.ItemID != nil {
		t.Errorf("unexpected notification %+v", n)
	}

	count, err := CreateNotifications(ctx, database, []model.Notification{
		{UserID: a.ID, Type: model.NotificationAnnouncement, Title: "A", Body: "a"},
		{UserID: b.ID, Type: model.NotificationAnnouncement, Title: "A", Body: "a"},
	})
	if err != nil {
		t.Fatalf("CreateNotifications: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 stored, got %d", count)
	}

	notes, err := ListNotifications(ctx, database, a.ID, false, 0)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notes))
	}
	// Same timestamp resolution, so the higher ID comes first.
	if notes[0].Type != model.NotificationAnnouncement {
		t.Errorf("expected newest first, got %+v", notes[0])
	}

	limited, _ := ListNotifications(ctx, database, a.ID, false, 1)
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}
}

func TestCreateNotificationsEmpty(t *testing.T) {
	database := db.NewTestDB(t)

	n, err := CreateNotifications(context.Background(), database, nil)
	if err != nil || n != 0 {
		t.Errorf("expected 0, nil, got %d, %v", n, err)
	}
}

func TestCreateNotificationsAtomic(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	a := mustUser(t, database, "1")

	_, err := CreateNotifications(ctx, database, []model.Notification{
		{UserID: a.ID, Type: model.NotificationAnnouncement, Title: "A", Body: "a"},
		{UserID: a.ID, Type: "bogus", Title: "A", Body: "a"},
	})
	if err == nil {
		t.Fatal("expected error for invalid type")
	}

	notes, _ := ListNotifications(ctx, database, a.ID, false, 0)
	if len(notes) != 0 {
		t.Errorf("expected batch to roll back, got %d notifications", len(notes))
	}
}

func TestMarkNotificationRead(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	a := mustUser(t, database, "1")
	b := mustUser(t, database, "2")

	n, _ := CreateNotification(ctx, database, model.Notification{
		UserID: a.ID, Type: model.NotificationMatch, Title: "t", Body: "b",
	})
	CreateNotification(ctx, database, model.Notification{
		UserID: a.ID, Type: model.NotificationMatch, Title: "t", Body: "b",
	})

	if unread, _ := CountUnread(ctx, database, a.ID); unread != 2 {
		t.Errorf("expected 2 unread, got %d", unread)
	}

	if ok, _ := MarkNotificationRead(ctx, database, n.ID, b.ID); ok {
		t.Error("expected another user to be refused")
	}
	if ok, err := MarkNotificationRead(ctx, database, n.ID, a.ID); err != nil || !ok {
		t.Fatalf("expected recipient to mark read, got ok=%v err=%v", ok, err)
	}

	if unread, _ := CountUnread(ctx, database, a.ID); unread != 1 {
		t.Errorf("expected 1 unread, got %d", unread)
	}
	unread, _ := ListNotifications(ctx, database, a.ID, true, 0)
	if len(unread) != 1 || unread[0].ID == n.ID {
		t.Errorf("expected only the other notification unread, got %+v", unread)
	}
}
