package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/erazemk/lostfound/internal/model"
)

var base = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func mustUser(t *testing.T, database *sql.DB, studentID string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, studentID, "Student "+studentID, "", "")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func mustLost(t *testing.T, database *sql.DB, userID *int64, category, location string, at time.Time) *model.LostReport {
	t.Helper()
	r, err := CreateLostReport(context.Background(), database, model.LostReport{
		UserID: userID, ItemName: category, Category: category, LostLocation: location, LostTime: at,
	})
	if err != nil {
		t.Fatalf("CreateLostReport: %v", err)
	}
	return r
}

func mustFound(t *testing.T, database *sql.DB, userID *int64, category, location string, at time.Time) *model.FoundReport {
	t.Helper()
	r, err := CreateFoundReport(context.Background(), database, model.FoundReport{
		UserID: userID, ItemName: category, Category: category, FoundLocation: location, FoundTime: at,
	})
	if err != nil {
		t.Fatalf("CreateFoundReport: %v", err)
	}
	return r
}
