// Package service ties the match engine and the notification policy to the
// database. Every operation here is safe to call from concurrent goroutines.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/lostfound/internal/match"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/notify"
	"github.com/erazemk/lostfound/internal/store"
)

// ErrNotFound is returned when a referenced record does not exist or does not
// belong to the acting user.
var ErrNotFound = errors.New("not found")

// Service runs match cycles, reminder sweeps and announcements against a
// database.
type Service struct {
	DB     *sql.DB
	Engine *match.Engine
	Policy *notify.Policy

	// Now returns the current time. Tests replace it with a fixed clock.
	Now func() time.Time

	Logger *slog.Logger
}

// New creates a service using the wall clock and the default logger.
func New(database *sql.DB, engine *match.Engine, policy *notify.Policy) *Service {
	return &Service{
		DB:     database,
		Engine: engine,
		Policy: policy,
		Now:    time.Now,
		Logger: slog.Default(),
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// runLogger returns a logger tagged with a fresh run ID.
func (s *Service) runLogger(op string) (*slog.Logger, string) {
	id := uuid.NewString()
	return s.logger().With("op", op, "run", id), id
}

// RegisterUser creates a user account.
func (s *Service) RegisterUser(ctx context.Context, studentID, name, email, phone string) (*model.User, error) {
	if studentID == "" || name == "" {
		return nil, errors.New("student id and name are required")
	}
	return store.CreateUser(ctx, s.DB, studentID, name, email, phone)
}

// Matches returns the stored matches of a lost report, best first.
func (s *Service) Matches(ctx context.Context, lostID int64) ([]model.MatchRecord, error) {
	lost, err := store.GetLostReport(ctx, s.DB, lostID)
	if err != nil {
		return nil, err
	}
	if lost == nil {
		return nil, fmt.Errorf("lost report %d: %w", lostID, ErrNotFound)
	}
	return store.ListMatchesForLost(ctx, s.DB, lostID)
}

// ResolveLost marks a lost report resolved on behalf of its owner.
func (s *Service) ResolveLost(ctx context.Context, id, userID int64) error {
	ok, err := store.SetLostResolved(ctx, s.DB, id, userID, true)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("lost report %d of user %d: %w", id, userID, ErrNotFound)
	}
	s.logger().Info("lost report resolved", "id", id, "user", userID)
	return nil
}

// ResolveFound marks a found report resolved on behalf of its finder.
func (s *Service) ResolveFound(ctx context.Context, id, userID int64) error {
	ok, err := store.SetFoundResolved(ctx, s.DB, id, userID, true)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("found report %d of user %d: %w", id, userID, ErrNotFound)
	}
	s.logger().Info("found report resolved", "id", id, "user", userID)
	return nil
}

// Notifications returns a user's notifications, newest first.
func (s *Service) Notifications(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]model.Notification, error) {
	return store.ListNotifications(ctx, s.DB, userID, unreadOnly, limit)
}

// MarkRead marks one of a user's notifications read.
func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	ok, err := store.MarkNotificationRead(ctx, s.DB, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("notification %d of user %d: %w", id, userID, ErrNotFound)
	}
	return nil
}

// UnreadCount returns how many unread notifications a user has.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return store.CountUnread(ctx, s.DB, userID)
}
