package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/lostfound/internal/model"
)

const notificationColumns = `id, user_id, type, title, body, urgent, item_id, match_id, is_read, created_at`

func insertNotification(ctx context.Context, ex execer, n model.Notification) (int64, error) {
	result, err := ex.ExecContext(ctx,
		`INSERT INTO notifications (user_id, type, title, body, urgent, item_id, match_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.UserID, n.Type, n.Title, n.Body, n.Urgent, n.ItemID, n.MatchID,
	)
	if err != nil {
		return 0, fmt.Errorf("creating notification: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting notification id: %w", err)
	}
	return id, nil
}

// CreateNotification stores a single notification.
func CreateNotification(ctx context.Context, db *sql.DB, n model.Notification) (*model.Notification, error) {
	id, err := insertNotification(ctx, db, n)
	if err != nil {
		return nil, err
	}
	return GetNotification(ctx, db, id)
}

// CreateNotifications stores a batch of notifications atomically and returns
// how many were stored.
func CreateNotifications(ctx context.Context, db *sql.DB, notes []model.Notification) (int, error) {
	if len(notes) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, n := range notes {
		if _, err := insertNotification(ctx, tx, n); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing notifications: %w", err)
	}
	return len(notes), nil
}

// GetNotification returns a notification by ID.
func GetNotification(ctx context.Context, db *sql.DB, id int64) (*model.Notification, error) {
	n, err := scanNotification(db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting notification: %w", err)
	}
	return &n, nil
}

// ListNotifications returns a user's notifications, newest first. A limit of
// zero or less means no limit.
func ListNotifications(ctx context.Context, db *sql.DB, userID int64, unreadOnly bool, limit int) ([]model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	args := []any{userID}

	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notes []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// MarkNotificationRead marks a notification read. Only the recipient may do
// so; ok is false when the notification does not belong to userID.
func MarkNotificationRead(ctx context.Context, db *sql.DB, id, userID int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("marking notification read: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("marking notification read: %w", err)
	}
	return n == 1, nil
}

// CountUnread returns the number of unread notifications of a user.
func CountUnread(ctx context.Context, db *sql.DB, userID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return n, nil
}

func scanNotification(s rowScanner) (model.Notification, error) {
	var n model.Notification
	err := s.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.Urgent,
		&n.ItemID, &n.MatchID, &n.Read, &n.CreatedAt)
	return n, err
}
