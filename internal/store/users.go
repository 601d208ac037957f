package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/lostfound/internal/model"
)

// CreateUser creates a new user.
func CreateUser(ctx context.Context, db *sql.DB, studentID, name, email, phone string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (student_id, name, email, phone) VALUES (?, ?, ?, ?)`,
		studentID, name, nullString(email), nullString(phone),
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u := &model.User{}
	var email, phone sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, student_id, name, email, phone, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.StudentID, &u.Name, &email, &phone, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u.Email = email.String
	u.Phone = phone.String
	return u, nil
}

// GetUserByStudentID returns a user by student ID.
func GetUserByStudentID(ctx context.Context, db *sql.DB, studentID string) (*model.User, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE student_id = ?`, studentID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by student id: %w", err)
	}
	return GetUser(ctx, db, id)
}

// ListUserIDs returns the IDs of all users, in ascending order.
func ListUserIDs(ctx context.Context, db *sql.DB) ([]int64, error) {
	rows, err := db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// nullString stores an empty string as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
