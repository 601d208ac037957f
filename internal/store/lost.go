package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/lostfound/internal/model"
)

const lostColumns = `id, user_id, item_name, category, lost_location, lost_time,
	description, color, brand, resolved, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLost(s rowScanner) (model.LostReport, error) {
	var r model.LostReport
	var description sql.NullString
	err := s.Scan(&r.ID, &r.UserID, &r.ItemName, &r.Category, &r.LostLocation, &r.LostTime,
		&description, &r.Color, &r.Brand, &r.Resolved, &r.CreatedAt)
	r.Description = description.String
	return r, err
}

// CreateLostReport stores a new lost report and returns it with its ID set.
func CreateLostReport(ctx context.Context, db *sql.DB, r model.LostReport) (*model.LostReport, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO lost_reports (user_id, item_name, category, lost_location, lost_time, description, color, brand)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.ItemName, r.Category, r.LostLocation, r.LostTime.UTC(),
		nullString(r.Description), r.Color, r.Brand,
	)
	if err != nil {
		return nil, fmt.Errorf("creating lost report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting lost report id: %w", err)
	}

	return GetLostReport(ctx, db, id)
}

// GetLostReport returns a lost report by ID.
func GetLostReport(ctx context.Context, db *sql.DB, id int64) (*model.LostReport, error) {
	r, err := scanLost(db.QueryRowContext(ctx,
		`SELECT `+lostColumns+` FROM lost_reports WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting lost report: %w", err)
	}
	return &r, nil
}

// ListLostReports returns lost reports, newest first. Resolved reports are
// included only when includeResolved is set. A userID above zero restricts the
// list to that user's reports.
func ListLostReports(ctx context.Context, db *sql.DB, userID int64, includeResolved bool) ([]model.LostReport, error) {
	query := `SELECT ` + lostColumns + ` FROM lost_reports WHERE 1=1`
	var args []any

	if userID > 0 {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}
	if !includeResolved {
		query += ` AND resolved = 0`
	}
	query += ` ORDER BY lost_time DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing lost reports: %w", err)
	}
	defer rows.Close()

	return collectLost(rows)
}

// ListCandidateLostReports returns the unresolved lost reports a new found
// report is matched against, oldest ID first.
func ListCandidateLostReports(ctx context.Context, db *sql.DB) ([]model.LostReport, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+lostColumns+` FROM lost_reports WHERE resolved = 0 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing candidate lost reports: %w", err)
	}
	defer rows.Close()

	return collectLost(rows)
}

// SetLostResolved marks a lost report resolved or unresolved. Only the
// reporting user may change it; ok is false when no such report belongs to them.
func SetLostResolved(ctx context.Context, db *sql.DB, id, userID int64, resolved bool) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE lost_reports SET resolved = ? WHERE id = ? AND user_id = ?`,
		resolved, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("resolving lost report: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("resolving lost report: %w", err)
	}
	return n == 1, nil
}

func collectLost(rows *sql.Rows) ([]model.LostReport, error) {
	var reports []model.LostReport
	for rows.Next() {
		r, err := scanLost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lost report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
