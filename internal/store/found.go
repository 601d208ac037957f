package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/lostfound/internal/model"
)

const foundColumns = `id, user_id, item_name, category, found_location, found_time,
	description, color, brand, resolved, created_at`

func scanFound(s rowScanner) (model.FoundReport, error) {
	var r model.FoundReport
	var description sql.NullString
	err := s.Scan(&r.ID, &r.UserID, &r.ItemName, &r.Category, &r.FoundLocation, &r.FoundTime,
		&description, &r.Color, &r.Brand, &r.Resolved, &r.CreatedAt)
	r.Description = description.String
	return r, err
}

// CreateFoundReport stores a new found report and returns it with its ID set.
func CreateFoundReport(ctx context.Context, db *sql.DB, r model.FoundReport) (*model.FoundReport, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO found_reports (user_id, item_name, category, found_location, found_time, description, color, brand)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.ItemName, r.Category, r.FoundLocation, r.FoundTime.UTC(),
		nullString(r.Description), r.Color, r.Brand,
	)
	if err != nil {
		return nil, fmt.Errorf("creating found report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting found report id: %w", err)
	}

	return GetFoundReport(ctx, db, id)
}

// GetFoundReport returns a found report by ID.
func GetFoundReport(ctx context.Context, db *sql.DB, id int64) (*model.FoundReport, error) {
	r, err := scanFound(db.QueryRowContext(ctx,
		`SELECT `+foundColumns+` FROM found_reports WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting found report: %w", err)
	}
	return &r, nil
}

// ListFoundReports returns found reports, newest first. Resolved reports are
// included only when includeResolved is set. A userID above zero restricts the
// list to that user's reports.
func ListFoundReports(ctx context.Context, db *sql.DB, userID int64, includeResolved bool) ([]model.FoundReport, error) {
	query := `SELECT ` + foundColumns + ` FROM found_reports WHERE 1=1`
	var args []any

	if userID > 0 {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}
	if !includeResolved {
		query += ` AND resolved = 0`
	}
	query += ` ORDER BY found_time DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing found reports: %w", err)
	}
	defer rows.Close()

	return collectFound(rows)
}

// ListCandidateFoundReports returns the found reports a new lost report is
// matched against: every unresolved found report, oldest ID first.
func ListCandidateFoundReports(ctx context.Context, db *sql.DB) ([]model.FoundReport, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+foundColumns+` FROM found_reports WHERE resolved = 0 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing candidate found reports: %w", err)
	}
	defer rows.Close()

	return collectFound(rows)
}

// SetFoundResolved marks a found report resolved or unresolved. Only the
// finder may change it; ok is false when no such report belongs to them.
func SetFoundResolved(ctx context.Context, db *sql.DB, id, userID int64, resolved bool) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE found_reports SET resolved = ? WHERE id = ? AND user_id = ?`,
		resolved, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("resolving found report: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("resolving found report: %w", err)
	}
	return n == 1, nil
}

func collectFound(rows *sql.Rows) ([]model.FoundReport, error) {
	var reports []model.FoundReport
	for rows.Next() {
		r, err := scanFound(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning found report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
