package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/lostfound/internal/model"
)

const matchColumns = `id, lost_id, found_id, score, reason, notified, created_at`

func scanMatch(s rowScanner) (model.MatchRecord, error) {
	var m model.MatchRecord
	var reason sql.NullString
	err := s.Scan(&m.ID, &m.LostID, &m.FoundID, &m.Score, &reason, &m.Notified, &m.CreatedAt)
	m.Reason = reason.String
	return m, err
}

// CreateMatchRecord stores a match record. A pair that is already stored is
// left untouched; the stored record is returned and created is false.
func CreateMatchRecord(ctx context.Context, db *sql.DB, m model.MatchRecord) (rec *model.MatchRecord, created bool, err error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO match_records (lost_id, found_id, score, reason) VALUES (?, ?, ?, ?)
		 ON CONFLICT (lost_id, found_id) DO NOTHING`,
		m.LostID, m.FoundID, m.Score, nullString(m.Reason),
	)
	if err != nil {
		return nil, false, fmt.Errorf("creating match record: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("creating match record: %w", err)
	}

	stored, err := scanMatch(db.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM match_records WHERE lost_id = ? AND found_id = ?`,
		m.LostID, m.FoundID,
	))
	if err != nil {
		return nil, false, fmt.Errorf("getting match record: %w", err)
	}
	return &stored, n == 1, nil
}

// GetMatchRecord returns a match record by ID.
func GetMatchRecord(ctx context.Context, db *sql.DB, id int64) (*model.MatchRecord, error) {
	m, err := scanMatch(db.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM match_records WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting match record: %w", err)
	}
	return &m, nil
}

// ListMatchesForLost returns the match records of a lost report, best first.
func ListMatchesForLost(ctx context.Context, db *sql.DB, lostID int64) ([]model.MatchRecord, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM match_records WHERE lost_id = ? ORDER BY score DESC, id`, lostID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

// ListPendingMatches returns match records whose notifications were never sent.
func ListPendingMatches(ctx context.Context, db *sql.DB) ([]model.MatchRecord, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM match_records WHERE notified = 0 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

// MarkMatchNotified sets the notified flag of a match record. It returns false
// when the flag was already set, so only one caller ever wins.
func MarkMatchNotified(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	return markNotified(ctx, db, id)
}

// NotifyMatch sets the notified flag of a match record and stores its
// notifications in one transaction. When the flag was already set nothing is
// stored and false is returned.
func NotifyMatch(ctx context.Context, db *sql.DB, matchID int64, notes []model.Notification) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	claimed, err := markNotified(ctx, tx, matchID)
	if err != nil || !claimed {
		return false, err
	}

	for _, n := range notes {
		if _, err := insertNotification(ctx, tx, n); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing match notifications: %w", err)
	}
	return true, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func markNotified(ctx context.Context, ex execer, id int64) (bool, error) {
	result, err := ex.ExecContext(ctx,
		`UPDATE match_records SET notified = 1 WHERE id = ? AND notified = 0`, id,
	)
	if err != nil {
		return false, fmt.Errorf("marking match notified: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("marking match notified: %w", err)
	}
	return n == 1, nil
}

func collectMatches(rows *sql.Rows) ([]model.MatchRecord, error) {
	var matches []model.MatchRecord
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning match record: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
