package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/lostfound/internal/model"
)

// ListUnresolvedReports returns every unresolved lost and found report. Both
// lists are read inside one transaction so they form a consistent snapshot.
func ListUnresolvedReports(ctx context.Context, db *sql.DB) ([]model.LostReport, []model.FoundReport, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	lostRows, err := tx.QueryContext(ctx,
		`SELECT `+lostColumns+` FROM lost_reports WHERE resolved = 0 ORDER BY id`,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("listing unresolved lost reports: %w", err)
	}
	lost, err := collectLost(lostRows)
	lostRows.Close()
	if err != nil {
		return nil, nil, err
	}

	foundRows, err := tx.QueryContext(ctx,
		`SELECT `+foundColumns+` FROM found_reports WHERE resolved = 0 ORDER BY id`,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("listing unresolved found reports: %w", err)
	}
	found, err := collectFound(foundRows)
	foundRows.Close()
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("committing snapshot: %w", err)
	}
	return lost, found, nil
}
