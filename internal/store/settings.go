package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Setting keys.
const (
	SettingLastSweep = "last_sweep_at"
)

// GetSetting returns the value stored under key; ok is false when unset.
func GetSetting(ctx context.Context, db *sql.DB, key string) (value string, ok bool, err error) {
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores value under key, replacing any previous value.
func SetSetting(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storing setting %s: %w", key, err)
	}
	return nil
}

// GetLastSweep returns when the reminder sweep last completed. The zero time
// means it never ran.
func GetLastSweep(ctx context.Context, db *sql.DB) (time.Time, error) {
	value, ok, err := GetSetting(ctx, db, SettingLastSweep)
	if err != nil || !ok {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", SettingLastSweep, err)
	}
	return t, nil
}

// SetLastSweep records when the reminder sweep completed.
func SetLastSweep(ctx context.Context, db *sql.DB, at time.Time) error {
	return SetSetting(ctx, db, SettingLastSweep, at.UTC().Format(time.RFC3339))
}
