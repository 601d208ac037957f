package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id         INTEGER PRIMARY KEY,
    student_id TEXT NOT NULL UNIQUE,
    name       TEXT NOT NULL,
    email      TEXT,
    phone      TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lost_reports (
    id            INTEGER PRIMARY KEY,
    user_id       INTEGER REFERENCES users(id),
    item_name     TEXT NOT NULL,
    category      TEXT NOT NULL,
    lost_location TEXT NOT NULL,
    lost_time     DATETIME NOT NULL,
    description   TEXT,
    color         TEXT,
    brand         TEXT,
    resolved      INTEGER NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_lost_reports_unresolved
    ON lost_reports(resolved, lost_time);

CREATE TABLE IF NOT EXISTS found_reports (
    id             INTEGER PRIMARY KEY,
    user_id        INTEGER REFERENCES users(id),
    item_name      TEXT NOT NULL,
    category       TEXT NOT NULL,
    found_location TEXT NOT NULL,
    found_time     DATETIME NOT NULL,
    description    TEXT,
    color          TEXT,
    brand          TEXT,
    resolved       INTEGER NOT NULL DEFAULT 0,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_found_reports_unresolved
    ON found_reports(resolved, found_time);

CREATE TABLE IF NOT EXISTS match_records (
    id         INTEGER PRIMARY KEY,
    lost_id    INTEGER NOT NULL REFERENCES lost_reports(id),
    found_id   INTEGER NOT NULL REFERENCES found_reports(id),
    score      REAL NOT NULL CHECK (score >= 0 AND score <= 100),
    reason     TEXT,
    notified   INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (lost_id, found_id)
);

CREATE TABLE IF NOT EXISTS notifications (
    id         INTEGER PRIMARY KEY,
    user_id    INTEGER NOT NULL REFERENCES users(id),
    type       TEXT NOT NULL CHECK (type IN ('match', 'reminder', 'announcement')),
    title      TEXT NOT NULL,
    body       TEXT NOT NULL,
    urgent     INTEGER NOT NULL DEFAULT 0,
    item_id    INTEGER,
    match_id   INTEGER REFERENCES match_records(id),
    is_read    INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_user
    ON notifications(user_id, is_read, created_at);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
