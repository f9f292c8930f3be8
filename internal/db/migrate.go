package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and use
// syntax shared by SQLite and Postgres. Timestamps are RFC3339 UTC text.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column name") || strings.Contains(msg, "already exists")
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		language     TEXT NOT NULL DEFAULT 'hu',
		home_city    TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		license_plate TEXT NOT NULL,
		nickname      TEXT NOT NULL DEFAULT '',
		carrier       TEXT NOT NULL DEFAULT '',
		is_default    INTEGER NOT NULL DEFAULT 0,
		UNIQUE(user_id, license_plate)
	)`,
	`CREATE TABLE IF NOT EXISTS personalization (
		user_id    TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		interests  TEXT NOT NULL DEFAULT '{}',
		traits     TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		venue       TEXT NOT NULL DEFAULT '',
		category    TEXT NOT NULL DEFAULT '',
		starts_at   TEXT NOT NULL,
		ends_at     TEXT,
		all_day     INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS restaurants (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		cuisine  TEXT NOT NULL DEFAULT '',
		address  TEXT NOT NULL DEFAULT '',
		phone    TEXT NOT NULL DEFAULT '',
		tier     TEXT NOT NULL DEFAULT 'standard'
		         CHECK(tier IN ('gold','silver','standard')),
		promoted INTEGER NOT NULL DEFAULT 0,
		delivery INTEGER NOT NULL DEFAULT 0,
		lat      REAL NOT NULL DEFAULT 0,
		lng      REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id            TEXT PRIMARY KEY,
		restaurant_id TEXT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		name_key      TEXT NOT NULL DEFAULT '',
		price_huf     INTEGER NOT NULL DEFAULT 0,
		available     INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL DEFAULT '',
		query         TEXT NOT NULL,
		intent        TEXT NOT NULL,
		response_text TEXT NOT NULL,
		action_type   TEXT NOT NULL DEFAULT '',
		confidence    REAL NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS behavior_profiles (
		session_id TEXT PRIMARY KEY,
		profile    TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_user ON vehicles(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_starts ON events(starts_at)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_restaurant ON menu_items(restaurant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_name_key ON menu_items(name_key)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_user_created ON interactions(user_id, created_at)`,
}
