package migrate

import (
	"database/sql"
	"fmt"
)

type Migration struct {
	Version int
	Name    string
	UpSQL   string
}

// Entities are stored as JSON documents with the columns the dev server
// filters on pulled out alongside.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "001_entities",
		UpSQL: `
CREATE TABLE events(
  id TEXT PRIMARY KEY,
  status TEXT NOT NULL DEFAULT 'upcoming',
  scenario_id TEXT,
  game_session_id TEXT,
  doc_json TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE TABLE roles(
  id TEXT PRIMARY KEY,
  doc_json TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE TABLE scenarios(
  id TEXT PRIMARY KEY,
  doc_json TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE TABLE tags(
  id TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  doc_json TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE TABLE game_sessions(
  id TEXT PRIMARY KEY,
  event_id TEXT,
  doc_json TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX idx_events_game_session ON events(game_session_id);
`,
	},
	{
		Version: 2,
		Name:    "002_users",
		UpSQL: `
CREATE TABLE users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  admin INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
`,
	},
}

// Migrate applies migrations in order.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS schema_version(version INTEGER NOT NULL);`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var currentVersion int
	err = tx.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&currentVersion)
	if err == sql.ErrNoRows {
		if _, err := tx.Exec(`INSERT INTO schema_version(version) VALUES (0)`); err != nil {
			return fmt.Errorf("init schema_version: %w", err)
		}
		currentVersion = 0
	} else if err != nil {
		return fmt.Errorf("read schema_version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}
		if _, err := tx.Exec(m.UpSQL); err != nil {
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(`UPDATE schema_version SET version=?`, m.Version); err != nil {
			return fmt.Errorf("update schema_version: %w", err)
		}
		currentVersion = m.Version
	}
	return tx.Commit()
}
