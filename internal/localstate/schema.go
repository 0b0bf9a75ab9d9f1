package localstate

import (
	"database/sql"
)

// EnsureSchema creates the state tables if they do not exist. One table per
// localStorage key of the browser original: the progress fingerprint set, the
// panel collapse map, and a generic settings table for the UI-hidden flag.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS Progress (
            Fingerprint TEXT PRIMARY KEY
        );`,
		`CREATE TABLE IF NOT EXISTS PanelStates (
            Panel TEXT PRIMARY KEY,
            Collapsed BOOLEAN NOT NULL DEFAULT 0
        );`,
		`CREATE TABLE IF NOT EXISTS Settings (
            Key TEXT PRIMARY KEY,
            Value TEXT NOT NULL
        );`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
