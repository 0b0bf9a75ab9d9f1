package localstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

const settingUIHidden = "ui_hidden"

// Store wraps the SQLite file with the three persistence surfaces the front
// end expects: progress fingerprints, panel states and the UI-hidden flag.
// Writes are read-modify-write with last-write-wins; a second process against
// the same file can race, which is accepted.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the state database at path and applies the schema.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// OpenDefault resolves the default database path and opens the store.
func OpenDefault() (*Store, error) {
	path, err := DBPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Progress fingerprints ---

// SetFingerprint records a fingerprint as done. Idempotent.
func (s *Store) SetFingerprint(ctx context.Context, fp string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO Progress (Fingerprint) VALUES (?)`, fp)
	return err
}

// DeleteFingerprint removes a fingerprint. Removing an absent one is a no-op.
func (s *Store) DeleteFingerprint(ctx context.Context, fp string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM Progress WHERE Fingerprint = ?`, fp)
	return err
}

// ListFingerprints returns the full persisted fingerprint set.
func (s *Store) ListFingerprints(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT Fingerprint FROM Progress`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, err
		}
		out[fp] = true
	}
	return out, rows.Err()
}

// ClearFingerprints empties the fingerprint set.
func (s *Store) ClearFingerprints(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM Progress`)
	return err
}

// --- Panel states ---

// SetPanelStates replaces the stored panel collapse map.
func (s *Store) SetPanelStates(ctx context.Context, states map[string]bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM PanelStates`); err != nil {
		_ = tx.Rollback()
		return err
	}
	for panel, collapsed := range states {
		if _, err := tx.ExecContext(ctx, `INSERT INTO PanelStates (Panel, Collapsed) VALUES (?,?)`, panel, collapsed); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// PanelStates returns the stored panel collapse map; absent rows mean expanded.
func (s *Store) PanelStates(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT Panel, Collapsed FROM PanelStates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var panel string
		var collapsed bool
		if err := rows.Scan(&panel, &collapsed); err != nil {
			return nil, err
		}
		out[panel] = collapsed
	}
	return out, rows.Err()
}

// --- UI visibility ---

// SetUIHidden stores the overall UI-hidden preference.
func (s *Store) SetUIHidden(ctx context.Context, hidden bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO Settings (Key, Value) VALUES (?,?) ON CONFLICT(Key) DO UPDATE SET Value = excluded.Value`,
		settingUIHidden, strconv.FormatBool(hidden))
	return err
}

// UIHidden returns the stored UI-hidden preference. A missing or malformed
// value is treated as false.
func (s *Store) UIHidden(ctx context.Context) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT Value FROM Settings WHERE Key = ?`, settingUIHidden).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	hidden, err := strconv.ParseBool(value)
	if err != nil {
		return false, nil
	}
	return hidden, nil
}
