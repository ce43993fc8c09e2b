package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db  *sql.DB
	loc *time.Location
}

// Option configures a Store.
type Option func(*Store)

// WithLocation sets the time zone used to split samples into calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string, opts ...Option) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory(opts ...Option) (*Store, error) {
	return New(":memory:", opts...)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Location is the time zone used for calendar-day grouping.
func (s *Store) Location() *time.Location {
	return s.loc
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS usage_samples (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		ts        INTEGER NOT NULL,
		app       TEXT NOT NULL,
		category  TEXT NOT NULL CHECK (category IN ('rot', 'focus', 'neutral')),
		duration  INTEGER NOT NULL DEFAULT 1 CHECK (duration >= 1)
	);

	CREATE INDEX IF NOT EXISTS idx_samples_ts       ON usage_samples(ts);
	CREATE INDEX IF NOT EXISTS idx_samples_app      ON usage_samples(app COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_samples_category ON usage_samples(category);

	CREATE TABLE IF NOT EXISTS app_categories (
		app         TEXT PRIMARY KEY COLLATE NOCASE,
		category    TEXT NOT NULL CHECK (category IN ('rot', 'focus', 'neutral')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('stats_interval', 'daily'),
		('refresh_every',  '5'),
		('top_apps',       '10');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DeleteAllData irreversibly purges the sample log and category assignments.
func (s *Store) DeleteAllData() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin purge: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM usage_samples`); err != nil {
		return fmt.Errorf("purge samples: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM app_categories`); err != nil {
		return fmt.Errorf("purge categories: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit purge: %w", err)
	}
	return nil
}

// DefaultDBPath returns ~/.config/brainrot/usage.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "brainrot", "usage.db"), nil
}
