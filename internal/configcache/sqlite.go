package configcache

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore persists fetched configuration documents across process
// runs. A CLI invocation pays the config fetch once and later
// invocations reuse the stored layout until the file is removed.
//
// A stale schema is a correctness risk the caller manages by deleting
// the cache file; there is no background refresh.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the cache database at path. Idempotent.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to config cache: %w", err)
	}

	// SQLite supports one writer at a time; keep a single connection to
	// avoid SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply config cache schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load implements Store.
func (s *SQLiteStore) Load(appID int) ([]byte, bool, error) {
	var body []byte
	err := s.db.QueryRow(
		`SELECT config_json FROM app_config WHERE app_id = ?`, appID,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("config cache load app %d: %w", appID, err)
	}
	return body, true, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(appID int, appName string, body []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO app_config (app_id, app_name, config_json, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(app_id) DO UPDATE SET
		   app_name = excluded.app_name,
		   config_json = excluded.config_json,
		   fetched_at = excluded.fetched_at`,
		appID, appName, body, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("config cache save app %d: %w", appID, err)
	}
	return nil
}

// Evict removes one app's stored document.
func (s *SQLiteStore) Evict(appID int) error {
	if _, err := s.db.Exec(`DELETE FROM app_config WHERE app_id = ?`, appID); err != nil {
		return fmt.Errorf("config cache evict app %d: %w", appID, err)
	}
	return nil
}
