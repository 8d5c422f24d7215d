package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore tracks which vacancies the watcher has already announced.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the seen_vacancies table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between the poller and cleanup.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen_vacancies (
		vacancy_key TEXT PRIMARY KEY,
		first_seen  DATETIME NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen_vacancies table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// HasSeen returns true if key has already been recorded.
func (s *SQLiteStore) HasSeen(key string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_vacancies WHERE vacancy_key = ?", key).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", key, err)
	}
	return true, nil
}

// MarkSeen records key. Marking an already-seen key is a no-op.
func (s *SQLiteStore) MarkSeen(key string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO seen_vacancies (vacancy_key, first_seen) VALUES (?, ?)",
		key, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("marking vacancy %s as seen: %w", key, err)
	}
	return nil
}

// Cleanup deletes entries first seen longer ago than olderThan.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().UTC().Add(-olderThan)
	if _, err := s.db.Exec("DELETE FROM seen_vacancies WHERE first_seen < ?", cutoff); err != nil {
		return fmt.Errorf("cleaning up vacancies older than %v: %w", olderThan, err)
	}
	return nil
}

// IsEmpty returns true if nothing has been recorded yet.
func (s *SQLiteStore) IsEmpty() (bool, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM seen_vacancies").Scan(&count); err != nil {
		return false, fmt.Errorf("checking if store is empty: %w", err)
	}
	return count == 0, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
