package storage

import (
	"database/sql"
	"fmt"
)

// SQLiteKV stores values in a single key-value table of a SQLite database
type SQLiteKV struct {
	db *sql.DB
}

// NewSQLiteKV creates a SQLite-backed store over an open database handle.
// The backing table is created if it does not exist.
func NewSQLiteKV(db *sql.DB) (*SQLiteKV, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS app_state (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create app_state table: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

// Get retrieves a value by key
func (s *SQLiteKV) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value under a key
func (s *SQLiteKV) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO app_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes a key; absent keys are a no-op
func (s *SQLiteKV) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM app_state WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
