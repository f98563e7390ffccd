package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	pub "ytliked/storage"
)

// SQLiteStore implements storage.KeyValue backed by a SQLite database.
// Each key is one row; values are stored as TEXT.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath and
// ensures the key/value schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, &pub.StorageError{Op: "open", Key: dbPath, Err: err}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, &pub.StorageError{Op: "open", Key: dbPath, Err: err}
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &pub.StorageError{Op: "open", Key: dbPath, Err: err}
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the value stored under key, or storage.ErrNotFound.
func (s *SQLiteStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", &pub.StorageError{Op: "read", Key: key, Err: pub.ErrNotFound}
		}
		return "", &pub.StorageError{Op: "read", Key: key, Err: err}
	}
	return value, nil
}

// Set stores value under key, overwriting any previous value.
func (s *SQLiteStore) Set(key, value string) error {
	if key == "" {
		return &pub.StorageError{Op: "write", Err: pub.ErrInvalidInput}
	}

	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return &pub.StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return &pub.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
