// Package storage implements the KeyValue backends ytliked persists to:
// a single JSON file with atomic writes and a file lock, and a SQLite
// database for users who prefer a queryable store.
package storage

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	pub "ytliked/storage"
)

const (
	schemaVersion = "1.0"
	lockTimeout   = 5 * time.Second
)

// JSONFileStore implements storage.KeyValue using a single JSON file.
// The whole file is rewritten atomically on every mutation; an exclusive
// file lock guards against a second process opening the same store.
type JSONFileStore struct {
	path string
	lock *FileLock
	data *fileData
	mu   sync.RWMutex
}

// fileData is the top-level JSON structure.
type fileData struct {
	Version   string            `json:"version"`
	UpdatedAt time.Time         `json:"updated_at"`
	Values    map[string]string `json:"values"`
}

// NewJSONFileStore creates a JSON file store at the given path.
// If the file exists, it is loaded; otherwise an empty store is created.
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	s := &JSONFileStore{
		path: path,
		lock: NewFileLock(path),
	}

	if err := s.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}

	if err := s.load(); err != nil {
		s.lock.Unlock()
		return nil, err
	}

	return s, nil
}

// load reads the JSON file into memory. Creates empty data if file doesn't exist.
func (s *JSONFileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.data = &fileData{
				Version:   schemaVersion,
				UpdatedAt: time.Now(),
				Values:    make(map[string]string),
			}
			// Save immediately to catch permission errors early
			return s.save()
		}
		return &pub.StorageError{Op: "read", Key: s.path, Err: err}
	}

	s.data = &fileData{}
	if err := json.Unmarshal(raw, s.data); err != nil {
		return &pub.StorageError{Op: "read", Key: s.path, Err: pub.ErrStorageCorrupt}
	}
	if s.data.Values == nil {
		s.data.Values = make(map[string]string)
	}

	return nil
}

// save persists the data to disk atomically.
func (s *JSONFileStore) save() error {
	s.data.UpdatedAt = time.Now()

	if err := WriteJSONAtomic(s.path, s.data); err != nil {
		return &pub.StorageError{Op: "write", Key: s.path, Err: err}
	}
	return nil
}

// Get returns the value stored under key, or storage.ErrNotFound.
func (s *JSONFileStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.data.Values[key]
	if !exists {
		return "", &pub.StorageError{Op: "read", Key: key, Err: pub.ErrNotFound}
	}
	return value, nil
}

// Set stores value under key and persists immediately.
func (s *JSONFileStore) Set(key, value string) error {
	if key == "" {
		return &pub.StorageError{Op: "write", Err: pub.ErrInvalidInput}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Values[key] = value
	return s.save()
}

// Delete removes key and persists. Missing keys are not an error.
func (s *JSONFileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data.Values[key]; !exists {
		return nil
	}
	delete(s.data.Values, key)
	return s.save()
}

// Close releases the file lock held by the store.
func (s *JSONFileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock.Unlock()
}
