// Package storage provides abstractions for persisting ytliked data.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for common storage conditions.
var (
	// ErrNotFound indicates the requested key was not found.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidInput indicates invalid or malformed input was provided.
	ErrInvalidInput = errors.New("storage: invalid input")
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = errors.New("storage: data corruption detected")
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = errors.New("storage: lock acquisition timeout")
)

// StorageError wraps storage errors with operation and key context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s: %v\n", storErr.Op, storErr.Key, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("read", "write", "delete").
	Op string
	// Key is the storage key involved, if applicable.
	Key string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }

// KeyValue is the persistence primitive all ytliked state is built on:
// a flat string-to-string store. Implementations must be safe for
// concurrent use.
type KeyValue interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)
	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Close releases any resources held by the store.
	Close() error
}

// Storage keys. All values are string-encoded; the liked-video cache is a
// JSON-encoded sequence and the expiry is a stringified millisecond epoch.
const (
	keyRefreshToken = "refresh_token"
	keyAccessToken  = "access_token"
	keyAccessExpiry = "access_token_expires_at"
	keyLikedVideos  = "liked_videos"
	keySortOption   = "sort_option"
	keySortOrder    = "sort_order"
)

// Store is the domain-level view over a KeyValue backend. It owns the
// OAuth credential, the liked-video cache and the UI sort preferences.
// A single Store instance is constructed per process and shared by the
// token manager and the synchronizer.
type Store struct {
	kv KeyValue
}

// NewStore creates a Store over the given KeyValue backend.
func NewStore(kv KeyValue) *Store {
	return &Store{kv: kv}
}

// Close releases the underlying KeyValue backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// Credential returns the persisted OAuth credential. Missing fields come
// back zero-valued; a fully absent credential is not an error.
func (s *Store) Credential() (Credential, error) {
	var cred Credential

	refresh, err := s.kv.Get(keyRefreshToken)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Credential{}, &StorageError{Op: "read", Key: keyRefreshToken, Err: err}
	}
	cred.RefreshToken = refresh

	access, err := s.kv.Get(keyAccessToken)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Credential{}, &StorageError{Op: "read", Key: keyAccessToken, Err: err}
	}
	cred.AccessToken = access

	expiry, err := s.kv.Get(keyAccessExpiry)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return cred, nil
		}
		return Credential{}, &StorageError{Op: "read", Key: keyAccessExpiry, Err: err}
	}
	if expiry != "" {
		millis, err := strconv.ParseInt(expiry, 10, 64)
		if err != nil {
			return Credential{}, &StorageError{Op: "read", Key: keyAccessExpiry, Err: ErrStorageCorrupt}
		}
		cred.ExpiresAtMillis = millis
	}

	return cred, nil
}

// SetCredential persists all three credential fields.
func (s *Store) SetCredential(cred Credential) error {
	if err := s.kv.Set(keyRefreshToken, cred.RefreshToken); err != nil {
		return &StorageError{Op: "write", Key: keyRefreshToken, Err: err}
	}
	return s.SetAccessToken(cred.AccessToken, cred.ExpiresAtMillis)
}

// SetAccessToken updates only the access token and its expiry, leaving the
// refresh token untouched. Used by the silent-refresh path.
func (s *Store) SetAccessToken(token string, expiresAtMillis int64) error {
	if err := s.kv.Set(keyAccessToken, token); err != nil {
		return &StorageError{Op: "write", Key: keyAccessToken, Err: err}
	}
	if err := s.kv.Set(keyAccessExpiry, strconv.FormatInt(expiresAtMillis, 10)); err != nil {
		return &StorageError{Op: "write", Key: keyAccessExpiry, Err: err}
	}
	return nil
}

// ClearCredential removes all credential fields.
func (s *Store) ClearCredential() error {
	for _, key := range []string{keyRefreshToken, keyAccessToken, keyAccessExpiry} {
		if err := s.kv.Delete(key); err != nil {
			return &StorageError{Op: "delete", Key: key, Err: err}
		}
	}
	return nil
}

// LikedVideos returns the cached liked-video list, most-recently-liked
// first. An absent cache returns an empty slice.
func (s *Store) LikedVideos() ([]LikedVideo, error) {
	raw, err := s.kv.Get(keyLikedVideos)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []LikedVideo{}, nil
		}
		return nil, &StorageError{Op: "read", Key: keyLikedVideos, Err: err}
	}
	if raw == "" {
		return []LikedVideo{}, nil
	}

	var videos []LikedVideo
	if err := json.Unmarshal([]byte(raw), &videos); err != nil {
		return nil, &StorageError{Op: "read", Key: keyLikedVideos, Err: ErrStorageCorrupt}
	}
	return videos, nil
}

// SetLikedVideos replaces the cached liked-video list wholesale.
func (s *Store) SetLikedVideos(videos []LikedVideo) error {
	if videos == nil {
		videos = []LikedVideo{}
	}
	data, err := json.Marshal(videos)
	if err != nil {
		return &StorageError{Op: "write", Key: keyLikedVideos, Err: err}
	}
	if err := s.kv.Set(keyLikedVideos, string(data)); err != nil {
		return &StorageError{Op: "write", Key: keyLikedVideos, Err: err}
	}
	return nil
}

// ClearLikedVideos removes the cached liked-video list.
func (s *Store) ClearLikedVideos() error {
	if err := s.kv.Delete(keyLikedVideos); err != nil {
		return &StorageError{Op: "delete", Key: keyLikedVideos, Err: err}
	}
	return nil
}

// SortPrefs returns the persisted sort option and order, falling back to
// added-order descending when nothing has been stored yet.
func (s *Store) SortPrefs() (SortOption, SortOrder) {
	option := SortByAddedDate
	if raw, err := s.kv.Get(keySortOption); err == nil && raw != "" {
		if parsed, ok := ParseSortOption(raw); ok {
			option = parsed
		}
	}

	order := SortDescending
	if raw, err := s.kv.Get(keySortOrder); err == nil && raw == string(SortAscending) {
		order = SortAscending
	}

	return option, order
}

// SetSortPrefs persists the sort option and order.
func (s *Store) SetSortPrefs(option SortOption, order SortOrder) error {
	if err := s.kv.Set(keySortOption, string(option)); err != nil {
		return &StorageError{Op: "write", Key: keySortOption, Err: err}
	}
	if err := s.kv.Set(keySortOrder, string(order)); err != nil {
		return &StorageError{Op: "write", Key: keySortOrder, Err: err}
	}
	return nil
}
