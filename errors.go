package ytliked

import (
	"ytliked/auth"
	"ytliked/storage"
	"ytliked/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytliked.ErrSyncInProgress) {
//		fmt.Println("A scan is already running")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var authErr *ytliked.AuthError
//	if errors.As(err, &authErr) {
//		fmt.Printf("Auth %s failed: %v\n", authErr.Op, authErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// AuthError wraps errors during credential lifecycle operations.
	AuthError = auth.AuthError
	// SyncError wraps errors during liked-video fetching and reconciliation.
	SyncError = youtube.SyncError
	// StorageError wraps errors during storage operations.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrNoRefreshToken indicates login has never completed (or was revoked).
	ErrNoRefreshToken = auth.ErrNoRefreshToken
	// ErrNotDesktop indicates no local listener or browser is available.
	ErrNotDesktop = auth.ErrNotDesktop
	// ErrStateMismatch indicates the login redirect carried a bad state parameter.
	ErrStateMismatch = auth.ErrStateMismatch

	// Sync errors
	// ErrBadResponse indicates a malformed API response.
	ErrBadResponse = youtube.ErrBadResponse
	// ErrPageLimit indicates pagination exceeded the page cap.
	ErrPageLimit = youtube.ErrPageLimit
	// ErrSyncInProgress indicates another scan is already running.
	ErrSyncInProgress = youtube.ErrSyncInProgress

	// Storage errors
	// ErrNotFound indicates an entity was not found in storage.
	ErrNotFound = storage.ErrNotFound
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = storage.ErrInvalidInput
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)
