package youtube

import (
	"errors"
	"fmt"
)

// Sentinel errors for synchronization operations.
var (
	// ErrBadResponse indicates the remote API returned a response that
	// does not match the expected schema (e.g. an item without an ID).
	ErrBadResponse = errors.New("youtube: malformed API response")
	// ErrPageLimit indicates the pagination loop hit its page cap before
	// the API stopped supplying continuation tokens.
	ErrPageLimit = errors.New("youtube: page limit exceeded")
	// ErrSyncInProgress indicates another scan is already running.
	// Scans are single-writer; overlapping scans would race to overwrite
	// the cache.
	ErrSyncInProgress = errors.New("youtube: sync already in progress")
)

// SyncError wraps errors that occur while fetching or reconciling the
// liked-video list. Any SyncError aborts the whole scan; the cache is
// never left partially merged.
//
//	var syncErr *youtube.SyncError
//	if errors.As(err, &syncErr) {
//		fmt.Printf("Failed to %s: %v\n", syncErr.Op, syncErr.Err)
//	}
type SyncError struct {
	// Op is the operation that failed ("list", "rate", "playlists", "persist").
	Op string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the sync error.
func (e *SyncError) Error() string {
	return fmt.Sprintf("youtube: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *SyncError) Unwrap() error { return e.Err }
