package youtube

import (
	"context"
	"log"
	"sync"

	"ytliked/storage"
)

// VideoSource is the remote side of a scan. *Client implements it; tests
// substitute a fake.
type VideoSource interface {
	// LikedVideos fetches one page of the liked-videos list.
	LikedVideos(ctx context.Context, maxResults int64, pageToken string) (*Page, error)
	// AllLikedVideos fetches the entire liked-videos list in API order.
	AllLikedVideos(ctx context.Context, pageSize int64) ([]storage.LikedVideo, error)
	// Unlike removes the like rating from a video.
	Unlike(ctx context.Context, videoID string) error
}

// SyncResult reports what a scan changed.
type SyncResult struct {
	// Added are the videos that entered the cache, most recent first.
	Added []storage.LikedVideo
	// Removed are the IDs of videos dropped from the cache.
	Removed []string
	// FinalCache is the cache content after the scan, in display order.
	FinalCache []storage.LikedVideo
}

// Synchronizer reconciles the remote liked-videos list with the local
// cache. At most one scan runs at a time; a scan started while another
// is in flight fails immediately with ErrSyncInProgress instead of
// queueing.
//
// The cache is only written after the remote fetch has fully succeeded,
// so a failed scan leaves the previous cache intact.
type Synchronizer struct {
	source VideoSource
	store  *storage.Store

	pageSize  int64
	probeSize int64

	mu sync.Mutex
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithPageSize sets the per-page size used by full and incremental scans.
func WithPageSize(n int64) SyncOption {
	return func(s *Synchronizer) { s.pageSize = n }
}

// WithProbeSize sets the size of the single page fetched by latest scans.
func WithProbeSize(n int64) SyncOption {
	return func(s *Synchronizer) { s.probeSize = n }
}

// NewSynchronizer builds a Synchronizer over the given source and store.
func NewSynchronizer(source VideoSource, store *storage.Store, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		source:    source,
		store:     store,
		pageSize:  DefaultPageSize,
		probeSize: DefaultProbeSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FullScan fetches the entire remote list and replaces the cache with it
// wholesale. Every fetched video is reported as added.
func (s *Synchronizer) FullScan(ctx context.Context) (*SyncResult, error) {
	if !s.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	return s.fullScanLocked(ctx)
}

// fullScanLocked is FullScan without the in-progress guard. LatestScan
// calls it while already holding the lock.
func (s *Synchronizer) fullScanLocked(ctx context.Context) (*SyncResult, error) {
	fetched, err := s.source.AllLikedVideos(ctx, s.pageSize)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetLikedVideos(fetched); err != nil {
		return nil, &SyncError{Op: "persist", Err: err}
	}

	log.Printf("ytliked: full scan fetched %d videos", len(fetched))
	return &SyncResult{Added: fetched, FinalCache: fetched}, nil
}

// IncrementalScan merges the remote list into the cache by set
// difference. Videos liked since the last scan are added in front of the
// surviving cache entries. When repetitive is true the whole remote list
// is fetched and videos absent from it are removed; when false only the
// first page is fetched, which can prove additions but never absence, so
// nothing is removed.
func (s *Synchronizer) IncrementalScan(ctx context.Context, repetitive bool) (*SyncResult, error) {
	if !s.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	var fetched []storage.LikedVideo
	if repetitive {
		all, err := s.source.AllLikedVideos(ctx, s.pageSize)
		if err != nil {
			return nil, err
		}
		fetched = all
	} else {
		page, err := s.source.LikedVideos(ctx, s.pageSize, "")
		if err != nil {
			return nil, err
		}
		fetched = page.Items
	}

	cached, err := s.store.LikedVideos()
	if err != nil {
		return nil, &SyncError{Op: "persist", Err: err}
	}

	cachedIDs := make(map[string]bool, len(cached))
	for _, v := range cached {
		cachedIDs[v.ID] = true
	}
	fetchedIDs := make(map[string]bool, len(fetched))
	for _, v := range fetched {
		fetchedIDs[v.ID] = true
	}

	var added []storage.LikedVideo
	for _, v := range fetched {
		if !cachedIDs[v.ID] {
			added = append(added, v)
		}
	}

	var removed []string
	survivors := cached
	if repetitive {
		survivors = make([]storage.LikedVideo, 0, len(cached))
		for _, v := range cached {
			if fetchedIDs[v.ID] {
				survivors = append(survivors, v)
			} else {
				removed = append(removed, v.ID)
			}
		}
	}

	final := make([]storage.LikedVideo, 0, len(added)+len(survivors))
	final = append(final, added...)
	final = append(final, survivors...)

	if err := s.store.SetLikedVideos(final); err != nil {
		return nil, &SyncError{Op: "persist", Err: err}
	}

	log.Printf("ytliked: incremental scan added %d, removed %d videos", len(added), len(removed))
	return &SyncResult{Added: added, Removed: removed, FinalCache: final}, nil
}

// LatestScan fetches a single small probe page and prepends every video
// liked after the newest cached one. The newest cached video anchors the
// probe; if the cache is empty or the anchor has scrolled off the probe
// page, the scan falls back to a full scan.
func (s *Synchronizer) LatestScan(ctx context.Context) (*SyncResult, error) {
	if !s.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	cached, err := s.store.LikedVideos()
	if err != nil {
		return nil, &SyncError{Op: "persist", Err: err}
	}
	if len(cached) == 0 {
		return s.fullScanLocked(ctx)
	}
	anchor := cached[0].ID

	probe, err := s.source.LikedVideos(ctx, s.probeSize, "")
	if err != nil {
		return nil, err
	}

	anchorAt := -1
	for i, v := range probe.Items {
		if v.ID == anchor {
			anchorAt = i
			break
		}
	}
	if anchorAt == -1 {
		// More videos were liked than the probe page covers, or the
		// anchor was unliked remotely. Either way the probe cannot be
		// stitched onto the cache.
		log.Printf("ytliked: latest scan anchor %s not on probe page, falling back to full scan", anchor)
		return s.fullScanLocked(ctx)
	}

	added := probe.Items[:anchorAt]
	final := make([]storage.LikedVideo, 0, len(added)+len(cached))
	final = append(final, added...)
	final = append(final, cached...)

	if err := s.store.SetLikedVideos(final); err != nil {
		return nil, &SyncError{Op: "persist", Err: err}
	}

	log.Printf("ytliked: latest scan added %d videos", len(added))
	return &SyncResult{Added: added, FinalCache: final}, nil
}

// Unlike removes the like rating remotely and, once the API call
// succeeds, drops the video from the cache immediately. If the video is
// liked again later, the next scan reports it as added.
func (s *Synchronizer) Unlike(ctx context.Context, videoID string) ([]storage.LikedVideo, error) {
	if !s.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	if err := s.source.Unlike(ctx, videoID); err != nil {
		return nil, err
	}

	cached, err := s.store.LikedVideos()
	if err != nil {
		return nil, &SyncError{Op: "persist", Err: err}
	}
	final := make([]storage.LikedVideo, 0, len(cached))
	for _, v := range cached {
		if v.ID != videoID {
			final = append(final, v)
		}
	}
	if err := s.store.SetLikedVideos(final); err != nil {
		return nil, &SyncError{Op: "persist", Err: err}
	}

	log.Printf("ytliked: unliked %s", videoID)
	return final, nil
}

// InProgress reports whether a scan is currently running.
func (s *Synchronizer) InProgress() bool {
	if s.mu.TryLock() {
		s.mu.Unlock()
		return false
	}
	return true
}
