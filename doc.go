// Package ytliked synchronizes a YouTube account's liked videos into a
// local Markdown-friendly cache.
//
// It manages the OAuth credential lifecycle and keeps an ordered local
// copy of the liked-videos list that survives restarts.
//
// Overview
//
// The library is organized around two components:
//
//   - auth.TokenManager: interactive login, transparent token refresh,
//     and revocation on logout
//   - youtube.Synchronizer: full, incremental, and latest scans of the
//     liked-videos list, plus remote unlike
//
// Quick Start
//
// Authenticate and run a scan:
//
//	ctx := context.Background()
//	store, err := ytliked.OpenStore(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	tm := auth.NewTokenManager(store, cfg.ClientID, cfg.ClientSecret)
//	client, err := youtube.NewClient(ctx, tm.TokenSource(ctx), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sync := youtube.NewSynchronizer(client, store)
//	result, err := sync.IncrementalScan(ctx, false)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, v := range result.Added {
//		fmt.Println(v.Title)
//	}
//
// Configuration
//
// ytliked uses a configuration system that loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (ytliked.json or ~/.config/ytliked/ytliked.json)
//   3. Default values (lowest priority)
//
// Environment variables:
//
//   - YTLIKED_CLIENT_ID: OAuth client ID
//   - YTLIKED_CLIENT_SECRET: OAuth client secret
//   - YTLIKED_CALLBACK_PORT: Loopback port for the login redirect
//   - YTLIKED_DATA_DIR: Directory holding the persistent store
//   - YTLIKED_STORE_BACKEND: "json" or "sqlite"
//   - YTLIKED_PAGE_SIZE: Videos fetched per page (1..50)
//   - YTLIKED_PROBE_PAGE_SIZE: First-page size for latest scans
//   - YTLIKED_MAX_PAGES: Page cap for full scans
//   - YTLIKED_HTTP_TIMEOUT: HTTP client timeout
//   - YTLIKED_DAILY_NOTE_DIR: Directory for Markdown daily notes
//
// Error Handling
//
// All operations return errors that implement standard Go error handling:
//
// Checking for sentinel errors:
//
//	if errors.Is(err, ytliked.ErrNoRefreshToken) {
//		fmt.Println("Run login first")
//	}
//
// Extracting wrapped error details:
//
//	var syncErr *ytliked.SyncError
//	if errors.As(err, &syncErr) {
//		fmt.Printf("Sync %s failed: %v\n", syncErr.Op, syncErr.Err)
//	}
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - auth: OAuth credential lifecycle
//   - youtube: Liked-video fetching and cache reconciliation
//   - storage: Persistent data storage and local queries
//   - notes: Markdown daily-note output
//   - config: Configuration management
//
package ytliked
