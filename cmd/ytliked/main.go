// Package main provides the ytliked CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"ytliked"
	"ytliked/auth"
	"ytliked/config"
	"ytliked/notes"
	"ytliked/storage"
	"ytliked/youtube"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired-up components a command needs.
type app struct {
	cfg   *config.Config
	store *storage.Store
	tm    *auth.TokenManager
}

// openApp loads configuration and opens the persistent store.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, err := ytliked.OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	tm := auth.NewTokenManager(store, cfg.ClientID, cfg.ClientSecret,
		auth.WithCallbackPort(cfg.CallbackPort),
		auth.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
	return &app{cfg: cfg, store: store, tm: tm}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close store: %v\n", err)
	}
}

// synchronizer builds an API-backed synchronizer for the current credential.
func (a *app) synchronizer(ctx context.Context) (*youtube.Synchronizer, error) {
	client, err := youtube.NewClient(ctx, a.tm.TokenSource(ctx), a.serviceOptions(),
		youtube.WithPageCap(a.cfg.MaxPages))
	if err != nil {
		return nil, err
	}
	return youtube.NewSynchronizer(client, a.store,
		youtube.WithPageSize(a.cfg.PageSize),
		youtube.WithProbeSize(a.cfg.ProbePageSize)), nil
}

// serviceOptions returns extra API service options (overridable for testing).
func (a *app) serviceOptions() []option.ClientOption {
	if url := os.Getenv("YTLIKED_API_URL"); url != "" {
		return []option.ClientOption{option.WithEndpoint(url)}
	}
	return nil
}

// newRootCmd creates the root command for the ytliked CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ytliked",
		Short:   "Sync your YouTube liked videos into local notes",
		Long:    "ytliked keeps a local, queryable copy of your YouTube liked videos and writes them into Markdown daily notes.",
		Version: version,
	}

	rootCmd.SetVersionTemplate("ytliked version {{.Version}}\n")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newUnlikeCmd())
	rootCmd.AddCommand(newPlaylistsCmd())
	rootCmd.AddCommand(newDailyNoteCmd())

	return rootCmd
}

// newLoginCmd creates the login subcommand.
func newLoginCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize access to your YouTube account",
		Long:  "Open the Google consent page in your browser and wait for the authorization to complete.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := ytliked.OpenStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			done := make(chan error, 1)
			tm := auth.NewTokenManager(store, cfg.ClientID, cfg.ClientSecret,
				auth.WithCallbackPort(cfg.CallbackPort),
				auth.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
				auth.WithLoginCallback(func(err error) { done <- err }))

			fmt.Fprintln(cmd.OutOrStdout(), "Opening browser for authorization...")
			if err := tm.Login(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Waiting for authorization...")
			select {
			case err := <-done:
				if err != nil {
					return fmt.Errorf("authorization failed: %w", err)
				}
			case <-time.After(timeout):
				return fmt.Errorf("authorization timed out after %s", timeout)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Successfully authenticated!")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "How long to wait for the browser flow")

	return cmd
}

// newLogoutCmd creates the logout subcommand.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke access and clear local data",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			if a.tm.Logout(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out; token revoked.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out; remote revocation failed but local data was cleared.")
			}
			return nil
		},
	}
}

// newStatusCmd creates the status subcommand.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show credential state, cache size and remote total",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			state, err := a.tm.State()
			if err != nil {
				return err
			}
			videos, err := a.store.LikedVideos()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Credential: %s\n", state)
			fmt.Fprintf(cmd.OutOrStdout(), "Cached videos: %d\n", len(videos))
			if state != storage.Unauthenticated {
				fmt.Fprintf(cmd.OutOrStdout(), "Liked on YouTube: %s\n", a.remoteLikedTotal(cmd.Context()))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Store: %s\n", a.cfg.StorePath())
			return nil
		},
	}
}

// remoteLikedTotal asks the API for the liked-video count. Status must
// stay useful offline, so a failure degrades to a note instead of an
// error.
func (a *app) remoteLikedTotal(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := youtube.NewClient(ctx, a.tm.TokenSource(ctx), a.serviceOptions())
	if err != nil {
		return fmt.Sprintf("unavailable (%v)", err)
	}
	total, err := client.TotalLikedCount(ctx)
	if err != nil {
		return fmt.Sprintf("unavailable (%v)", err)
	}
	return fmt.Sprintf("%d videos", total)
}

// newSyncCmd creates the sync subcommand.
func newSyncCmd() *cobra.Command {
	var full bool
	var latest bool
	var repetitive bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the local cache with your liked videos",
		Long: "Fetch your liked videos and merge them into the local cache. " +
			"The default incremental scan only adds; pass --repetitive to also drop videos unliked remotely, " +
			"--latest for a cheap newest-first probe, or --full to rebuild the cache from scratch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if full && latest {
				return fmt.Errorf("--full and --latest are mutually exclusive")
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			sync, err := a.synchronizer(ctx)
			if err != nil {
				return err
			}

			var result *youtube.SyncResult
			switch {
			case full:
				result, err = sync.FullScan(ctx)
			case latest:
				result, err = sync.LatestScan(ctx)
			default:
				result, err = sync.IncrementalScan(ctx, repetitive)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %d, removed %d; cache now holds %d videos.\n",
				len(result.Added), len(result.Removed), len(result.FinalCache))
			for _, v := range result.Added {
				fmt.Fprintf(cmd.OutOrStdout(), "  + %s\n", v.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Rebuild the cache from the complete remote list")
	cmd.Flags().BoolVar(&latest, "latest", false, "Only probe for videos liked since the last scan")
	cmd.Flags().BoolVar(&repetitive, "repetitive", false, "Also remove videos no longer liked remotely")

	return cmd
}

// newListCmd creates the list subcommand.
func newListCmd() *cobra.Command {
	var search string
	var sortBy string
	var order string
	var page int
	var perPage int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached liked videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			videos, err := a.store.LikedVideos()
			if err != nil {
				return err
			}

			sortOpt, sortOrder, err := resolveSortPrefs(a.store, sortBy, order)
			if err != nil {
				return err
			}

			videos = storage.Filter(videos, search)
			videos = storage.Sort(videos, sortOpt, sortOrder)

			pages := storage.PageCount(len(videos), perPage)
			videos = storage.Page(videos, page, perPage)

			for _, v := range videos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%s)\n", v.ID, v.Title, v.ChannelTitle)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d\n", page, pages)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by title or tag substring")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort field (addedDate, title, viewCount, likeCount, likeViewRatio, date)")
	cmd.Flags().StringVar(&order, "order", "", "Sort order (ASC or DESC)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "Videos per page")

	return cmd
}

// resolveSortPrefs merges the command-line sort flags with the stored
// preferences, persisting any explicit flag as the new preference.
func resolveSortPrefs(store *storage.Store, sortBy, order string) (storage.SortOption, storage.SortOrder, error) {
	sortOpt, sortOrder := store.SortPrefs()

	if sortBy != "" {
		parsed, ok := storage.ParseSortOption(sortBy)
		if !ok {
			return "", "", fmt.Errorf("invalid sort %q", sortBy)
		}
		sortOpt = parsed
	}
	switch order {
	case "":
	case string(storage.SortAscending):
		sortOrder = storage.SortAscending
	case string(storage.SortDescending):
		sortOrder = storage.SortDescending
	default:
		return "", "", fmt.Errorf("invalid order %q: must be ASC or DESC", order)
	}

	if sortBy != "" || order != "" {
		if err := store.SetSortPrefs(sortOpt, sortOrder); err != nil {
			return "", "", err
		}
	}
	return sortOpt, sortOrder, nil
}

// newUnlikeCmd creates the unlike subcommand.
func newUnlikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlike <video-id>",
		Short: "Remove the like from a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			sync, err := a.synchronizer(ctx)
			if err != nil {
				return err
			}
			remaining, err := sync.Unlike(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Unliked %s; %d videos remain in cache.\n", args[0], len(remaining))
			return nil
		},
	}
}

// newPlaylistsCmd creates the playlists subcommand.
func newPlaylistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "playlists",
		Short: "List your playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			client, err := youtube.NewClient(ctx, a.tm.TokenSource(ctx), a.serviceOptions())
			if err != nil {
				return err
			}
			playlists, err := client.Playlists(ctx)
			if err != nil {
				return err
			}

			for _, p := range playlists {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%d items)\n", p.ID, p.Title, p.ItemCount)
			}
			return nil
		},
	}
}

// newDailyNoteCmd creates the daily-note subcommand.
func newDailyNoteCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "daily-note",
		Short: "Append newly liked videos to today's daily note",
		Long:  "Run a latest scan and append the videos it finds to today's Markdown daily note.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			noteDir := dir
			if noteDir == "" {
				noteDir = a.cfg.DailyNoteDir
			}
			if noteDir == "" {
				return fmt.Errorf("no daily note directory: pass --dir or set YTLIKED_DAILY_NOTE_DIR")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			sync, err := a.synchronizer(ctx)
			if err != nil {
				return err
			}
			result, err := sync.LatestScan(ctx)
			if err != nil {
				return err
			}

			if err := notes.AppendLikedVideos(noteDir, time.Now(), result.Added); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appended %d videos to %s\n",
				len(result.Added), notes.DailyNotePath(noteDir, time.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Daily note directory (defaults to configuration)")

	return cmd
}
