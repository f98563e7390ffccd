// Package youtube fetches the authenticated user's liked videos from the
// YouTube Data API and reconciles them against the local cache.
package youtube

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytliked/storage"
)

const (
	// DefaultPageSize is the number of videos requested per list call.
	DefaultPageSize = 50
	// DefaultProbeSize is the small first-page size used by latest scans.
	DefaultProbeSize = 10
	// DefaultPageCap bounds how many pages a full scan may walk before
	// giving up with ErrPageLimit.
	DefaultPageCap = 40

	// requestsPerSecond limits outbound API calls. The Data API enforces
	// a daily quota; pacing requests keeps a runaway pagination loop from
	// burning through it.
	requestsPerSecond = 4
	burstSize         = 2
)

// videoParts are the resource parts requested for every video list call.
var videoParts = []string{"snippet", "statistics", "contentDetails"}

// Page is one page of the remote liked-videos list.
type Page struct {
	// Items are the videos on this page, in API order (most recently
	// liked first).
	Items []storage.LikedVideo
	// NextPageToken continues the listing; empty on the last page.
	NextPageToken string
	// TotalResults is the API's estimate of the full list size.
	TotalResults int64
}

// Playlist is a summary of one of the user's playlists.
type Playlist struct {
	ID        string
	Title     string
	ItemCount int64
}

// Client wraps the YouTube Data API for the operations the synchronizer
// needs. All calls are rate limited and authorized through the supplied
// token source, so an expired access token is refreshed transparently.
type Client struct {
	svc     *youtube.Service
	limiter *rate.Limiter
	pageCap int
	now     func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithPageCap overrides the maximum number of pages a full scan walks.
func WithPageCap(n int) ClientOption {
	return func(c *Client) { c.pageCap = n }
}

// WithClientClock overrides the time source used to stamp fetched videos.
func WithClientClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// NewClient builds a Client on top of the YouTube Data API using the
// given token source. Extra service options (e.g. option.WithEndpoint in
// tests) are passed through to the underlying service.
func NewClient(ctx context.Context, ts oauth2.TokenSource, opts []option.ClientOption, clientOpts ...ClientOption) (*Client, error) {
	svcOpts := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	svc, err := youtube.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, &SyncError{Op: "connect", Err: err}
	}

	c := &Client{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
		pageCap: DefaultPageCap,
		now:     time.Now,
	}
	for _, opt := range clientOpts {
		opt(c)
	}
	return c, nil
}

// LikedVideos fetches one page of the user's liked videos. An empty
// pageToken fetches the first (most recent) page.
func (c *Client) LikedVideos(ctx context.Context, maxResults int64, pageToken string) (*Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &SyncError{Op: "list", Err: err}
	}

	call := c.svc.Videos.List(videoParts).
		MyRating("like").
		MaxResults(maxResults).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, &SyncError{Op: "list", Err: err}
	}

	page := &Page{NextPageToken: resp.NextPageToken}
	if resp.PageInfo != nil {
		page.TotalResults = resp.PageInfo.TotalResults
	}
	pulledAt := c.now()
	for _, item := range resp.Items {
		video, err := convertVideo(item, pulledAt)
		if err != nil {
			return nil, &SyncError{Op: "list", Err: err}
		}
		page.Items = append(page.Items, video)
	}
	return page, nil
}

// AllLikedVideos walks the full liked-videos list page by page and
// returns every video in API order. The walk stops with ErrPageLimit if
// the API keeps supplying continuation tokens past the page cap.
func (c *Client) AllLikedVideos(ctx context.Context, pageSize int64) ([]storage.LikedVideo, error) {
	var all []storage.LikedVideo
	pageToken := ""
	for pages := 0; ; pages++ {
		if pages >= c.pageCap {
			return nil, &SyncError{Op: "list", Err: ErrPageLimit}
		}
		page, err := c.LikedVideos(ctx, pageSize, pageToken)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if page.NextPageToken == "" {
			return all, nil
		}
		pageToken = page.NextPageToken
	}
}

// LikedVideosSince returns the liked videos published after the given
// time. It walks the list like AllLikedVideos and filters locally; the
// API offers no server-side publish-date filter for rated videos.
func (c *Client) LikedVideosSince(ctx context.Context, since time.Time, pageSize int64) ([]storage.LikedVideo, error) {
	all, err := c.AllLikedVideos(ctx, pageSize)
	if err != nil {
		return nil, err
	}
	recent := make([]storage.LikedVideo, 0, len(all))
	for _, v := range all {
		if v.PublishedAt.After(since) {
			recent = append(recent, v)
		}
	}
	return recent, nil
}

// Unlike removes the like rating from the given video. The API call is
// attempted exactly once; a failure is returned to the caller undecorated
// by retries.
func (c *Client) Unlike(ctx context.Context, videoID string) error {
	if videoID == "" {
		return &SyncError{Op: "rate", Err: fmt.Errorf("%w: empty video id", ErrBadResponse)}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return &SyncError{Op: "rate", Err: err}
	}
	if err := c.svc.Videos.Rate(videoID, "none").Context(ctx).Do(); err != nil {
		return &SyncError{Op: "rate", Err: err}
	}
	return nil
}

// Playlists returns a short summary of the user's own playlists.
func (c *Client) Playlists(ctx context.Context) ([]Playlist, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &SyncError{Op: "playlists", Err: err}
	}

	resp, err := c.svc.Playlists.List([]string{"snippet", "contentDetails"}).
		Mine(true).
		MaxResults(5).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &SyncError{Op: "playlists", Err: err}
	}

	playlists := make([]Playlist, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == "" || item.Snippet == nil {
			return nil, &SyncError{Op: "playlists", Err: ErrBadResponse}
		}
		p := Playlist{ID: item.Id, Title: item.Snippet.Title}
		if item.ContentDetails != nil {
			p.ItemCount = item.ContentDetails.ItemCount
		}
		playlists = append(playlists, p)
	}
	return playlists, nil
}

// TotalLikedCount returns the API's count of the user's liked videos
// without walking the whole list.
func (c *Client) TotalLikedCount(ctx context.Context) (int64, error) {
	page, err := c.LikedVideos(ctx, 1, "")
	if err != nil {
		return 0, err
	}
	return page.TotalResults, nil
}

// convertVideo maps an API video resource onto the local model. A
// missing ID or snippet means the response cannot be trusted and the
// whole page is rejected.
func convertVideo(item *youtube.Video, pulledAt time.Time) (storage.LikedVideo, error) {
	if item == nil || item.Id == "" || item.Snippet == nil {
		return storage.LikedVideo{}, fmt.Errorf("%w: video missing id or snippet", ErrBadResponse)
	}

	video := storage.LikedVideo{
		ID:           item.Id,
		Title:        item.Snippet.Title,
		ChannelID:    item.Snippet.ChannelId,
		ChannelTitle: item.Snippet.ChannelTitle,
		Tags:         item.Snippet.Tags,
		PulledAt:     pulledAt,
	}
	if item.Snippet.PublishedAt != "" {
		publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			return storage.LikedVideo{}, fmt.Errorf("%w: bad publishedAt %q", ErrBadResponse, item.Snippet.PublishedAt)
		}
		video.PublishedAt = publishedAt
	}
	if item.Statistics != nil {
		video.ViewCount = item.Statistics.ViewCount
		video.LikeCount = item.Statistics.LikeCount
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
		video.ThumbnailURL = item.Snippet.Thumbnails.Default.Url
	}
	return video, nil
}
