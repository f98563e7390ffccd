package storage

import "time"

// Credential represents the OAuth2 grant state. Empty strings mean the
// field is absent; an ExpiresAtMillis of 0 means unknown (treated as
// already expired).
type Credential struct {
	// AccessToken is the bearer token presented to the API.
	AccessToken string `json:"access_token"`
	// RefreshToken is the long-lived token used to mint new access tokens.
	RefreshToken string `json:"refresh_token"`
	// ExpiresAtMillis is the access token expiry as epoch milliseconds.
	ExpiresAtMillis int64 `json:"expires_at_millis"`
}

// CredentialState describes where a credential sits in its lifecycle.
type CredentialState string

const (
	// Unauthenticated means no refresh token is stored; the user must log in.
	Unauthenticated CredentialState = "unauthenticated"
	// AuthenticatedValid means an unexpired access token is available.
	AuthenticatedValid CredentialState = "valid"
	// AuthenticatedExpired means a refresh token exists but the access
	// token is missing or past expiry.
	AuthenticatedExpired CredentialState = "expired"
)

// HasRefreshToken reports whether a refresh token is stored.
func (c Credential) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// AccessTokenValid reports whether the access token may authorize a
// request at the given instant. A token at or past its expiry is invalid.
func (c Credential) AccessTokenValid(now time.Time) bool {
	return c.AccessToken != "" && now.UnixMilli() < c.ExpiresAtMillis
}

// State returns the lifecycle state of the credential at the given instant.
func (c Credential) State(now time.Time) CredentialState {
	if !c.HasRefreshToken() {
		return Unauthenticated
	}
	if c.AccessTokenValid(now) {
		return AuthenticatedValid
	}
	return AuthenticatedExpired
}

// LikedVideo is one cached snapshot of a remotely liked video. ID is the
// stable remote identifier and the join key against API results. PulledAt
// records when this snapshot entered the cache and is never rewritten;
// reconciliation only ever adds or removes whole entries.
type LikedVideo struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID string `json:"id"`
	// Title is the video title.
	Title string `json:"title"`
	// ChannelID is the YouTube channel ID the video belongs to.
	ChannelID string `json:"channel_id"`
	// ChannelTitle is the display name of the channel.
	ChannelTitle string `json:"channel_title"`
	// PublishedAt is when the video was published on YouTube.
	PublishedAt time.Time `json:"published_at"`
	// Tags is the ordered tag list from the video snippet, possibly empty.
	Tags []string `json:"tags,omitempty"`
	// ViewCount is the view count at pull time.
	ViewCount uint64 `json:"view_count"`
	// LikeCount is the like count at pull time.
	LikeCount uint64 `json:"like_count"`
	// ThumbnailURL is the default thumbnail URL.
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	// PulledAt is when this snapshot was stored locally. Not the remote
	// publish time.
	PulledAt time.Time `json:"pulled_at"`
}

// WatchURL returns the full YouTube URL for this video.
func (v LikedVideo) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// SortOption selects the field the liked-video list is ordered by.
type SortOption string

const (
	// SortByAddedDate orders by position in the cache (liked order).
	SortByAddedDate SortOption = "addedDate"
	// SortByTitle orders lexicographically by title.
	SortByTitle SortOption = "title"
	// SortByViewCount orders by view count, highest first.
	SortByViewCount SortOption = "viewCount"
	// SortByLikeCount orders by like count, highest first.
	SortByLikeCount SortOption = "likeCount"
	// SortByLikeViewRatio orders by likes-per-view, highest first.
	SortByLikeViewRatio SortOption = "likeViewRatio"
	// SortByPublishDate orders by remote publish time, newest first.
	SortByPublishDate SortOption = "date"
)

// ParseSortOption maps a stored string to a SortOption.
func ParseSortOption(raw string) (SortOption, bool) {
	switch SortOption(raw) {
	case SortByAddedDate, SortByTitle, SortByViewCount, SortByLikeCount,
		SortByLikeViewRatio, SortByPublishDate:
		return SortOption(raw), true
	}
	return "", false
}

// SortOrder flips the direction of the selected sort.
type SortOrder string

const (
	// SortDescending keeps the option's natural direction.
	SortDescending SortOrder = "DESC"
	// SortAscending reverses it.
	SortAscending SortOrder = "ASC"
)
