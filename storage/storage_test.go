package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKV is an in-memory KeyValue backend for tests.
type memKV struct {
	values map[string]string
}

func newMemKV() *memKV {
	return &memKV{values: make(map[string]string)}
}

func (m *memKV) Get(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memKV) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memKV) Delete(key string) error {
	delete(m.values, key)
	return nil
}

func (m *memKV) Close() error { return nil }

func TestCredentialRoundTrip(t *testing.T) {
	store := NewStore(newMemKV())

	cred := Credential{
		AccessToken:     "access",
		RefreshToken:    "refresh",
		ExpiresAtMillis: 1767225600000,
	}
	require.NoError(t, store.SetCredential(cred))

	got, err := store.Credential()
	require.NoError(t, err)
	assert.Equal(t, cred, got)
}

func TestCredentialAbsentIsZero(t *testing.T) {
	store := NewStore(newMemKV())

	got, err := store.Credential()
	require.NoError(t, err)
	assert.Equal(t, Credential{}, got)
	assert.False(t, got.HasRefreshToken())
}

func TestSetAccessTokenKeepsRefreshToken(t *testing.T) {
	store := NewStore(newMemKV())
	require.NoError(t, store.SetCredential(Credential{
		AccessToken:     "old",
		RefreshToken:    "refresh",
		ExpiresAtMillis: 1,
	}))

	require.NoError(t, store.SetAccessToken("new", 2))

	got, err := store.Credential()
	require.NoError(t, err)
	assert.Equal(t, "new", got.AccessToken)
	assert.Equal(t, "refresh", got.RefreshToken)
	assert.EqualValues(t, 2, got.ExpiresAtMillis)
}

func TestClearCredential(t *testing.T) {
	store := NewStore(newMemKV())
	require.NoError(t, store.SetCredential(Credential{
		AccessToken:     "access",
		RefreshToken:    "refresh",
		ExpiresAtMillis: 1,
	}))

	require.NoError(t, store.ClearCredential())

	got, err := store.Credential()
	require.NoError(t, err)
	assert.Equal(t, Credential{}, got)
}

func TestCorruptExpiryReported(t *testing.T) {
	kv := newMemKV()
	kv.values["access_token_expires_at"] = "not-a-number"
	store := NewStore(kv)

	_, err := store.Credential()
	assert.ErrorIs(t, err, ErrStorageCorrupt)
}

func TestLikedVideosRoundTrip(t *testing.T) {
	store := NewStore(newMemKV())

	videos := []LikedVideo{
		{
			ID:           "dQw4w9WgXcQ",
			Title:        "Never Gonna Give You Up",
			ChannelTitle: "Rick Astley",
			PublishedAt:  time.Date(2009, 10, 25, 6, 57, 33, 0, time.UTC),
			Tags:         []string{"music"},
			ViewCount:    1400000000,
			LikeCount:    16000000,
			PulledAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{ID: "second", Title: "Second"},
	}
	require.NoError(t, store.SetLikedVideos(videos))

	got, err := store.LikedVideos()
	require.NoError(t, err)
	assert.Equal(t, videos, got)
}

func TestLikedVideosAbsentIsEmpty(t *testing.T) {
	store := NewStore(newMemKV())

	got, err := store.LikedVideos()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestClearLikedVideos(t *testing.T) {
	store := NewStore(newMemKV())
	require.NoError(t, store.SetLikedVideos([]LikedVideo{{ID: "A"}}))

	require.NoError(t, store.ClearLikedVideos())

	got, err := store.LikedVideos()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSortPrefsDefault(t *testing.T) {
	store := NewStore(newMemKV())

	option, order := store.SortPrefs()
	assert.Equal(t, SortByAddedDate, option)
	assert.Equal(t, SortDescending, order)
}

func TestSortPrefsRoundTrip(t *testing.T) {
	store := NewStore(newMemKV())

	require.NoError(t, store.SetSortPrefs(SortByViewCount, SortAscending))

	option, order := store.SortPrefs()
	assert.Equal(t, SortByViewCount, option)
	assert.Equal(t, SortAscending, order)
}

func TestSortPrefsIgnoresUnknownStoredValue(t *testing.T) {
	kv := newMemKV()
	kv.values["sort_option"] = "bogus"
	store := NewStore(kv)

	option, _ := store.SortPrefs()
	assert.Equal(t, SortByAddedDate, option)
}

func TestAccessTokenValidBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cred Credential
		want bool
	}{
		{"valid", Credential{AccessToken: "a", ExpiresAtMillis: now.UnixMilli() + 1}, true},
		{"expires exactly now", Credential{AccessToken: "a", ExpiresAtMillis: now.UnixMilli()}, false},
		{"expired", Credential{AccessToken: "a", ExpiresAtMillis: now.UnixMilli() - 1}, false},
		{"no token", Credential{ExpiresAtMillis: now.UnixMilli() + 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cred.AccessTokenValid(now))
		})
	}
}

func TestWatchURL(t *testing.T) {
	v := LikedVideo{ID: "dQw4w9WgXcQ"}
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", v.WatchURL())
}

func TestParseSortOption(t *testing.T) {
	for _, valid := range []string{"addedDate", "title", "viewCount", "likeCount", "likeViewRatio", "date"} {
		got, ok := ParseSortOption(valid)
		assert.True(t, ok, valid)
		assert.EqualValues(t, valid, got)
	}

	_, ok := ParseSortOption("random")
	assert.False(t, ok)
}
