package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ytliked"
	"ytliked/config"
	"ytliked/storage"
)

func setStatusEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("YTLIKED_CLIENT_ID", "client-id")
	t.Setenv("YTLIKED_CLIENT_SECRET", "client-secret")
	t.Setenv("YTLIKED_DATA_DIR", dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

// seedAuthenticatedStore writes a valid credential and one cached video
// into the configured store, then releases it for the command under test.
func seedAuthenticatedStore(t *testing.T) {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	store, err := ytliked.OpenStore(cfg)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer store.Close()

	err = store.SetCredential(storage.Credential{
		AccessToken:     "token",
		RefreshToken:    "refresh",
		ExpiresAtMillis: time.Now().Add(time.Hour).UnixMilli(),
	})
	if err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}
	if err := store.SetLikedVideos([]storage.LikedVideo{{ID: "A", Title: "Cached"}}); err != nil {
		t.Fatalf("SetLikedVideos() error = %v", err)
	}
}

func runStatus(t *testing.T) string {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"status"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("status failed: %v\n%s", err, out.String())
	}
	return out.String()
}

func TestStatusShowsRemoteTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[{"id":"A","snippet":{"title":"t"}}],"pageInfo":{"totalResults":137}}`)
	}))
	defer srv.Close()

	setStatusEnv(t)
	t.Setenv("YTLIKED_API_URL", srv.URL)
	seedAuthenticatedStore(t)

	output := runStatus(t)

	if !strings.Contains(output, "Credential: valid") {
		t.Errorf("missing credential state:\n%s", output)
	}
	if !strings.Contains(output, "Cached videos: 1") {
		t.Errorf("missing cache size:\n%s", output)
	}
	if !strings.Contains(output, "Liked on YouTube: 137 videos") {
		t.Errorf("missing remote total:\n%s", output)
	}
}

func TestStatusDegradesWhenRemoteUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":500,"message":"backend"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	setStatusEnv(t)
	t.Setenv("YTLIKED_API_URL", srv.URL)
	seedAuthenticatedStore(t)

	output := runStatus(t)

	if !strings.Contains(output, "Liked on YouTube: unavailable") {
		t.Errorf("remote failure did not degrade gracefully:\n%s", output)
	}
	if !strings.Contains(output, "Cached videos: 1") {
		t.Errorf("local status lost on remote failure:\n%s", output)
	}
}

func TestStatusUnauthenticatedSkipsRemote(t *testing.T) {
	setStatusEnv(t)

	output := runStatus(t)

	if !strings.Contains(output, "Credential: unauthenticated") {
		t.Errorf("missing credential state:\n%s", output)
	}
	if strings.Contains(output, "Liked on YouTube") {
		t.Errorf("remote total printed without a credential:\n%s", output)
	}
}
