package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("YTLIKED_CLIENT_ID", "client-id")
	t.Setenv("YTLIKED_CLIENT_SECRET", "client-secret")
	t.Setenv("HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 42813, cfg.CallbackPort)
	assert.Equal(t, "json", cfg.StoreBackend)
	assert.EqualValues(t, 50, cfg.PageSize)
	assert.EqualValues(t, 10, cfg.ProbePageSize)
	assert.Equal(t, 40, cfg.MaxPages)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("YTLIKED_CALLBACK_PORT", "9999")
	t.Setenv("YTLIKED_STORE_BACKEND", "sqlite")
	t.Setenv("YTLIKED_PAGE_SIZE", "25")
	t.Setenv("YTLIKED_HTTP_TIMEOUT", "10s")
	t.Setenv("YTLIKED_DAILY_NOTE_DIR", "/tmp/notes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.CallbackPort)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.EqualValues(t, 25, cfg.PageSize)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "/tmp/notes", cfg.DailyNoteDir)
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("YTLIKED_CLIENT_ID", "")
	t.Setenv("YTLIKED_CLIENT_SECRET", "")
	t.Setenv("HOME", t.TempDir())

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.ClientID = "id"
		cfg.ClientSecret = "secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"missing client id", func(c *Config) { c.ClientID = "" }, true},
		{"port too large", func(c *Config) { c.CallbackPort = 70000 }, true},
		{"unknown backend", func(c *Config) { c.StoreBackend = "postgres" }, true},
		{"page size over API max", func(c *Config) { c.PageSize = 51 }, true},
		{"zero probe size", func(c *Config) { c.ProbePageSize = 0 }, true},
		{"negative max pages", func(c *Config) { c.MaxPages = -1 }, true},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStorePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"

	cfg.StoreBackend = "json"
	assert.Equal(t, "/data/ytliked.json", cfg.StorePath())

	cfg.StoreBackend = "sqlite"
	assert.Equal(t, "/data/ytliked.db", cfg.StorePath())
}
