// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// OAuth client settings
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	CallbackPort int    `json:"callback_port"`

	// Storage settings
	DataDir      string `json:"data_dir"`
	StoreBackend string `json:"store_backend"` // "json" or "sqlite"

	// Sync settings
	PageSize      int64 `json:"page_size"`
	ProbePageSize int64 `json:"probe_page_size"`
	MaxPages      int   `json:"max_pages"`

	// HTTP settings
	HTTPTimeout time.Duration `json:"http_timeout"`

	// Notes settings
	DailyNoteDir string `json:"daily_note_dir"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		CallbackPort:  42813,
		DataDir:       defaultDataDir(),
		StoreBackend:  "json",
		PageSize:      50,
		ProbePageSize: 10,
		MaxPages:      40,
		HTTPTimeout:   30 * time.Second,
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "ytliked")
	}
	return ".ytliked"
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults. A .env file in the current
// directory, if present, is folded into the environment first.
func Load() (*Config, error) {
	// Missing .env is the normal case
	_ = godotenv.Load()

	cfg := DefaultConfig()

	// Try to load from config file
	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Override with environment variables
	cfg.loadFromEnv()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytliked.json in current directory or home directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytliked.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytliked", "ytliked.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTLIKED_CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv("YTLIKED_CLIENT_SECRET"); v != "" {
		c.ClientSecret = v
	}
	if v := os.Getenv("YTLIKED_CALLBACK_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CallbackPort = n
		}
	}
	if v := os.Getenv("YTLIKED_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("YTLIKED_STORE_BACKEND"); v != "" {
		c.StoreBackend = v
	}
	if v := os.Getenv("YTLIKED_PAGE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.PageSize = n
		}
	}
	if v := os.Getenv("YTLIKED_PROBE_PAGE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.ProbePageSize = n
		}
	}
	if v := os.Getenv("YTLIKED_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPages = n
		}
	}
	if v := os.Getenv("YTLIKED_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("YTLIKED_DAILY_NOTE_DIR"); v != "" {
		c.DailyNoteDir = v
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("client_secret is required")
	}
	if c.CallbackPort <= 0 || c.CallbackPort > 65535 {
		return fmt.Errorf("callback_port must be in 1..65535")
	}
	if c.StoreBackend != "json" && c.StoreBackend != "sqlite" {
		return fmt.Errorf("store_backend must be \"json\" or \"sqlite\"")
	}
	if c.PageSize <= 0 || c.PageSize > 50 {
		return fmt.Errorf("page_size must be in 1..50")
	}
	if c.ProbePageSize <= 0 || c.ProbePageSize > 50 {
		return fmt.Errorf("probe_page_size must be in 1..50")
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max_pages must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	return nil
}

// StorePath returns the path of the persistent store for the configured
// backend.
func (c *Config) StorePath() string {
	switch c.StoreBackend {
	case "sqlite":
		return filepath.Join(c.DataDir, "ytliked.db")
	default:
		return filepath.Join(c.DataDir, "ytliked.json")
	}
}
