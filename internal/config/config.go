// Package config loads and persists the application configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/alshorts/shorts/internal/feed"
)

// Config is the persistent application configuration.
type Config struct {
	// APIBaseURL is the backend to talk to.
	APIBaseURL string `json:"api_base_url"`

	// PageLimit is the number of items requested per feed page.
	PageLimit int `json:"page_limit"`

	// Language is the feed language shown at startup.
	Language string `json:"language"`

	// Theme is the default UI theme ("dark" or "light"). The session
	// store's persisted preference, when set, wins over this.
	Theme string `json:"theme"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL: "http://127.0.0.1:8000",
		PageLimit:  5,
		Language:   string(feed.LangHindi),
		Theme:      "dark",
	}
}

// Dir returns the application data directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".shorts")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads config from disk, or returns defaults. A `.env` file in the
// working directory and process environment variables override whatever
// the file says. Never fails the startup path: malformed config is
// replaced by defaults.
func Load() *Config {
	// Best effort; a missing .env is the normal case.
	godotenv.Load()

	cfg := DefaultConfig()
	if data, err := os.ReadFile(Path()); err == nil {
		var fileCfg Config
		if json.Unmarshal(data, &fileCfg) == nil {
			cfg.merge(&fileCfg)
		}
	}

	cfg.applyEnv()
	return cfg
}

// Save writes config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(), data, 0600)
}

// StartLanguage returns the configured startup language, defaulting to
// Hindi for anything unrecognized.
func (c *Config) StartLanguage() feed.Language {
	if c.Language == string(feed.LangEnglish) {
		return feed.LangEnglish
	}
	return feed.LangHindi
}

// merge overlays non-zero fields from other.
func (c *Config) merge(other *Config) {
	if other.APIBaseURL != "" {
		c.APIBaseURL = other.APIBaseURL
	}
	if other.PageLimit > 0 {
		c.PageLimit = other.PageLimit
	}
	if other.Language != "" {
		c.Language = other.Language
	}
	if other.Theme != "" {
		c.Theme = other.Theme
	}
}

// applyEnv fills in settings from environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("SHORTS_API_BASE"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("SHORTS_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("SHORTS_PAGE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PageLimit = n
		}
	}
	if v := os.Getenv("SHORTS_THEME"); v != "" {
		c.Theme = v
	}
}
