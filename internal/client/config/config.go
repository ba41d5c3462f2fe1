package config

import "time"

// Config holds runtime settings for the portal CLI.
//
// Fields:
//   - APIBaseURL: base URL of the REST API, e.g. http://127.0.0.1:8080/api.
//   - RequestTimeout: per-request timeout for API calls.
//   - RetryMax: how many times a failed API call is retried (transport errors and 5xx).
//   - DatabasePath: SQLite file backing the token/user/favorites storage.
//   - StorageWatchInterval: how often storage is polled for changes made by other processes.
//   - HomePath, LoginPath, UnauthorizedPath: navigation targets for login, logout and denied pages.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL           string
	RequestTimeout       time.Duration
	RetryMax             int
	DatabasePath         string
	StorageWatchInterval time.Duration
	HomePath             string
	LoginPath            string
	UnauthorizedPath     string
	LogLevel             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 10 * time.Second
	c.RetryMax = 1
	c.DatabasePath = "portal.db"
	c.StorageWatchInterval = 2 * time.Second
	c.HomePath = "/areas"
	c.LoginPath = "/login"
	c.UnauthorizedPath = "/unauthorized"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
