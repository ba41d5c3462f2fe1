package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is read before the process environment is consulted. Variables
// already set in the environment win over the file.
var envFile = ".env"

// parseEnv overlays Config with PORTAL_* environment variables. A missing
// env file is fine; an unreadable one or a malformed value panics, like the
// other loaders.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	envString("PORTAL_API_URL", &cfg.APIBaseURL)
	envDuration("PORTAL_REQUEST_TIMEOUT", &cfg.RequestTimeout)
	envInt("PORTAL_RETRY_MAX", &cfg.RetryMax)
	envString("PORTAL_DB_PATH", &cfg.DatabasePath)
	envDuration("PORTAL_WATCH_INTERVAL", &cfg.StorageWatchInterval)
	envString("PORTAL_LOG_LEVEL", &cfg.LogLevel)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func envDuration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
