// Package config loads runtime configuration for the portal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. PORTAL_* environment variables, optionally from a .env file (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Environment
//
//	PORTAL_API_URL, PORTAL_REQUEST_TIMEOUT (e.g. "5s"), PORTAL_RETRY_MAX,
//	PORTAL_DB_PATH, PORTAL_WATCH_INTERVAL, PORTAL_LOG_LEVEL
//
// Supported flags
//
//	-a string   REST API base URL
//	-t int      request timeout (seconds)
//	-r int      retries per failed request
//	-d string   SQLite database path
//	-w int      storage watch interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds. Missing keys keep their current value.
//
//	{
//	  "api_base_url": "https://portal.example.com/api",
//	  "request_timeout": "10s",
//	  "retry_max": 1,
//	  "database_path": "portal.db",
//	  "storage_watch_interval": "2s",
//	  "home_path": "/areas",
//	  "login_path": "/login",
//	  "unauthorized_path": "/unauthorized",
//	  "log_level": "info"
//	}
package config
