package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/areaportal/internal/flagx"
	"github.com/dmitrijs2005/areaportal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell "absent" from "zero" so a partial file only overrides what it names.
type JsonConfig struct {
	APIBaseURL           *string         `json:"api_base_url"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	RetryMax             *int            `json:"retry_max"`
	DatabasePath         *string         `json:"database_path"`
	StorageWatchInterval *timex.Duration `json:"storage_watch_interval"`
	HomePath             *string         `json:"home_path"`
	LoginPath            *string         `json:"login_path"`
	UnauthorizedPath     *string         `json:"unauthorized_path"`
	LogLevel             *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c / -config. Without that flag it does nothing. Read or decode errors
// panic; intended usage is defaults -> parseJson -> parseFlags.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RetryMax != nil {
		cfg.RetryMax = *jc.RetryMax
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.StorageWatchInterval != nil {
		cfg.StorageWatchInterval = jc.StorageWatchInterval.Duration
	}
	if jc.HomePath != nil {
		cfg.HomePath = *jc.HomePath
	}
	if jc.LoginPath != nil {
		cfg.LoginPath = *jc.LoginPath
	}
	if jc.UnauthorizedPath != nil {
		cfg.UnauthorizedPath = *jc.UnauthorizedPath
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
