package config

import (
	"fmt"
	"time"
)

const (
	EnvConfig        = "FURNI_CONFIG"
	EnvAPIBaseURL    = "FURNI_API_BASE_URL"
	EnvStoragePath   = "FURNI_STORAGE_PATH"
	EnvCheckInterval = "FURNI_CHECK_INTERVAL"
	EnvLogLevel      = "FURNI_LOG_LEVEL"
	EnvLogBackend    = "FURNI_LOG_BACKEND"
	EnvWebAddr       = "FURNI_WEB_ADDR"
)

// parseEnv overlays cfg with FURNI_* variables. FURNI_CHECK_INTERVAL takes a
// Go duration such as "45s".
func parseEnv(cfg *Config, getenv func(string) string) error {
	setString(&cfg.APIBaseURL, getenv(EnvAPIBaseURL))
	setString(&cfg.StoragePath, getenv(EnvStoragePath))
	setString(&cfg.LogLevel, getenv(EnvLogLevel))
	setString(&cfg.LogBackend, getenv(EnvLogBackend))
	setString(&cfg.WebAddr, getenv(EnvWebAddr))

	if v := getenv(EnvCheckInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCheckInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s: must be positive, got %s", EnvCheckInterval, v)
		}
		cfg.CheckInterval = d
	}
	return nil
}
