package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/furnistore/internal/flagx"
	"github.com/dmitrijs2005/furnistore/internal/timex"
)

// jsonConfig is the on-disk shape. Empty fields leave the current value alone.
type jsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	CheckInterval  timex.Duration `json:"check_interval"`
	StoragePath    string         `json:"storage_path"`
	LogLevel       string         `json:"log_level"`
	LogBackend     string         `json:"log_backend"`
	WebAddr        string         `json:"web_addr"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJSON overlays cfg with the file named by -c/-config, falling back to
// FURNI_CONFIG. No file means no change.
func parseJSON(cfg *Config, args []string, getenv func(string) string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		path = getenv(EnvConfig)
	}
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.StoragePath, jc.StoragePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.WebAddr, jc.WebAddr)
	if jc.CheckInterval.Duration > 0 {
		cfg.CheckInterval = jc.CheckInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
