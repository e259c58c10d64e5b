package config

import (
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	APIBaseURL    string
	CheckInterval time.Duration
	StoragePath   string
	LogLevel      string
	// LogBackend is "slog" or "zap"; empty lets each command pick its own.
	LogBackend     string
	WebAddr        string
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.CheckInterval = 30 * time.Second
	c.StoragePath = defaultStoragePath()
	c.LogLevel = "info"
	c.WebAddr = "127.0.0.1:8080"
	c.RequestTimeout = 15 * time.Second
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "furnistore.db"
	}
	return filepath.Join(dir, "furnistore", "session.db")
}

// LoadConfig builds a Config from defaults, the JSON file, the environment
// and args (without the program name), in that order.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args, os.Getenv); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
