package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/furnistore/internal/flagx"
)

// parseFlags applies -a, -i and -s. Other arguments are ignored so callers
// can pass the full command line.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-s"})

	fs := flag.NewFlagSet("furnictl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the storefront API")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "path of the local session database")
	interval := fs.Int("i", int(cfg.CheckInterval.Seconds()), "session check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if *interval <= 0 {
		return fmt.Errorf("check interval must be positive, got %d", *interval)
	}

	cfg.CheckInterval = time.Duration(*interval) * time.Second
	return nil
}
