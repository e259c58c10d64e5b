// Package config loads runtime settings for furnictl.
//
// Sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with -c / -config, or FURNI_CONFIG.
//  3. Environment variables prefixed FURNI_.
//  4. Command-line flags.
//
// Flags
//
//	-a string   base URL of the storefront REST API
//	-i int      session expiry check interval (seconds)
//	-s string   path of the local session database
//
// JSON intervals use timex.Duration, so "30s" and integer nanoseconds are
// both accepted:
//
//	{
//	  "api_base_url": "https://shop.example.com",
//	  "check_interval": "30s",
//	  "storage_path": "/home/me/.config/furnistore/session.db",
//	  "log_level": "info",
//	  "log_backend": "slog",
//	  "web_addr": "127.0.0.1:8080",
//	  "request_timeout": "15s"
//	}
package config
