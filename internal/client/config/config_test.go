package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.APIBaseURL)
	assert.Equal(t, 30*time.Second, c.CheckInterval)
	assert.Empty(t, c.LogBackend)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.NotEmpty(t, c.StoragePath)
}

func Test_parseJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_base_url":   "https://shop.example.com",
		"check_interval": "10s",
		"log_backend":    "zap",
	})

	t.Run("from flag", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJSON(cfg, []string{"-config", path}, env(nil)))

		assert.Equal(t, "https://shop.example.com", cfg.APIBaseURL)
		assert.Equal(t, 10*time.Second, cfg.CheckInterval)
		assert.Equal(t, "zap", cfg.LogBackend)
		assert.Equal(t, "info", cfg.LogLevel, "absent keys keep their value")
	})

	t.Run("from FURNI_CONFIG", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJSON(cfg, nil, env(map[string]string{EnvConfig: path})))
		assert.Equal(t, "https://shop.example.com", cfg.APIBaseURL)
	})

	t.Run("no file, no change", func(t *testing.T) {
		cfg := &Config{APIBaseURL: "defaults"}
		require.NoError(t, parseJSON(cfg, []string{"-a", "x"}, env(nil)))
		assert.Equal(t, "defaults", cfg.APIBaseURL)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))
		require.Error(t, parseJSON(&Config{}, []string{"-c", bad}, env(nil)))
	})

	t.Run("missing file", func(t *testing.T) {
		require.Error(t, parseJSON(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}, env(nil)))
	})
}

func Test_parseEnv(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	err := parseEnv(cfg, env(map[string]string{
		EnvAPIBaseURL:    "https://env.example.com",
		EnvCheckInterval: "45s",
		EnvLogLevel:      "debug",
		EnvWebAddr:       ":9999",
		EnvStoragePath:   "/tmp/s.db",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.APIBaseURL)
	assert.Equal(t, 45*time.Second, cfg.CheckInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9999", cfg.WebAddr)
	assert.Equal(t, "/tmp/s.db", cfg.StoragePath)

	require.Error(t, parseEnv(cfg, env(map[string]string{EnvCheckInterval: "soon"})))
	require.Error(t, parseEnv(cfg, env(map[string]string{EnvCheckInterval: "-1s"})))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{name: "all flags", args: []string{"-a", "https://api.example", "-i", "10", "-s", "/tmp/x.db"},
			expected: &Config{APIBaseURL: "https://api.example", CheckInterval: 10 * time.Second, StoragePath: "/tmp/x.db"}},
		{name: "unknown flags ignored", args: []string{"-x", "1", "-a", "https://api.example"},
			expected: &Config{APIBaseURL: "https://api.example", CheckInterval: 30 * time.Second}},
		{name: "bad interval", args: []string{"-i", "abc"}, wantErr: true},
		{name: "zero interval", args: []string{"-i", "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{CheckInterval: 30 * time.Second}
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_base_url":   "https://json.example",
		"check_interval": "20s",
		"web_addr":       ":7000",
	})
	t.Setenv(EnvAPIBaseURL, "https://env.example")
	t.Setenv(EnvCheckInterval, "")

	cfg, err := LoadConfig([]string{"-c", path, "-i", "5"})
	require.NoError(t, err)

	assert.Equal(t, "https://env.example", cfg.APIBaseURL, "env beats JSON")
	assert.Equal(t, 5*time.Second, cfg.CheckInterval, "flags beat JSON")
	assert.Equal(t, ":7000", cfg.WebAddr)
}
