// Package config loads the global pucsync configuration from
// ~/.config/pucsync/config.json with PUCSYNC_* environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// NotifyConfig holds desktop/webhook notification settings.
type NotifyConfig struct {
	WebhookURL    string `json:"webhook_url,omitempty"`
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// SyncConfig holds backend delivery settings.
type SyncConfig struct {
	BackendURL    string `json:"backend_url,omitempty"`
	IdleInterval  string `json:"idle_interval,omitempty"`  // duration string, default "15m"
	RetryInterval string `json:"retry_interval,omitempty"` // duration string, default "10m"
}

// Config is the global pucsync config stored at ~/.config/pucsync/config.json.
type Config struct {
	ListenAddr string       `json:"listen_addr,omitempty"`
	DataDir    string       `json:"data_dir,omitempty"`
	LogLevel   string       `json:"log_level,omitempty"` // debug, info, warn, error
	LogFormat  string       `json:"log_format,omitempty"` // text or json
	Sync       SyncConfig   `json:"sync"`
	Notify     NotifyConfig `json:"notify"`
}

const (
	defaultBackendURL = "https://pollution-server.onrender.com"
	defaultListenAddr = "127.0.0.1:8787"

	defaultIdleInterval  = 15 * time.Minute
	defaultRetryInterval = 10 * time.Minute
)

// ConfigDir returns ~/.config/pucsync, creating it if necessary.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".config", "pucsync")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// Load reads the global config from ~/.config/pucsync/config.json.
// A missing file yields an empty config; defaults apply at the getters.
func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the global config to ~/.config/pucsync/config.json.
func Save(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// BackendURL returns the sync backend base URL.
// Priority: PUCSYNC_BACKEND_URL env > config.json > default.
func (c *Config) BackendURL() string {
	if v := os.Getenv("PUCSYNC_BACKEND_URL"); v != "" {
		return v
	}
	if c.Sync.BackendURL != "" {
		return c.Sync.BackendURL
	}
	return defaultBackendURL
}

// ListenAddress returns the HTTP listen address.
// Priority: PUCSYNC_LISTEN_ADDR env > config.json > default.
func (c *Config) ListenAddress() string {
	if v := os.Getenv("PUCSYNC_LISTEN_ADDR"); v != "" {
		return v
	}
	if c.ListenAddr != "" {
		return c.ListenAddr
	}
	return defaultListenAddr
}

// DataDirectory returns the directory holding capture.db.
// Priority: PUCSYNC_DATA_DIR env > config.json > ~/.local/share/pucsync.
func (c *Config) DataDirectory() (string, error) {
	if v := os.Getenv("PUCSYNC_DATA_DIR"); v != "" {
		return v, nil
	}
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "pucsync"), nil
}

// IdleInterval returns the wait between drain passes when the retry queue
// is empty. Priority: PUCSYNC_IDLE_INTERVAL env > config.json > 15m.
func (c *Config) IdleInterval() time.Duration {
	return durationSetting("PUCSYNC_IDLE_INTERVAL", c.Sync.IdleInterval, defaultIdleInterval)
}

// RetryInterval returns the wait before re-attempting queued records.
// Priority: PUCSYNC_RETRY_INTERVAL env > config.json > 10m.
func (c *Config) RetryInterval() time.Duration {
	return durationSetting("PUCSYNC_RETRY_INTERVAL", c.Sync.RetryInterval, defaultRetryInterval)
}

// WebhookURL returns the notification webhook endpoint, empty if unset.
// Priority: PUCSYNC_WEBHOOK_URL env > config.json.
func (c *Config) WebhookURL() string {
	if v := os.Getenv("PUCSYNC_WEBHOOK_URL"); v != "" {
		return v
	}
	return c.Notify.WebhookURL
}

// WebhookSecret returns the HMAC signing secret for webhook payloads.
// Priority: PUCSYNC_WEBHOOK_SECRET env > config.json.
func (c *Config) WebhookSecret() string {
	if v := os.Getenv("PUCSYNC_WEBHOOK_SECRET"); v != "" {
		return v
	}
	return c.Notify.WebhookSecret
}

// Level returns the configured slog level name.
// Priority: PUCSYNC_LOG_LEVEL env > config.json > "info".
func (c *Config) Level() string {
	if v := os.Getenv("PUCSYNC_LOG_LEVEL"); v != "" {
		return v
	}
	if c.LogLevel != "" {
		return c.LogLevel
	}
	return "info"
}

// Format returns the log output format, "text" or "json".
// Priority: PUCSYNC_LOG_FORMAT env > config.json > "text".
func (c *Config) Format() string {
	if v := os.Getenv("PUCSYNC_LOG_FORMAT"); v != "" {
		return v
	}
	if c.LogFormat != "" {
		return c.LogFormat
	}
	return "text"
}

func durationSetting(env, fromFile string, fallback time.Duration) time.Duration {
	if v := os.Getenv(env); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	if fromFile != "" {
		if d, err := time.ParseDuration(fromFile); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
