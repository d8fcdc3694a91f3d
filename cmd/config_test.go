package cmd

import (
	"testing"

	"github.com/example/pucsync/internal/config"
)

func TestSetConfigKey(t *testing.T) {
	cfg := &config.Config{}

	if err := setConfigKey(cfg, "sync.backend_url", "http://localhost:3000"); err != nil {
		t.Fatalf("set backend_url: %v", err)
	}
	if cfg.Sync.BackendURL != "http://localhost:3000" {
		t.Errorf("backend_url not applied: %+v", cfg.Sync)
	}

	if err := setConfigKey(cfg, "sync.retry_interval", "30s"); err != nil {
		t.Fatalf("set retry_interval: %v", err)
	}
	if cfg.Sync.RetryInterval != "30s" {
		t.Errorf("retry_interval not applied: %+v", cfg.Sync)
	}

	if err := setConfigKey(cfg, "log_level", "DEBUG"); err != nil {
		t.Fatalf("set log_level: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level not lowercased: %q", cfg.LogLevel)
	}
}

func TestSetConfigKeyRejectsBadValues(t *testing.T) {
	cfg := &config.Config{}

	if err := setConfigKey(cfg, "sync.idle_interval", "soon"); err == nil {
		t.Error("expected error for non-duration interval")
	}
	if err := setConfigKey(cfg, "sync.idle_interval", "-5m"); err == nil {
		t.Error("expected error for negative interval")
	}
	if err := setConfigKey(cfg, "log_level", "loud"); err == nil {
		t.Error("expected error for unknown log level")
	}
	if err := setConfigKey(cfg, "log_format", "xml"); err == nil {
		t.Error("expected error for unknown log format")
	}
	if err := setConfigKey(cfg, "nope", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestConfigSetPersistsAndGetReadsBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := setConfigKey(cfg, "listen_addr", "127.0.0.1:7000"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := config.Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := config.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := getConfigKey(reloaded, "listen_addr"); got != "127.0.0.1:7000" {
		t.Errorf("listen_addr after reload: got %q", got)
	}
	// Unset keys report their defaults.
	if got := getConfigKey(reloaded, "sync.idle_interval"); got != "15m0s" {
		t.Errorf("idle_interval default: got %q", got)
	}
}
