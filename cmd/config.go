package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/pucsync/internal/config"
	"github.com/example/pucsync/internal/output"
)

// validConfigKeys lists the supported config keys for set/get.
var validConfigKeys = []string{
	"listen_addr",
	"data_dir",
	"log_level",
	"log_format",
	"sync.backend_url",
	"sync.idle_interval",
	"sync.retry_interval",
	"notify.webhook_url",
	"notify.webhook_secret",
}

func isValidConfigKey(key string) bool {
	for _, k := range validConfigKeys {
		if k == key {
			return true
		}
	}
	return false
}

// setConfigKey applies one key=value onto the config, validating values
// that have a constrained form.
func setConfigKey(cfg *config.Config, key, val string) error {
	switch key {
	case "listen_addr":
		cfg.ListenAddr = val
	case "data_dir":
		cfg.DataDir = val
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log level %q (use debug/info/warn/error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			cfg.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log format %q (use text/json)", val)
		}
	case "sync.backend_url":
		cfg.Sync.BackendURL = val
	case "sync.idle_interval":
		if d, err := time.ParseDuration(val); err != nil || d <= 0 {
			return fmt.Errorf("invalid duration %q", val)
		}
		cfg.Sync.IdleInterval = val
	case "sync.retry_interval":
		if d, err := time.ParseDuration(val); err != nil || d <= 0 {
			return fmt.Errorf("invalid duration %q", val)
		}
		cfg.Sync.RetryInterval = val
	case "notify.webhook_url":
		cfg.Notify.WebhookURL = val
	case "notify.webhook_secret":
		cfg.Notify.WebhookSecret = val
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// getConfigKey returns the effective value for a key, defaults applied.
func getConfigKey(cfg *config.Config, key string) string {
	switch key {
	case "listen_addr":
		return cfg.ListenAddress()
	case "data_dir":
		dir, _ := cfg.DataDirectory()
		return dir
	case "log_level":
		return cfg.Level()
	case "log_format":
		return cfg.Format()
	case "sync.backend_url":
		return cfg.BackendURL()
	case "sync.idle_interval":
		return cfg.IdleInterval().String()
	case "sync.retry_interval":
		return cfg.RetryInterval().String()
	case "notify.webhook_url":
		return cfg.WebhookURL()
	case "notify.webhook_secret":
		return cfg.WebhookSecret()
	}
	return ""
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pucsync configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]

		if !isValidConfigKey(key) {
			output.Error("unknown config key: %s", key)
			fmt.Println("Valid keys:", strings.Join(validConfigKeys, ", "))
			return fmt.Errorf("unknown config key: %s", key)
		}

		cfg, err := config.Load()
		if err != nil {
			output.Error("load config: %v", err)
			return err
		}
		if err := setConfigKey(cfg, key, val); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := config.Save(cfg); err != nil {
			output.Error("save config: %v", err)
			return err
		}

		output.Success("set %s = %s", key, val)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get the effective value for a config key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		if !isValidConfigKey(key) {
			output.Error("unknown config key: %s", key)
			fmt.Println("Valid keys:", strings.Join(validConfigKeys, ", "))
			return fmt.Errorf("unknown config key: %s", key)
		}

		cfg, err := config.Load()
		if err != nil {
			output.Error("load config: %v", err)
			return err
		}
		fmt.Println(getConfigKey(cfg, key))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all effective config values",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			output.Error("load config: %v", err)
			return err
		}
		for _, key := range validConfigKeys {
			fmt.Printf("%s = %s\n", key, getConfigKey(cfg, key))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}
