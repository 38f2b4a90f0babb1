package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server ServerConfig
	UI     UIConfig
	Log    LogConfig
	Fake   FakeConfig
}

// ServerConfig points the client at the remote banking service.
type ServerConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout of zero means requests never time out.
	Timeout time.Duration
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol     string `mapstructure:"currency_symbol"`
	DropStaleResponses bool   `mapstructure:"drop_stale_responses"`
}

// LogConfig holds the log file location and level.
type LogConfig struct {
	File  string
	Level string
}

// FakeConfig configures the development stand-in for the remote service.
type FakeConfig struct {
	Addr       string
	SessionKey string `mapstructure:"session_key"`
}

// Load reads configuration from file and env. Env var overrides use prefix BANKDESK_.
func Load() (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.timeout", time.Duration(0))
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.drop_stale_responses", false)
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "bankdesk", "bankdesk.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("fake.addr", "localhost:8080")
	v.SetDefault("fake.session_key", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("BANKDESK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "bankdesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BANKDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	if c.Server.BaseURL == "" {
		return Config{}, fmt.Errorf("server.base_url is required")
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("BANKDESK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "bankdesk", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("server.base_url", cfg.Server.BaseURL)
	v.Set("server.timeout", cfg.Server.Timeout.String())
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.drop_stale_responses", cfg.UI.DropStaleResponses)
	v.Set("log.file", cfg.Log.File)
	v.Set("log.level", cfg.Log.Level)
	v.Set("fake.addr", cfg.Fake.Addr)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
