package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName             string        `mapstructure:"app_name"`
	Env                 string        `mapstructure:"app_env"`
	LogLevel            string        `mapstructure:"log_level"`
	SourcesFile         string        `mapstructure:"sources_file"`
	SinksFile           string        `mapstructure:"sinks_file"`
	SyncIntervalSeconds int64         `mapstructure:"sync_interval"`
	SyncInterval        time.Duration `mapstructure:"-"`

	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	UserAgent          string        `mapstructure:"user_agent"`
	EchoURL            string        `mapstructure:"echo_url"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "menu-courier")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("sources_file", "./configs/sources.yaml")
	v.SetDefault("sinks_file", "./configs/sinks.yaml")
	v.SetDefault("sync_interval", 900) // seconds
	v.SetDefault("http_timeout_seconds", 0)
	v.SetDefault("user_agent", "menu-courier/1.0")
	v.SetDefault("echo_url", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/courier.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolve validates the raw second counts and derives the durations.
func (c *Config) resolve() error {
	if c.SyncIntervalSeconds <= 0 {
		return fmt.Errorf("invalid sync_interval (must be positive seconds)")
	}
	c.SyncInterval = time.Duration(c.SyncIntervalSeconds) * time.Second

	if c.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be zero or positive)")
	}
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second

	if c.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if c.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	c.StorageTTL = time.Duration(c.StorageTTLSeconds) * time.Second
	c.StorageCleanupInterval = time.Duration(c.StorageCleanupSeconds) * time.Second

	return nil
}
