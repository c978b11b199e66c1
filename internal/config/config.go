// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Scholar ScholarConfig `mapstructure:"scholar"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// ScholarConfig governs the scraping pipeline.
type ScholarConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	MaxResults           int    `mapstructure:"max_results"`
	PageDelaySeconds     int    `mapstructure:"page_delay_seconds"`
	DownloadDelaySeconds int    `mapstructure:"download_delay_seconds"`
	DefaultTopic         string `mapstructure:"default_topic"`
	DefaultNumResults    int    `mapstructure:"default_num_results"`
}

// HTTPConfig configures outbound fetch timeouts.
type HTTPConfig struct {
	SearchTimeoutSeconds   int `mapstructure:"search_timeout_seconds"`
	DownloadTimeoutSeconds int `mapstructure:"download_timeout_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCHOLAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("scholar.base_url", "https://scholar.google.com")
	v.SetDefault("scholar.max_results", 30)
	v.SetDefault("scholar.page_delay_seconds", 2)
	v.SetDefault("scholar.download_delay_seconds", 1)
	v.SetDefault("scholar.default_topic", "KNN nanorods")
	v.SetDefault("scholar.default_num_results", 10)
	v.SetDefault("http.search_timeout_seconds", 15)
	v.SetDefault("http.download_timeout_seconds", 30)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Scholar.BaseURL == "" {
		return fmt.Errorf("scholar.base_url must be set")
	}
	if c.Scholar.MaxResults <= 0 {
		return fmt.Errorf("scholar.max_results must be > 0")
	}
	if c.HTTP.SearchTimeoutSeconds <= 0 {
		return fmt.Errorf("http.search_timeout_seconds must be > 0")
	}
	if c.HTTP.DownloadTimeoutSeconds <= 0 {
		return fmt.Errorf("http.download_timeout_seconds must be > 0")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	return nil
}

// SearchTimeout returns the per-page fetch budget as a duration.
func (c Config) SearchTimeout() time.Duration {
	return time.Duration(c.HTTP.SearchTimeoutSeconds) * time.Second
}

// DownloadTimeout returns the per-PDF fetch budget as a duration.
func (c Config) DownloadTimeout() time.Duration {
	return time.Duration(c.HTTP.DownloadTimeoutSeconds) * time.Second
}

// PageDelay returns the wait between result-page fetches.
func (c Config) PageDelay() time.Duration {
	return time.Duration(c.Scholar.PageDelaySeconds) * time.Second
}

// DownloadDelay returns the wait after each PDF download attempt.
func (c Config) DownloadDelay() time.Duration {
	return time.Duration(c.Scholar.DownloadDelaySeconds) * time.Second
}
