// Package config handles configuration loading for curvewatch.
// It supports YAML config files with environment variable overrides; every
// key has a default, so a bare run needs nothing but a FRED API key.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
	FRED     FREDConfig     `mapstructure:"fred"     yaml:"fred"`
	News     NewsConfig     `mapstructure:"news"     yaml:"news"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// PipelineConfig holds the daily-run parameters.
type PipelineConfig struct {
	Window        int    `mapstructure:"window"         yaml:"window"`         // trailing-window observations
	LookbackYears int    `mapstructure:"lookback_years" yaml:"lookback_years"` // fetch horizon in years
	OutputDir     string `mapstructure:"output_dir"     yaml:"output_dir"`
	NoStatic      bool   `mapstructure:"no_static"      yaml:"no_static"` // skip the PNG render attempt
}

// FREDConfig holds the FRED API client settings.
type FREDConfig struct {
	APIKey     string `mapstructure:"api_key"     yaml:"api_key"`
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	RateLimit  int    `mapstructure:"rate_limit"  yaml:"rate_limit"` // requests per minute
}

// NewsConfig holds the optional market-headlines settings.
type NewsConfig struct {
	Enabled bool         `mapstructure:"enabled" yaml:"enabled"`
	Limit   int          `mapstructure:"limit"   yaml:"limit"`
	Feeds   []FeedConfig `mapstructure:"feeds"   yaml:"feeds"`
}

// FeedConfig identifies one RSS feed.
type FeedConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url"  yaml:"url"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"        yaml:"level"`  // "debug", "info", "warn", "error"
	Format     string `mapstructure:"format"       yaml:"format"` // "text" or "json"
	Output     string `mapstructure:"output"       yaml:"output"` // "stderr", "stdout", or a file path
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./curvewatch.yaml (working directory)
//  2. ~/.curvewatch/curvewatch.yaml (home directory)
//  3. /etc/curvewatch/curvewatch.yaml (system)
//
// Environment variables override config file values.
// Format: CURVEWATCH_<SECTION>_<KEY>, e.g., CURVEWATCH_FRED_API_KEY.
// The bare FRED_API_KEY is honored as well.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("curvewatch")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(homeDir(), ".curvewatch"))
	v.AddConfigPath("/etc/curvewatch")

	v.SetEnvPrefix("CURVEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; defaults + env vars are a complete setup.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("CURVEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Pipeline.Window <= 0 {
		return fmt.Errorf("pipeline.window must be positive, got %d", c.Pipeline.Window)
	}
	if c.Pipeline.LookbackYears <= 0 {
		return fmt.Errorf("pipeline.lookback_years must be positive, got %d", c.Pipeline.LookbackYears)
	}
	if c.FRED.BaseURL == "" {
		return fmt.Errorf("fred.base_url must not be empty")
	}
	if c.FRED.TimeoutSec <= 0 {
		return fmt.Errorf("fred.timeout_sec must be positive, got %d", c.FRED.TimeoutSec)
	}
	if c.FRED.RateLimit <= 0 {
		return fmt.Errorf("fred.rate_limit must be positive, got %d", c.FRED.RateLimit)
	}
	if c.News.Enabled && c.News.Limit <= 0 {
		return fmt.Errorf("news.limit must be positive when news is enabled, got %d", c.News.Limit)
	}
	return nil
}

// setDefaults sets the fixed daily-run defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Pipeline defaults: 90-observation statistics over 2 years of history,
	// artifacts in the working directory.
	v.SetDefault("pipeline.window", 90)
	v.SetDefault("pipeline.lookback_years", 2)
	v.SetDefault("pipeline.output_dir", ".")
	v.SetDefault("pipeline.no_static", false)

	// FRED defaults. The published API limit is 120 requests/minute.
	v.SetDefault("fred.base_url", "https://api.stlouisfed.org/fred/")
	v.SetDefault("fred.timeout_sec", 30)
	v.SetDefault("fred.rate_limit", 120)

	// News defaults (off unless enabled).
	v.SetDefault("news.enabled", false)
	v.SetDefault("news.limit", 5)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.max_age_days", 7)
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("CURVEWATCH_FRED_API_KEY"); key != "" {
		cfg.FRED.APIKey = key
	}
	if key := os.Getenv("FRED_API_KEY"); key != "" && cfg.FRED.APIKey == "" {
		cfg.FRED.APIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
