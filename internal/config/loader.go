// Package config provides configuration management for the Longball predictor.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("LONGBALL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields, tolerating a missing config file.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix("LONGBALL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "longball")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("sources.stats_base_url", "https://statsapi.mlb.com/api/v1")
	v.SetDefault("sources.savant_base_url", "https://baseballsavant.mlb.com")
	v.SetDefault("sources.weather_base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("sources.rotowire_base_url", "https://www.rotowire.com/baseball")
	v.SetDefault("sources.lineup_priority", []string{"mlb", "rotowire"})
	v.SetDefault("sources.timeout_seconds", 30)
	v.SetDefault("sources.max_retries", 3)
	v.SetDefault("sources.retry_wait_min_ms", 100)
	v.SetDefault("sources.retry_wait_max_ms", 10000)
	v.SetDefault("sources.rate_limit_per_sec", 10.0)
	v.SetDefault("sources.cache_ttl_seconds", 3600)
	v.SetDefault("sources.fetch_concurrency", 8)

	v.SetDefault("run.min_plate_appearances", 30)

	v.SetDefault("tiers.top_n", 10)
	v.SetDefault("tiers.lock_quantile", 0.85)
	v.SetDefault("tiers.hot_pick_quantile", 0.55)

	v.SetDefault("weights.version", DefaultWeightsVersion)

	v.SetDefault("schedule.early", "0 8 * * *")
	v.SetDefault("schedule.midday", []string{"0 11 * * *", "0 14 * * *"})
	v.SetDefault("schedule.verify", "30 7 * * *")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
