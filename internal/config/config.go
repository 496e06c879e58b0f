// Package config provides configuration management for the Longball predictor.
package config

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Sources  SourcesConfig  `mapstructure:"sources" validate:"required"`
	Run      RunConfig      `mapstructure:"run" validate:"required"`
	Tiers    TiersConfig    `mapstructure:"tiers" validate:"required"`
	Weights  WeightsConfig  `mapstructure:"weights" validate:"required"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// SourcesConfig represents upstream data source configuration
type SourcesConfig struct {
	StatsBaseURL    string  `mapstructure:"stats_base_url" validate:"required,url"`
	SavantBaseURL   string  `mapstructure:"savant_base_url" validate:"required,url"`
	WeatherBaseURL  string  `mapstructure:"weather_base_url" validate:"required,url"`
	WeatherAPIKey   string  `mapstructure:"weather_api_key"`
	RotowireBaseURL string  `mapstructure:"rotowire_base_url" validate:"required,url"`
	// LineupPriority is the ordered fallback chain for lineup providers.
	LineupPriority    []string `mapstructure:"lineup_priority" validate:"required,min=1,lineupsources"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int      `mapstructure:"max_retries" validate:"required,gte=0"`
	RetryWaitMinMS    int      `mapstructure:"retry_wait_min_ms" validate:"required,gt=0"`
	RetryWaitMaxMS    int      `mapstructure:"retry_wait_max_ms" validate:"required,gt=0"`
	RateLimitPerSec   float64  `mapstructure:"rate_limit_per_sec" validate:"required,gt=0"`
	CacheTTLSeconds   int      `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	FetchConcurrency  int      `mapstructure:"fetch_concurrency" validate:"required,gt=0"`
}

// RunConfig represents per-run behavior
type RunConfig struct {
	// MinPlateAppearances filters batters with too small a season sample.
	MinPlateAppearances int `mapstructure:"min_plate_appearances" validate:"gte=0"`
}

// TiersConfig controls how ranked predictions partition into tiers
type TiersConfig struct {
	TopN            int     `mapstructure:"top_n" validate:"required,gt=0"`
	LockQuantile    float64 `mapstructure:"lock_quantile" validate:"required,gt=0,lt=1"`
	HotPickQuantile float64 `mapstructure:"hot_pick_quantile" validate:"required,gt=0,lt=1"`
}

// WeightsConfig selects and optionally overrides the weight table
type WeightsConfig struct {
	Version string `mapstructure:"version" validate:"required"`
	// Path optionally points to a YAML weight table overriding built-in
	// defaults for the selected version.
	Path string `mapstructure:"path"`
}

// ScheduleConfig represents scheduled run invocation
type ScheduleConfig struct {
	// Early is the cron expression for the probable-pitcher run.
	Early string `mapstructure:"early" validate:"required"`
	// Midday holds cron expressions for confirmed-lineup runs; the Nth
	// entry runs under tag midday-N.
	Midday []string `mapstructure:"midday" validate:"required,min=1"`
	// Verify is the cron expression for verifying yesterday's predictions.
	Verify string `mapstructure:"verify" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
