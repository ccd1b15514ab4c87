package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/serendib-labs/mapleads/internal/phone"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Location  LocationConfig  `yaml:"location" mapstructure:"location"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Phone     PhoneConfig     `yaml:"phone" mapstructure:"phone"`
	Gazetteer GazetteerConfig `yaml:"gazetteer" mapstructure:"gazetteer"`
	Places    PlacesConfig    `yaml:"places" mapstructure:"places"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`
	Circuit   CircuitConfig   `yaml:"circuit" mapstructure:"circuit"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// LocationConfig configures radii and the target territory.
type LocationConfig struct {
	DefaultRadiusKM        float64      `yaml:"default_radius_km" mapstructure:"default_radius_km"`
	MaxRadiusKM            float64      `yaml:"max_radius_km" mapstructure:"max_radius_km"`
	SubdivisionThresholdKM float64      `yaml:"subdivision_threshold_km" mapstructure:"subdivision_threshold_km"`
	Bounds                 BoundsConfig `yaml:"bounds" mapstructure:"bounds"`
}

// BoundsConfig is the coarse bounding box of the target territory.
type BoundsConfig struct {
	South float64 `yaml:"south" mapstructure:"south"`
	West  float64 `yaml:"west" mapstructure:"west"`
	North float64 `yaml:"north" mapstructure:"north"`
	East  float64 `yaml:"east" mapstructure:"east"`
}

// SearchConfig configures result volume and caching.
type SearchConfig struct {
	MaxResults    int `yaml:"max_results" mapstructure:"max_results"`
	CacheTTLHours int `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// PhoneConfig overrides the built-in numbering plan. Empty fields fall back
// to the Sri Lankan defaults.
type PhoneConfig struct {
	InternationalPrefix string            `yaml:"international_prefix" mapstructure:"international_prefix"`
	TrunkPrefix         string            `yaml:"trunk_prefix" mapstructure:"trunk_prefix"`
	TotalLength         int               `yaml:"total_length" mapstructure:"total_length"`
	MobilePrefixes      []string          `yaml:"mobile_prefixes" mapstructure:"mobile_prefixes"`
	Regions             map[string]string `yaml:"regions" mapstructure:"regions"`
}

// Plan builds the numbering plan, falling back to the built-in Sri Lankan
// tables when no override is configured.
func (c PhoneConfig) Plan() (*phone.Plan, error) {
	if c.InternationalPrefix == "" {
		return phone.DefaultPlan(), nil
	}
	return phone.NewPlan(c.InternationalPrefix, c.TrunkPrefix, c.TotalLength, c.MobilePrefixes, c.Regions)
}

// GazetteerConfig points at an optional place-table override file.
type GazetteerConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// PlacesConfig holds the extraction backend credentials.
type PlacesConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// RateLimitConfig throttles extraction calls.
type RateLimitConfig struct {
	RequestsPerMinute float64 `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// RetryConfig configures extraction retries.
type RetryConfig struct {
	MaxAttempts        int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffSecs float64 `yaml:"initial_backoff_secs" mapstructure:"initial_backoff_secs"`
	MaxBackoffSecs     float64 `yaml:"max_backoff_secs" mapstructure:"max_backoff_secs"`
}

// CircuitConfig configures the extraction circuit breaker.
type CircuitConfig struct {
	MaxConsecutiveFailures int `yaml:"max_consecutive_failures" mapstructure:"max_consecutive_failures"`
	ResetSecs              int `yaml:"reset_secs" mapstructure:"reset_secs"`
}

// OutputConfig configures where and how results are written.
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MAPLEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "mapleads.db")
	v.SetDefault("location.default_radius_km", 5.0)
	v.SetDefault("location.max_radius_km", 50.0)
	v.SetDefault("location.subdivision_threshold_km", 20.0)
	v.SetDefault("location.bounds.south", 5.9)
	v.SetDefault("location.bounds.west", 79.5)
	v.SetDefault("location.bounds.north", 9.9)
	v.SetDefault("location.bounds.east", 82.0)
	v.SetDefault("search.max_results", 120)
	v.SetDefault("search.cache_ttl_hours", 24)
	v.SetDefault("rate_limit.requests_per_minute", 10.0)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_secs", 1.0)
	v.SetDefault("retry.max_backoff_secs", 60.0)
	v.SetDefault("circuit.max_consecutive_failures", 5)
	v.SetDefault("circuit.reset_secs", 300)
	v.SetDefault("output.dir", "results")
	v.SetDefault("output.format", "csv")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return eris.New("config: postgres driver requires store.database_url")
	}
	if c.Location.DefaultRadiusKM <= 0 {
		return eris.Errorf("config: default radius must be positive, got %v", c.Location.DefaultRadiusKM)
	}
	if c.Location.MaxRadiusKM < c.Location.DefaultRadiusKM {
		return eris.Errorf("config: max radius %v below default radius %v",
			c.Location.MaxRadiusKM, c.Location.DefaultRadiusKM)
	}
	if c.Location.SubdivisionThresholdKM <= 0 {
		return eris.Errorf("config: subdivision threshold must be positive, got %v", c.Location.SubdivisionThresholdKM)
	}
	if c.Search.MaxResults <= 0 {
		return eris.Errorf("config: max results must be positive, got %d", c.Search.MaxResults)
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		return eris.Errorf("config: requests per minute must be positive, got %v", c.RateLimit.RequestsPerMinute)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server port %d", c.Server.Port)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
