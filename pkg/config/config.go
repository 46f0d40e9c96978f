// Package config provides configuration management for the dagframe planner.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Planner   PlannerConfig   `mapstructure:"planner"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// PlannerConfig holds planner-level defaults.
type PlannerConfig struct {
	// DefaultNPartitions is a planner-wide npartitions setting, loaded and
	// validated here only. HashJoin takes npartitions as an argument and
	// falls back to max(L,R) (spec.md §4.7) without reading this field.
	DefaultNPartitions int `mapstructure:"default_npartitions"`
	// TieBreak names the comparator for equal priorities; "key" is the only
	// supported value (Design Note: "Stable tie-breaking"). DfsOrder always
	// breaks ties by key and does not read this field.
	TieBreak string `mapstructure:"tie_break"`
}

// CacheConfig holds plan-fragment cache configuration (pkg/planrepo).
type CacheConfig struct {
	Backend     string `mapstructure:"backend"` // postgres, mysql, or sqlite
	DSN         string `mapstructure:"dsn"`
	TTLSeconds  int    `mapstructure:"ttl_seconds"`
	Compression bool   `mapstructure:"compression"`
	MaxConns    int    `mapstructure:"max_conns"`
}

// TelemetryConfig holds tracing settings from the config file. pkg/telemetry
// takes its settings from OTEL_* environment variables and does not read
// this struct.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Determine config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/dagframe")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Check if it's a "file not found" error (either viper's type or os error)
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			// File specified but doesn't exist, use defaults
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow environment variables to override config
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from an io.Reader (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Planner defaults
	v.SetDefault("planner.default_npartitions", 0) // 0 => HashJoin's max(L,R) default
	v.SetDefault("planner.tie_break", "key")

	// Cache defaults
	v.SetDefault("cache.backend", "sqlite")
	v.SetDefault("cache.dsn", "dagframe.db")
	v.SetDefault("cache.ttl_seconds", 3600)
	v.SetDefault("cache.compression", true)
	v.SetDefault("cache.max_conns", 10)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "dagframe")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "./logs")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported cache backend: %s", c.Cache.Backend)
	}
	if c.Planner.TieBreak != "key" {
		return fmt.Errorf("unsupported tie_break comparator: %s", c.Planner.TieBreak)
	}
	return nil
}
