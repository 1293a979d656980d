/*
Package config loads runtime settings for the vacation server and CLI.

SOURCES (later wins):
  1. Defaults below
  2. YAML file (optional; a missing file is not an error)
  3. Environment: VACATION_SERVER_ADDRESS, VACATION_DATABASE_PATH,
     VACATION_LOGGING_LEVEL, ...
  4. Command-line overrides applied by the caller

EXAMPLE config.yaml:
  server:
    address: ":8080"
  database:
    path: ./data/vacation.db
  logging:
    level: info
    format: json
  cache:
    ttl: 10m
    cleanup_interval: 30m
  holidays:
    region: dk
    seed_interval: 24h
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAddress         = ":8080"
	DefaultDatabasePath    = "./data/vacation.db"
	DefaultCacheTTL        = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
	DefaultSeedInterval    = 24 * time.Hour
	EnvPrefix              = "VACATION"
)

// Config is the full runtime configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Holidays HolidayConfig  `mapstructure:"holidays"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputFile string `mapstructure:"output_file"` // optional file output
}

type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type HolidayConfig struct {
	Region string `mapstructure:"region"`
	// SeedInterval is how often bundled holidays are merged into every
	// profile. Zero disables background seeding.
	SeedInterval time.Duration `mapstructure:"seed_interval"`
}

// Load reads path (if it exists) and the environment into a Config.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", DefaultAddress)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_file", "")
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.cleanup_interval", DefaultCleanupInterval)
	v.SetDefault("holidays.region", "dk")
	v.SetDefault("holidays.seed_interval", DefaultSeedInterval)
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if c.Cache.TTL < 0 || c.Cache.CleanupInterval < 0 {
		return errors.New("cache durations must not be negative")
	}
	if c.Holidays.SeedInterval < 0 {
		return errors.New("holidays.seed_interval must not be negative")
	}
	if region := strings.ToLower(c.Holidays.Region); region != "dk" && region != "" {
		return fmt.Errorf("unsupported holidays.region %q (only dk is bundled)", c.Holidays.Region)
	}
	return nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
