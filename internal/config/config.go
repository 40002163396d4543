package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apierrors "github.com/thierryrudaseswa/ClassroomSubTracker/internal/errors"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Dataset  DatasetConfig  `yaml:"dataset" envconfig:"DATASET"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RefreshTimeout  time.Duration `yaml:"refresh_timeout" envconfig:"REFRESH_TIMEOUT" default:"10m"`
}

// SecurityConfig contains CORS and rate limiting configuration. The CORS
// defaults cover the API's read/refresh verbs and expose the headers the CSV
// download and tracing need.
type SecurityConfig struct {
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	AllowedMethods []string        `yaml:"allowed_methods" envconfig:"ALLOWED_METHODS" default:"GET,POST,OPTIONS"`
	AllowedHeaders []string        `yaml:"allowed_headers" envconfig:"ALLOWED_HEADERS" default:"Accept,Authorization,Content-Type,X-Request-ID"`
	ExposedHeaders []string        `yaml:"exposed_headers" envconfig:"EXPOSED_HEADERS" default:"X-Request-ID,Content-Disposition"`
	CORSMaxAge     int             `yaml:"cors_max_age" envconfig:"CORS_MAX_AGE" default:"300"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled    bool          `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS        float64       `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst      int           `yaml:"burst" envconfig:"BURST" default:"50"`
	RetryAfter time.Duration `yaml:"retry_after" envconfig:"RETRY_AFTER" default:"60s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DatabaseConfig contains the relational source configuration. An empty DSN
// switches ingestion to the synthetic source.
type DatabaseConfig struct {
	DSN          string        `yaml:"dsn" envconfig:"DSN"`
	MaxOpenConns int           `yaml:"max_open_conns" envconfig:"MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns int           `yaml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" envconfig:"CONN_LIFETIME" default:"30m"`
}

// DatasetConfig controls ingestion behavior.
type DatasetConfig struct {
	Source         string `yaml:"source" envconfig:"SOURCE" default:"synthetic"` // "postgres" or "synthetic"
	SyntheticCount int    `yaml:"synthetic_count" envconfig:"SYNTHETIC_COUNT" default:"10000"`
	SyntheticSeed  int64  `yaml:"synthetic_seed" envconfig:"SYNTHETIC_SEED" default:"42"`
	RefreshOnStart bool   `yaml:"refresh_on_start" envconfig:"REFRESH_ON_START" default:"true"`
}

// envPrefix namespaces all environment variables, e.g. CST_SERVER_PORT.
const envPrefix = "CST"

// Load loads configuration from environment variables with an optional YAML
// file overlay. Environment values take precedence over file values, which
// take precedence over struct-tag defaults.
func Load() (*Config, error) {
	return LoadFrom(configFilePath())
}

// LoadFrom loads configuration using the given config file path. A missing
// file is not an error; the env/default configuration is used as-is.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, apierrors.NewConfigError("read config file", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, apierrors.NewConfigError("parse config file", err)
		}
	}

	// Env overrides and defaults for anything the file did not set.
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, apierrors.NewConfigError("load config from env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, apierrors.NewConfigError("validate config", err)
	}
	return &cfg, nil
}

// configFilePath returns the config file location, overridable via env.
func configFilePath() string {
	if p := os.Getenv(envPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}
	return "config.yaml"
}

// validate checks configuration consistency.
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch strings.ToLower(c.Dataset.Source) {
	case "synthetic":
		if c.Dataset.SyntheticCount < 1 {
			return fmt.Errorf("synthetic_count must be positive, got %d", c.Dataset.SyntheticCount)
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("dataset source is postgres but database.dsn is empty")
		}
	default:
		return fmt.Errorf("unknown dataset source: %q", c.Dataset.Source)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	return nil
}
