// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// ErrInvalidConfig is returned when the environment holds invalid settings.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds the ambient settings of a run. Source and destination
// directories come from the command line, not from here.
type Config struct {
	// Normalization settings
	Preset    string `env:"FRAMENORM_PRESET, default=browser-273" json:"preset" validate:"required"`
	RulesFile string `env:"FRAMENORM_RULES_FILE" json:"rules_file,omitempty" validate:"omitempty,file"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty" validate:"required_with=S3Region"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty" validate:"required_with=S3Bucket"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty" validate:"omitempty,url"`
	S3Prefix           string `env:"S3_PREFIX, default=frames" json:"s3_prefix"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-" validate:"required_with=AWSSecretAccessKey"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-" validate:"required_with=AWSAccessKeyID"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format" validate:"oneof=text json"`
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level" validate:"oneof=debug info warn warning error"`
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig
// and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags of the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// NewLogger creates a structured logger writing to w.
// When LogFormat is "json", it outputs JSON logs; otherwise human-readable text.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(c.LogLevel)}

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Preset: %s, RulesFile: %s, S3Bucket: %s, S3Region: %s, S3Endpoint: %s, S3Prefix: %s, LogFormat: %s, LogLevel: %s}",
		c.Preset,
		c.RulesFile,
		c.S3Bucket,
		c.S3Region,
		c.S3Endpoint,
		c.S3Prefix,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
