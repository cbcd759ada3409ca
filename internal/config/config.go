// Package config loads caesartm settings from defaults, an optional YAML file
// and CAESARTM_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CAESARTM_"

// Store drivers.
const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the full application configuration.
type Config struct {
	LogLevel     string `mapstructure:"log_level" env:"LOG_LEVEL"`
	MaxInputSize int    `mapstructure:"max_input_size" env:"MAX_INPUT_SIZE"`
	Color        string `mapstructure:"color" env:"COLOR"`

	Export ExportConfig `mapstructure:"export" envPrefix:"EXPORT_"`
	Store  StoreConfig  `mapstructure:"store" envPrefix:"STORE_"`
	Server ServerConfig `mapstructure:"server" envPrefix:"SERVER_"`
}

// ExportConfig controls the artefacts written after an interactive run.
type ExportConfig struct {
	Dir     string `mapstructure:"dir" env:"DIR"`
	Format  string `mapstructure:"format" env:"FORMAT"`
	Diagram bool   `mapstructure:"diagram" env:"DIAGRAM"`
	Tape    bool   `mapstructure:"tape" env:"TAPE"`
}

// StoreConfig selects and configures the run store.
type StoreConfig struct {
	Driver        string        `mapstructure:"driver" env:"DRIVER"`
	RedisAddr     string        `mapstructure:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"redis_db" env:"REDIS_DB"`
	RedisTTL      time.Duration `mapstructure:"redis_ttl" env:"REDIS_TTL"`
	RedisPrefix   string        `mapstructure:"redis_prefix" env:"REDIS_PREFIX"`
	SQLitePath    string        `mapstructure:"sqlite_path" env:"SQLITE_PATH"`

	// EncryptionKey, when set, encrypts stored runs with AES-256-GCM.
	// 64 hex characters or base64 of 32 bytes.
	EncryptionKey string `mapstructure:"encryption_key" env:"ENCRYPTION_KEY"`
}

// ServerConfig configures the HTTP and MCP servers.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" env:"ADDR"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     "info",
		MaxInputSize: 4096,
		Color:        ColorAuto,
		Export: ExportConfig{
			Dir:     ".",
			Format:  "csv",
			Diagram: true,
			Tape:    true,
		},
		Store: StoreConfig{
			Driver:      DriverMemory,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "caesartm:run:",
			SQLitePath:  "caesartm.db",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Load builds the configuration. path may be empty; a missing file at an
// explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	return nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("color: must be auto, always or never, got %q", c.Color))
	}

	if c.MaxInputSize <= 0 {
		errs = append(errs, fmt.Errorf("max_input_size: must be positive, got %d", c.MaxInputSize))
	}

	switch strings.ToLower(c.Export.Format) {
	case "csv", "json", "yaml", "yml":
	default:
		errs = append(errs, fmt.Errorf("export.format: unknown format %q", c.Export.Format))
	}

	switch c.Store.Driver {
	case DriverNone, DriverMemory, DriverRedis, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}

	return errors.Join(errs...)
}
