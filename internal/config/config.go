// Package config loads service settings from an optional YAML file, a .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database" envPrefix:"DATABASE_"`
	HTTP      HTTPConfig      `yaml:"http" envPrefix:"HTTP_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Thumbnail ThumbnailConfig `yaml:"thumbnail" envPrefix:"THUMBNAIL_"`
}

type DatabaseConfig struct {
	URL         string `yaml:"url" env:"URL"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"AUTO_MIGRATE"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"MAX_BODY_BYTES"`
	Pprof           bool          `yaml:"pprof" env:"PPROF"` // mounts /debug/pprof
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // console or json
}

type ThumbnailConfig struct {
	MaxWidth  int `yaml:"max_width" env:"MAX_WIDTH"`
	MaxHeight int `yaml:"max_height" env:"MAX_HEIGHT"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL:         "sqlite://realtor.db",
			AutoMigrate: true,
		},
		HTTP: HTTPConfig{
			Addr:            ":4000",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    32 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Thumbnail: ThumbnailConfig{
			MaxWidth:  200,
			MaxHeight: 200,
		},
	}
}

// Load builds the configuration. filename may be empty; when set the file
// must exist.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("while reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("while parsing config file %s: %w", filename, err)
		}
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("while loading .env: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("while parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database url is required"))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http addr is required"))
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("http max body bytes must be positive, got %d", c.HTTP.MaxBodyBytes))
	}
	if c.Thumbnail.MaxWidth <= 0 || c.Thumbnail.MaxHeight <= 0 {
		errs = append(errs, fmt.Errorf("thumbnail box must be positive, got %dx%d", c.Thumbnail.MaxWidth, c.Thumbnail.MaxHeight))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be console or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
