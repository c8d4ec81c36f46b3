// Package config loads stepsolver settings from a config file, STEPSOLVER_
// environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Configuration errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

const EnvPrefix = "STEPSOLVER"

type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Render  RenderConfig  `mapstructure:"render"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
	// RateLimit is requests per second across all clients; 0 disables it.
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

type RenderConfig struct {
	// Color is one of auto, always or never.
	Color string `mapstructure:"color"`
}

// SetDefaults registers every key so AutomaticEnv can override it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.burst", 40)
	v.SetDefault("batch.workers", runtime.NumCPU())
	v.SetDefault("render.color", "auto")
}

// Load reads cfgFile, or config.yaml from $HOME/.config/stepsolver or the
// working directory when cfgFile is empty. A missing default file is not an
// error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "stepsolver"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return Decode(v)
}

// Decode unmarshals and validates the current settings of v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "console", "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	switch c.Render.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: render.color %q", ErrInvalidConfig, c.Render.Color)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("%w: batch.workers must be at least 1", ErrInvalidConfig)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("%w: server.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return fmt.Errorf("%w: server.burst must be at least 1 when rate limiting", ErrInvalidConfig)
	}
	return nil
}

// Watch calls onChange with the re-decoded config whenever the loaded config
// file changes on disk. Invalid edits are reported through onError and the
// previous settings stay in effect.
func Watch(v *viper.Viper, onChange func(*Config), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Decode(v)
		if err != nil {
			onError(fmt.Errorf("reload %s: %w", e.Name, err))
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
