// Package config loads clockcast configuration from the environment using
// koanf. Command line flags override what is loaded here.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/holoplot/clockcast/internal/offset"
)

const envPrefix = "CLOCKCAST_"

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Leap second table file; empty uses the builtin table.
	TableFile string `koanf:"table_file"`

	// "hold" or "strict"
	HorizonPolicy string `koanf:"horizon_policy"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	// How often the monitor re-reads TableFile. Zero disables reloading.
	MonitorReload time.Duration `koanf:"monitor_reload"`
}

func defaults() *Config {
	return &Config{
		HorizonPolicy: offset.HoldConstant.String(),
		LogLevel:      "info",
		LogFormat:     "text",
		MonitorReload: 0,
	}
}

// Load reads CLOCKCAST_* environment variables over compiled defaults.
func Load() (*Config, error) {
	k := koanf.New(".")
	cfg := defaults()

	// CLOCKCAST_TABLE_FILE -> table_file
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := offset.ParsePolicy(c.HorizonPolicy); err != nil {
		return fmt.Errorf("%w: horizon_policy: %w", ErrInvalidConfig, err)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}

	if c.MonitorReload < 0 {
		return fmt.Errorf("%w: monitor_reload %s is negative", ErrInvalidConfig, c.MonitorReload)
	}

	return nil
}

// Policy returns the parsed horizon policy. Call Validate first.
func (c *Config) Policy() offset.Policy {
	p, _ := offset.ParsePolicy(c.HorizonPolicy)
	return p
}
