package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sternrassler/edu-cache/pkg/logging"
	"github.com/Sternrassler/edu-cache/pkg/preload"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	for _, f := range []struct {
		name  string
		value int
	}{
		{"cache.component_size", c.Cache.ComponentSize},
		{"cache.api_size", c.Cache.APISize},
		{"cache.ui_size", c.Cache.UISize},
		{"cache.dashboard_size", c.Cache.DashboardSize},
		{"cache.progress_size", c.Cache.ProgressSize},
		{"preload.max_concurrent", c.Preload.MaxConcurrent},
	} {
		if f.value <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got %d", f.name, f.value))
		}
	}

	if c.Cache.DefaultTTL <= 0 {
		problems = append(problems, "cache.default_ttl must be positive")
	}
	if c.Cache.CleanupInterval <= 0 {
		problems = append(problems, "cache.cleanup_interval must be positive")
	}
	if c.Preload.Timeout <= 0 {
		problems = append(problems, "preload.timeout must be positive")
	}
	if _, err := preload.ParsePriority(c.Preload.Priority); err != nil {
		problems = append(problems, "preload.priority: "+err.Error())
	}
	if err := logging.ValidateLevel(logging.LogLevel(c.Logging.Level)); err != nil {
		problems = append(problems, "logging.level: "+err.Error())
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if c.Redis.DB < 0 {
		problems = append(problems, "redis.db must not be negative")
	}
	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// PreloadPriority returns the parsed preload floor. Call after Validate.
func (c *Config) PreloadPriority() preload.Priority {
	p, err := preload.ParsePriority(c.Preload.Priority)
	if err != nil {
		return preload.High
	}
	return p
}

// PreloadOptions converts the preload section into preloader options.
func (c *Config) PreloadOptions() preload.Options {
	return preload.Options{
		Priority:      c.PreloadPriority(),
		MaxConcurrent: c.Preload.MaxConcurrent,
		Timeout:       c.Preload.Timeout,
	}
}

// LoggerConfig converts the logging section into a logging.Config writing to stderr.
func (c *Config) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Logging.Level)
	cfg.Pretty = c.Logging.Pretty
	return cfg
}
