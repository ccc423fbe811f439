package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/edu-cache/pkg/preload"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Cache.CleanupInterval != 5*time.Minute {
		t.Errorf("Cache.CleanupInterval = %v, want 5m", cfg.Cache.CleanupInterval)
	}
	if cfg.Cache.DefaultSubject != "math" {
		t.Errorf("Cache.DefaultSubject = %q, want math", cfg.Cache.DefaultSubject)
	}
	if cfg.Preload.Priority != "high" {
		t.Errorf("Preload.Priority = %q, want high", cfg.Preload.Priority)
	}
	if cfg.Preload.MaxConcurrent != 3 {
		t.Errorf("Preload.MaxConcurrent = %d, want 3", cfg.Preload.MaxConcurrent)
	}
	if cfg.Preload.Timeout != 30*time.Second {
		t.Errorf("Preload.Timeout = %v, want 30s", cfg.Preload.Timeout)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero component size", func(c *Config) { c.Cache.ComponentSize = 0 }, "cache.component_size"},
		{"negative dashboard size", func(c *Config) { c.Cache.DashboardSize = -1 }, "cache.dashboard_size"},
		{"zero cleanup interval", func(c *Config) { c.Cache.CleanupInterval = 0 }, "cache.cleanup_interval"},
		{"zero ttl", func(c *Config) { c.Cache.DefaultTTL = 0 }, "cache.default_ttl"},
		{"unknown priority", func(c *Config) { c.Preload.Priority = "urgent" }, "preload.priority"},
		{"zero concurrency", func(c *Config) { c.Preload.MaxConcurrent = 0 }, "preload.max_concurrent"},
		{"zero timeout", func(c *Config) { c.Preload.Timeout = 0 }, "preload.timeout"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "redis.addr"},
		{"empty server addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Cache.UISize = 0
	cfg.Preload.Priority = "none"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	for _, want := range []string{"cache.ui_size", "preload.priority"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestPreloadOptions(t *testing.T) {
	cfg := Default()
	cfg.Preload.Priority = "Medium"
	cfg.Preload.MaxConcurrent = 5

	opts := cfg.PreloadOptions()
	if opts.Priority != preload.Medium {
		t.Errorf("Priority = %v, want medium", opts.Priority)
	}
	if opts.MaxConcurrent != 5 {
		t.Errorf("MaxConcurrent = %d, want 5", opts.MaxConcurrent)
	}
	if opts.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", opts.Timeout)
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "debug"
	cfg.Logging.Pretty = true

	lc := cfg.LoggerConfig()
	if lc.Level != "debug" || !lc.Pretty {
		t.Errorf("LoggerConfig() = %+v, want debug and pretty", lc)
	}
	if lc.Output == nil {
		t.Error("LoggerConfig().Output should default to stderr")
	}
}
