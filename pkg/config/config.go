// Package config loads cache server settings from defaults, an optional YAML
// file and the environment.
package config

import "time"

// Config is the complete cache server configuration.
type Config struct {
	Cache   CacheConfig   `koanf:"cache"`
	Preload PreloadConfig `koanf:"preload"`
	Redis   RedisConfig   `koanf:"redis"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// CacheConfig sizes the in-process caches.
type CacheConfig struct {
	ComponentSize int `koanf:"component_size"`
	APISize       int `koanf:"api_size"`
	UISize        int `koanf:"ui_size"`
	DashboardSize int `koanf:"dashboard_size"`
	ProgressSize  int `koanf:"progress_size"`

	// DefaultTTL applies to the component, api and ui caches
	DefaultTTL time.Duration `koanf:"default_ttl"`

	// CleanupInterval is the janitor sweep period
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	// DefaultSubject is returned by the top subject lookup when no subject has progress
	DefaultSubject string `koanf:"default_subject"`
}

// PreloadConfig controls startup warm-up.
type PreloadConfig struct {
	// Priority is the floor passed to PreloadAll: low, medium or high
	Priority      string        `koanf:"priority"`
	MaxConcurrent int           `koanf:"max_concurrent"`
	Timeout       time.Duration `koanf:"timeout"`

	// UserIDs limits dashboard warm-up to these users; empty means every user known to the source
	UserIDs []string `koanf:"user_ids"`
}

// RedisConfig points at the dashboard data source.
type RedisConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Addr      string `koanf:"addr"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`
}

// ServerConfig configures the admin HTTP server.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			ComponentSize:   500,
			APISize:         200,
			UISize:          100,
			DashboardSize:   1000,
			ProgressSize:    100,
			DefaultTTL:      5 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			DefaultSubject:  "math",
		},
		Preload: PreloadConfig{
			Priority:      "high",
			MaxConcurrent: 3,
			Timeout:       30 * time.Second,
		},
		Redis: RedisConfig{
			Enabled:   false,
			Addr:      "localhost:6379",
			DB:        0,
			KeyPrefix: "educache",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
	}
}
