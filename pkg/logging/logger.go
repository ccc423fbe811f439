// Package logging configures zerolog for the cache server and its packages.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is a level name as written in config files and EDUCACHE_LOG_LEVEL.
type LogLevel string

// Accepted level names. "warning" is read as LevelWarn.
const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// DefaultService is stamped on every line as the service field.
const DefaultService = "edu-cache"

// Config is the logging section of the server configuration.
type Config struct {
	Level LogLevel

	// Pretty switches from JSON lines to zerolog's console writer
	Pretty bool

	// Service is added as a base field when not empty
	Service string

	// Output defaults to os.Stderr
	Output io.Writer
}

// DefaultConfig logs JSON at info level to stderr.
func DefaultConfig() Config {
	return Config{
		Level:   LevelInfo,
		Service: DefaultService,
		Output:  os.Stderr,
	}
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	logger := ctx.Logger()
	log.Logger = logger

	return logger
}

// ValidateLevel reports an error for a level Setup would not recognise.
func ValidateLevel(level LogLevel) error {
	switch strings.ToLower(string(level)) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
}

// parseLevel converts LogLevel to zerolog.Level. Unknown levels map to info.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger derives a logger for one component from parent.
func NewLogger(parent zerolog.Logger, component string) zerolog.Logger {
	return parent.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache evictions and invalidations (key, removed count)
//   - Strategy registration and skipped executions
//   - Janitor sweeps that removed nothing
//
// Info: Normal operation events
//   - Preload summaries (total, completed, failed, duration)
//   - Dashboard warm-up summaries
//   - Server startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Strategy failures and timeouts
//   - Per-user warm-up failures
//   - Unexpected value kinds in a domain cache
//
// Error: Error conditions requiring attention
//   - Startup failures (config, Redis connection)
//   - HTTP server errors
//
// Context Fields:
//   - service: Set once by Setup (edu-cache)
//   - component: Emitting package (app, janitor, preload, dashboard, progress, server)
//   - cache: Cache name
//   - strategy: Preload strategy ID
//   - user_id: Dashboard user
//   - subject: Progress subject
//   - removed: Number of entries removed
//   - duration: Operation duration
