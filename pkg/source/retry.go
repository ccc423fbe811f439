package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrRetryExhausted indicates every attempt of an operation failed
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled indicates the context ended during a retry backoff
	ErrContextCancelled = errors.New("context cancelled")
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first one).
	MaxAttempts int

	// InitialBackoff is the initial backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        2 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// isTransient reports whether err is a connection-level failure worth retrying.
// Missing keys, decode errors and context errors are final.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidPayload) {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// retryWithBackoff runs fn until it succeeds, fails with a non-transient
// error or runs out of attempts. Backoff is exponential with ±20% jitter and
// respects context cancellation.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, op string, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				log.Info().
					Str("operation", op).
					Int("attempt", attempt).
					Msg("Source operation succeeded after retry")
			}
			return nil
		}

		lastErr = err
		if !isTransient(err) {
			return err
		}
		if attempt >= cfg.MaxAttempts {
			break
		}

		SourceRetries.WithLabelValues(op).Inc()

		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		log.Debug().
			Err(err).
			Str("operation", op).
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Msg("Retrying source operation after backoff")

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(jitter):
		}

		backoff = time.Duration(float64(backoff) * cfg.BackoffMultiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	SourceRetryExhausted.WithLabelValues(op).Inc()
	log.Warn().
		Err(lastErr).
		Str("operation", op).
		Int("max_attempts", cfg.MaxAttempts).
		Msg("Source retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, cfg.MaxAttempts, lastErr)
}
