package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func dialError() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff != 100*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 100ms", cfg.InitialBackoff)
	}
	if cfg.MaxBackoff != 2*time.Second {
		t.Errorf("MaxBackoff = %v, want 2s", cfg.MaxBackoff)
	}
	if cfg.BackoffMultiplier != 2.0 {
		t.Errorf("BackoffMultiplier = %v, want 2.0", cfg.BackoffMultiplier)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network error", dialError(), true},
		{"wrapped network error", fmt.Errorf("redis get: %w", dialError()), true},
		{"eof", io.EOF, true},
		{"not found", fmt.Errorf("%w: key", ErrNotFound), false},
		{"invalid payload", ErrInvalidPayload, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"other", errors.New("WRONGTYPE"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.want {
				t.Errorf("isTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryWithBackoff_SucceedsAfterTransientFailures(t *testing.T) {
	before := testutil.ToFloat64(SourceRetries.WithLabelValues("retry_test_success"))

	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(3), "retry_test_success", func() error {
		calls++
		if calls < 3 {
			return dialError()
		}
		return nil
	})

	if err != nil {
		t.Fatalf("retryWithBackoff() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if got := testutil.ToFloat64(SourceRetries.WithLabelValues("retry_test_success")) - before; got != 2 {
		t.Errorf("retries metric delta = %v, want 2", got)
	}
}

func TestRetryWithBackoff_NonTransientReturnsImmediately(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(5), "retry_test_final", func() error {
		calls++
		return fmt.Errorf("%w: key", ErrNotFound)
	})

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	before := testutil.ToFloat64(SourceRetryExhausted.WithLabelValues("retry_test_exhausted"))

	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(3), "retry_test_exhausted", func() error {
		calls++
		return dialError()
	})

	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("error = %v, want ErrRetryExhausted", err)
	}
	var netErr net.Error
	if !errors.As(err, &netErr) {
		t.Errorf("error = %v, want wrapped net.Error", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if got := testutil.ToFloat64(SourceRetryExhausted.WithLabelValues("retry_test_exhausted")) - before; got != 1 {
		t.Errorf("exhausted metric delta = %v, want 1", got)
	}
}

func TestRetryWithBackoff_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    time.Second,
		MaxBackoff:        time.Second,
		BackoffMultiplier: 1.0,
	}

	calls := 0
	err := retryWithBackoff(ctx, cfg, "retry_test_cancel", func() error {
		calls++
		cancel()
		return dialError()
	})

	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("error = %v, want ErrContextCancelled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoff_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), RetryConfig{}, "retry_test_zero", func() error {
		calls++
		return dialError()
	})

	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("error = %v, want ErrRetryExhausted", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
