package cache

import (
	"testing"
	"time"
)

func TestEntry_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		timestamp time.Time
		ttl       time.Duration
		want      bool
	}{
		{
			name:      "fresh entry",
			timestamp: now.Add(-1 * time.Minute),
			ttl:       5 * time.Minute,
			want:      false,
		},
		{
			name:      "exactly at ttl is still live",
			timestamp: now.Add(-5 * time.Minute),
			ttl:       5 * time.Minute,
			want:      false,
		},
		{
			name:      "just expired",
			timestamp: now.Add(-5*time.Minute - time.Millisecond),
			ttl:       5 * time.Minute,
			want:      true,
		},
		{
			name:      "long expired",
			timestamp: now.Add(-1 * time.Hour),
			ttl:       time.Minute,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry[string]{
				Timestamp: tt.timestamp,
				TTL:       tt.ttl,
			}
			if got := entry.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_Remaining(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		timestamp time.Time
		ttl       time.Duration
		want      time.Duration
	}{
		{
			name:      "four minutes remaining",
			timestamp: now.Add(-1 * time.Minute),
			ttl:       5 * time.Minute,
			want:      4 * time.Minute,
		},
		{
			name:      "already expired",
			timestamp: now.Add(-1 * time.Hour),
			ttl:       5 * time.Minute,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry[int]{
				Timestamp: tt.timestamp,
				TTL:       tt.ttl,
			}
			if got := entry.Remaining(now); got != tt.want {
				t.Errorf("Remaining() = %v, want %v", got, tt.want)
			}
			if got := entry.Age(now); got != now.Sub(tt.timestamp) {
				t.Errorf("Age() = %v, want %v", got, now.Sub(tt.timestamp))
			}
		})
	}
}
