package cache

import (
	"time"
)

// Entry represents a cached value together with its access bookkeeping.
type Entry[T any] struct {
	// Data is the cached value, opaque to the cache
	Data T

	// Timestamp is when the entry was created or last overwritten
	Timestamp time.Time

	// TTL is the time-to-live measured from Timestamp
	TTL time.Duration

	// AccessCount is the number of successful reads
	AccessCount int64

	// LastAccess is the time of the most recent successful read (LRU basis)
	LastAccess time.Time

	// seq orders writes and reads within one cache; it breaks LastAccess ties
	seq uint64
}

// staler reports whether e was used less recently than other.
func (e *Entry[T]) staler(other *Entry[T]) bool {
	if !e.LastAccess.Equal(other.LastAccess) {
		return e.LastAccess.Before(other.LastAccess)
	}
	return e.seq < other.seq
}

// Expired reports whether the entry is past its TTL at now.
// An entry is live while now - Timestamp <= TTL.
func (e *Entry[T]) Expired(now time.Time) bool {
	return now.Sub(e.Timestamp) > e.TTL
}

// Age returns how long ago the entry was written.
func (e *Entry[T]) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// Remaining returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry[T]) Remaining(now time.Time) time.Duration {
	left := e.TTL - now.Sub(e.Timestamp)
	if left < 0 {
		return 0
	}
	return left
}
