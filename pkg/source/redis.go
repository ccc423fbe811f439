// Package source reads dashboard data from Redis for cache warm-up and read-through loads.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Sternrassler/edu-cache/pkg/dashboard"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrInvalidPayload indicates a stored record could not be decoded
	ErrInvalidPayload = errors.New("invalid payload")
)

// DefaultKeyPrefix namespaces every key read or written by Redis.
const DefaultKeyPrefix = "educache"

// Redis serves dashboard records stored as JSON in Redis.
//
// Key layout:
//
//	<prefix>:users                      set of user IDs
//	<prefix>:dashboard:<uid>            dashboard.Summary
//	<prefix>:subjects:<uid>             set of subject names
//	<prefix>:subject:<uid>:<subject>    dashboard.SubjectData
//
// Reads are retried with backoff on connection-level failures.
type Redis struct {
	redis  *redis.Client
	prefix string
	retry  RetryConfig
}

// NewRedis creates a Redis source. An empty prefix uses DefaultKeyPrefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{redis: client, prefix: prefix, retry: DefaultRetryConfig()}
}

// WithRetry replaces the retry configuration used for reads.
func (r *Redis) WithRetry(cfg RetryConfig) *Redis {
	r.retry = cfg
	return r
}

func (r *Redis) usersKey() string {
	return r.prefix + ":users"
}

func (r *Redis) summaryKey(userID string) string {
	return fmt.Sprintf("%s:dashboard:%s", r.prefix, userID)
}

func (r *Redis) subjectsKey(userID string) string {
	return fmt.Sprintf("%s:subjects:%s", r.prefix, userID)
}

func (r *Redis) subjectKey(userID, subject string) string {
	return fmt.Sprintf("%s:subject:%s:%s", r.prefix, userID, subject)
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.redis.Ping(ctx).Err(); err != nil {
		SourceErrors.WithLabelValues("ping").Inc()
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Users returns every known user ID, sorted.
func (r *Redis) Users(ctx context.Context) ([]string, error) {
	return r.members(ctx, "users", r.usersKey())
}

// Subjects returns the subjects recorded for userID, sorted.
func (r *Redis) Subjects(ctx context.Context, userID string) ([]string, error) {
	return r.members(ctx, "subjects", r.subjectsKey(userID))
}

func (r *Redis) members(ctx context.Context, op, key string) ([]string, error) {
	var ids []string
	err := retryWithBackoff(ctx, r.retry, op, func() error {
		var err error
		ids, err = r.redis.SMembers(ctx, key).Result()
		return err
	})
	if err != nil {
		SourceErrors.WithLabelValues(op).Inc()
		return nil, fmt.Errorf("redis smembers %s: %w", key, err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Summary returns the dashboard summary of userID.
// Returns ErrNotFound if no summary is stored.
func (r *Redis) Summary(ctx context.Context, userID string) (dashboard.Summary, error) {
	var s dashboard.Summary
	if err := r.get(ctx, "summary", r.summaryKey(userID), &s); err != nil {
		return dashboard.Summary{}, err
	}
	return s, nil
}

// Subject returns the subject data of userID.
// Returns ErrNotFound if nothing is stored for the subject.
func (r *Redis) Subject(ctx context.Context, userID, subject string) (dashboard.SubjectData, error) {
	var d dashboard.SubjectData
	if err := r.get(ctx, "subject", r.subjectKey(userID, subject), &d); err != nil {
		return dashboard.SubjectData{}, err
	}
	return d, nil
}

func (r *Redis) get(ctx context.Context, op, key string, v any) error {
	var data []byte
	err := retryWithBackoff(ctx, r.retry, op, func() error {
		var err error
		data, err = r.redis.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		SourceErrors.WithLabelValues(op).Inc()
		return fmt.Errorf("redis get: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		SourceErrors.WithLabelValues(op).Inc()
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, key, err)
	}
	return nil
}

// PutSummary stores the summary of userID and records the user.
func (r *Redis) PutSummary(ctx context.Context, userID string, s dashboard.Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	pipe := r.redis.TxPipeline()
	pipe.Set(ctx, r.summaryKey(userID), data, 0)
	pipe.SAdd(ctx, r.usersKey(), userID)
	if _, err := pipe.Exec(ctx); err != nil {
		SourceErrors.WithLabelValues("put_summary").Inc()
		return fmt.Errorf("redis put summary: %w", err)
	}
	return nil
}

// PutSubject stores one subject of userID and records the subject and user.
func (r *Redis) PutSubject(ctx context.Context, userID string, d dashboard.SubjectData) error {
	if d.Subject == "" {
		return fmt.Errorf("subject name cannot be empty")
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal subject: %w", err)
	}

	pipe := r.redis.TxPipeline()
	pipe.Set(ctx, r.subjectKey(userID, d.Subject), data, 0)
	pipe.SAdd(ctx, r.subjectsKey(userID), d.Subject)
	pipe.SAdd(ctx, r.usersKey(), userID)
	if _, err := pipe.Exec(ctx); err != nil {
		SourceErrors.WithLabelValues("put_subject").Inc()
		return fmt.Errorf("redis put subject: %w", err)
	}
	return nil
}
