package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sternrassler/edu-cache/pkg/dashboard"
	"github.com/redis/go-redis/v9"
)

// setupTestRedis connects to a local Redis on DB 15 and skips the test when
// none is running. The integration build tag runs the same checks against a
// container.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewRedis_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRedis(nil) should panic")
		}
	}()
	NewRedis(nil, "")
}

func TestNewRedis_KeyLayout(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	r := NewRedis(client, "")
	tests := []struct {
		got  string
		want string
	}{
		{r.usersKey(), "educache:users"},
		{r.summaryKey("u1"), "educache:dashboard:u1"},
		{r.subjectsKey("u1"), "educache:subjects:u1"},
		{r.subjectKey("u1", "math"), "educache:subject:u1:math"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("key = %q, want %q", tt.got, tt.want)
		}
	}

	if got := NewRedis(client, "school").usersKey(); got != "school:users" {
		t.Errorf("custom prefix key = %q, want school:users", got)
	}
}

func runSourceSuite(t *testing.T, client *redis.Client) {
	t.Helper()
	ctx := context.Background()
	src := NewRedis(client, "test")

	t.Run("summary round trip", func(t *testing.T) {
		want := dashboard.Summary{
			UserID:           "u1",
			CompletedLessons: 9,
			StreakDays:       3,
			Subjects:         []string{"math"},
			UpdatedAt:        time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		}
		if err := src.PutSummary(ctx, "u1", want); err != nil {
			t.Fatalf("PutSummary failed: %v", err)
		}

		got, err := src.Summary(ctx, "u1")
		if err != nil {
			t.Fatalf("Summary failed: %v", err)
		}
		if got.CompletedLessons != 9 || !got.UpdatedAt.Equal(want.UpdatedAt) {
			t.Errorf("Summary = %+v, want %+v", got, want)
		}
	})

	t.Run("subject round trip", func(t *testing.T) {
		for _, subject := range []string{"science", "math"} {
			if err := src.PutSubject(ctx, "u2", dashboard.SubjectData{Subject: subject, Progress: 40}); err != nil {
				t.Fatalf("PutSubject(%s) failed: %v", subject, err)
			}
		}

		subjects, err := src.Subjects(ctx, "u2")
		if err != nil {
			t.Fatalf("Subjects failed: %v", err)
		}
		if len(subjects) != 2 || subjects[0] != "math" || subjects[1] != "science" {
			t.Errorf("Subjects = %v, want [math science]", subjects)
		}

		d, err := src.Subject(ctx, "u2", "math")
		if err != nil {
			t.Fatalf("Subject failed: %v", err)
		}
		if d.Progress != 40 {
			t.Errorf("Progress = %d, want 40", d.Progress)
		}
	})

	t.Run("users", func(t *testing.T) {
		users, err := src.Users(ctx)
		if err != nil {
			t.Fatalf("Users failed: %v", err)
		}
		if len(users) != 2 || users[0] != "u1" || users[1] != "u2" {
			t.Errorf("Users = %v, want [u1 u2]", users)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := src.Summary(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Summary error = %v, want ErrNotFound", err)
		}
		if _, err := src.Subject(ctx, "u1", "art"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Subject error = %v, want ErrNotFound", err)
		}
	})

	t.Run("invalid payload", func(t *testing.T) {
		if err := client.Set(ctx, src.summaryKey("broken"), "{not json", 0).Err(); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		if _, err := src.Summary(ctx, "broken"); !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("Summary error = %v, want ErrInvalidPayload", err)
		}
	})

	t.Run("empty subject rejected", func(t *testing.T) {
		if err := src.PutSubject(ctx, "u1", dashboard.SubjectData{}); err == nil {
			t.Error("PutSubject should reject an empty subject name")
		}
	})
}

func TestRedis(t *testing.T) {
	runSourceSuite(t, setupTestRedis(t))
}

func TestRedis_UnreachableRetriesThenFails(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	defer client.Close()

	src := NewRedis(client, "test").WithRetry(fastRetry(2))

	_, err := src.Users(context.Background())
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Users() error = %v, want ErrRetryExhausted", err)
	}
}
