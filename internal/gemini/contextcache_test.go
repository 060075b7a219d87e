package gemini

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestContextCacheCreatesOncePerWindow(t *testing.T) {
	t.Parallel()

	calls := 0
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cc := NewContextCache(func(ctx context.Context) (string, time.Time, error) {
		calls++
		return "caches/abc", base.Add(time.Hour), nil
	})
	now := base
	cc.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		name, ok := cc.GetOrCreate(context.Background())
		if !ok || name != "caches/abc" {
			t.Fatalf("unexpected handle: %q ok=%v", name, ok)
		}
	}
	if calls != 1 {
		t.Fatalf("create called %d times, want 1", calls)
	}
}

func TestContextCacheRecreatesAfterExpiry(t *testing.T) {
	t.Parallel()

	calls := 0
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cc := NewContextCache(func(ctx context.Context) (string, time.Time, error) {
		calls++
		if calls == 1 {
			return "caches/first", base.Add(time.Hour), nil
		}
		return "caches/second", base.Add(3 * time.Hour), nil
	})
	now := base
	cc.now = func() time.Time { return now }

	name, ok := cc.GetOrCreate(context.Background())
	if !ok || name != "caches/first" {
		t.Fatalf("unexpected first handle: %q", name)
	}

	now = base.Add(2 * time.Hour)
	name, ok = cc.GetOrCreate(context.Background())
	if !ok || name != "caches/second" {
		t.Fatalf("expired handle not replaced: %q", name)
	}
	if calls != 2 {
		t.Fatalf("create called %d times, want 2", calls)
	}
}

func TestContextCacheCreationFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	calls := 0
	cc := NewContextCache(func(ctx context.Context) (string, time.Time, error) {
		calls++
		if calls == 1 {
			return "", time.Time{}, errors.New("quota")
		}
		return "caches/later", time.Now().Add(time.Hour), nil
	})

	name, ok := cc.GetOrCreate(context.Background())
	if ok || name != "" {
		t.Fatalf("failed creation must report no handle, got %q ok=%v", name, ok)
	}

	// Next attempt tries again rather than memoizing the failure.
	name, ok = cc.GetOrCreate(context.Background())
	if !ok || name != "caches/later" {
		t.Fatalf("retry after failure broken: %q ok=%v", name, ok)
	}
}

func TestContextCacheInvalidateForcesRecreate(t *testing.T) {
	t.Parallel()

	calls := 0
	cc := NewContextCache(func(ctx context.Context) (string, time.Time, error) {
		calls++
		return "caches/again", time.Now().Add(time.Hour), nil
	})

	if _, ok := cc.GetOrCreate(context.Background()); !ok {
		t.Fatalf("first create failed")
	}
	cc.Invalidate()
	if _, ok := cc.GetOrCreate(context.Background()); !ok {
		t.Fatalf("recreate after invalidate failed")
	}
	if calls != 2 {
		t.Fatalf("create called %d times, want 2", calls)
	}
}

func TestContextCacheNilCreate(t *testing.T) {
	t.Parallel()

	cc := NewContextCache(nil)
	if name, ok := cc.GetOrCreate(context.Background()); ok || name != "" {
		t.Fatalf("nil create must report no handle")
	}
}
