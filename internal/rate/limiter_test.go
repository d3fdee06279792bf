package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, cfg), mr
}

func TestCheckAllowsWithinBudget(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxAttempts: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.Record(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if _, err := l.Check(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("expected within budget, got %v", err)
	}
}

func TestCheckRejectsWithRetryAfter(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxAttempts: 2, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.Record(ctx, "10.0.0.2"); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	retryAfter, err := l.Check(ctx, "10.0.0.2")
	if !errors.Is(err, ErrLimited) {
		t.Fatalf("expected ErrLimited, got %v", err)
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Fatalf("expected positive retry-after within window, got %v", retryAfter)
	}
}

func TestBudgetIsPerAddress(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxAttempts: 1, Window: time.Minute})
	ctx := context.Background()

	if err := l.Record(ctx, "10.0.0.3"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := l.Check(ctx, "10.0.0.3"); !errors.Is(err, ErrLimited) {
		t.Fatalf("expected ErrLimited for exhausted address, got %v", err)
	}
	if _, err := l.Check(ctx, "10.0.0.4"); err != nil {
		t.Fatalf("expected other address unaffected, got %v", err)
	}
}

func TestWindowExpiryRestoresBudget(t *testing.T) {
	l, mr := newTestLimiter(t, Config{MaxAttempts: 1, Window: time.Minute})
	ctx := context.Background()

	if err := l.Record(ctx, "10.0.0.5"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := l.Check(ctx, "10.0.0.5"); !errors.Is(err, ErrLimited) {
		t.Fatalf("expected ErrLimited, got %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := l.Check(ctx, "10.0.0.5"); err != nil {
		t.Fatalf("expected budget restored after window, got %v", err)
	}
}

func TestResetClearsCounter(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxAttempts: 1, Window: time.Minute})
	ctx := context.Background()

	if err := l.Record(ctx, "10.0.0.6"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := l.Reset(ctx, "10.0.0.6"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := l.Check(ctx, "10.0.0.6"); err != nil {
		t.Fatalf("expected cleared counter, got %v", err)
	}
}

func TestEmptyAddressIsIgnored(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxAttempts: 1, Window: time.Minute})
	ctx := context.Background()

	if err := l.Record(ctx, ""); err != nil {
		t.Fatalf("Record with empty address should be a no-op, got %v", err)
	}
	if _, err := l.Check(ctx, ""); err != nil {
		t.Fatalf("Check with empty address should be a no-op, got %v", err)
	}
}

func TestBackendUnavailable(t *testing.T) {
	l, mr := newTestLimiter(t, Config{MaxAttempts: 1, Window: time.Minute})
	ctx := context.Background()

	mr.Close()

	if err := l.Record(ctx, "10.0.0.7"); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}
