package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/quellcrist/kvauth/kv"
)

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := New(kv.NewRedis(rdb), cfg)

	return limiter, mr, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func TestLockAfterMaxAttempts(t *testing.T) {
	limiter, _, done := newTestLimiter(t, Config{MaxAttempts: 5})
	defer done()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := limiter.RecordFailure(ctx, "alice"); err != nil {
			t.Fatalf("RecordFailure %d failed: %v", i, err)
		}
		locked, err := limiter.IsLocked(ctx, "alice")
		if err != nil {
			t.Fatalf("IsLocked failed: %v", err)
		}
		if locked {
			t.Fatalf("locked after %d failures, want threshold 5", i+1)
		}
	}

	if err := limiter.RecordFailure(ctx, "alice"); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	locked, err := limiter.IsLocked(ctx, "alice")
	if err != nil {
		t.Fatalf("IsLocked failed: %v", err)
	}
	if !locked {
		t.Fatal("expected lock after 5 failures")
	}
}

func TestUnknownUsernameNotLocked(t *testing.T) {
	limiter, _, done := newTestLimiter(t, Config{MaxAttempts: 5})
	defer done()

	locked, err := limiter.IsLocked(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("IsLocked failed: %v", err)
	}
	if locked {
		t.Fatal("missing counter must not report locked")
	}
}

func TestResetClearsCounter(t *testing.T) {
	limiter, _, done := newTestLimiter(t, Config{MaxAttempts: 2})
	defer done()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := limiter.RecordFailure(ctx, "bob"); err != nil {
			t.Fatalf("RecordFailure failed: %v", err)
		}
	}
	locked, err := limiter.IsLocked(ctx, "bob")
	if err != nil || !locked {
		t.Fatalf("expected lock, locked=%v err=%v", locked, err)
	}

	if err := limiter.Reset(ctx, "bob"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	count, err := limiter.Attempts(ctx, "bob")
	if err != nil {
		t.Fatalf("Attempts failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected counter 0 after reset, got %d", count)
	}
}

func TestResetIdempotent(t *testing.T) {
	limiter, _, done := newTestLimiter(t, Config{MaxAttempts: 5})
	defer done()
	ctx := context.Background()

	if err := limiter.Reset(ctx, "nobody"); err != nil {
		t.Fatalf("Reset of absent counter failed: %v", err)
	}
}

func TestCooldownDecaysCounter(t *testing.T) {
	limiter, mr, done := newTestLimiter(t, Config{MaxAttempts: 2, Cooldown: time.Minute})
	defer done()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limiter.RecordFailure(ctx, "carol"); err != nil {
			t.Fatalf("RecordFailure failed: %v", err)
		}
	}
	locked, err := limiter.IsLocked(ctx, "carol")
	if err != nil || !locked {
		t.Fatalf("expected lock, locked=%v err=%v", locked, err)
	}

	mr.FastForward(2 * time.Minute)

	locked, err = limiter.IsLocked(ctx, "carol")
	if err != nil {
		t.Fatalf("IsLocked failed: %v", err)
	}
	if locked {
		t.Fatal("expected counter to decay after cooldown")
	}
}
