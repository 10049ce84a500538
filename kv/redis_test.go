package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Redis, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedis(rdb), mr, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func TestGetMissingKey(t *testing.T) {
	store, _, done := newTestStore(t)
	defer done()

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	store, _, done := newTestStore(t)
	defer done()
	ctx := context.Background()

	if err := store.Set(ctx, "user:alice", `{"role":"user"}`, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := store.Get(ctx, "user:alice")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != `{"role":"user"}` {
		t.Fatalf("unexpected value: %q", val)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store, _, done := newTestStore(t)
	defer done()
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestIncrCreatesAtOne(t *testing.T) {
	store, _, done := newTestStore(t)
	defer done()
	ctx := context.Background()

	count, err := store.Incr(ctx, "ratelimit:login:alice")
	if err != nil {
		t.Fatalf("Incr failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1, got %d", count)
	}

	count, err = store.Incr(ctx, "ratelimit:login:alice")
	if err != nil {
		t.Fatalf("Incr failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
}

func TestSetWithTTLExpires(t *testing.T) {
	store, mr, done := newTestStore(t)
	defer done()
	ctx := context.Background()

	if err := store.Set(ctx, "session:tok", "blob", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, "session:tok"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after TTL, got %v", err)
	}
}

func TestScanPrefix(t *testing.T) {
	store, _, done := newTestStore(t)
	defer done()
	ctx := context.Background()

	pairs := map[string]string{
		"user:alice": "a",
		"user:bob":   "b",
		"session:x":  "s",
	}
	for k, v := range pairs {
		if err := store.Set(ctx, k, v, 0); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}

	got, err := store.ScanPrefix(ctx, "user:")
	if err != nil {
		t.Fatalf("ScanPrefix failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(got))
	}
	if got["user:alice"] != "a" || got["user:bob"] != "b" {
		t.Fatalf("unexpected scan result: %v", got)
	}
}
