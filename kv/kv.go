package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by [Store.Get] when the key does not exist.
var ErrNotFound = errors.New("key not found")

// ErrUnavailable wraps backend failures. Callers compare with errors.Is and
// must not surface the wrapped detail to end users.
var ErrUnavailable = errors.New("storage unavailable")

// Store is the storage capability the engine is written against.
//
// TTL semantics: a zero ttl means the key does not expire. A backend that
// supports native expiry may delete expired keys eagerly; the engine still
// performs its own lazy expiry checks, so native TTL is an optimization, not
// a requirement.
type Store interface {
	// Get returns the value at key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set writes value at key, replacing any previous value.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is a no-op, not an error.
	Delete(ctx context.Context, key string) error

	// Incr atomically increments the integer at key, creating it at 1, and
	// returns the new value.
	Incr(ctx context.Context, key string) (int64, error)

	// Expire sets a TTL on an existing key. Absent keys are a no-op.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// ScanPrefix returns all key/value pairs whose key starts with prefix.
	// Order is unspecified.
	ScanPrefix(ctx context.Context, prefix string) (map[string]string, error)
}
