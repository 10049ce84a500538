package rate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/quellcrist/kvauth/kv"
)

const keyPrefix = "ratelimit:login:"

// ErrUnavailable is returned when the backing store cannot be reached.
var ErrUnavailable = errors.New("rate limit storage unavailable")

// Config holds lockout tuning parameters.
type Config struct {
	// MaxAttempts is the consecutive-failure count at which a username
	// locks. A username is locked once its counter reaches this value.
	MaxAttempts int

	// Cooldown, when non-zero, expires a counter this long after its first
	// failure (fixed-window decay). Zero means counters never decay and
	// only a successful login clears them.
	Cooldown time.Duration
}

// Limiter tracks consecutive failed logins per username.
type Limiter struct {
	store  kv.Store
	config Config
}

// New creates a [Limiter] backed by the given store.
func New(store kv.Store, cfg Config) *Limiter {
	return &Limiter{store: store, config: cfg}
}

func key(username string) string {
	return keyPrefix + username
}

// RecordFailure atomically increments the failure counter for username,
// creating it at 1.
func (l *Limiter) RecordFailure(ctx context.Context, username string) error {
	count, err := l.store.Incr(ctx, key(username))
	if err != nil {
		return wrapUnavailable(err)
	}

	// Fixed-window semantics: the TTL is set only on the first failure.
	if count == 1 && l.config.Cooldown > 0 {
		if err := l.store.Expire(ctx, key(username), l.config.Cooldown); err != nil {
			return wrapUnavailable(err)
		}
	}

	return nil
}

// Reset clears the failure counter for username. Called after a successful
// login.
func (l *Limiter) Reset(ctx context.Context, username string) error {
	if err := l.store.Delete(ctx, key(username)); err != nil {
		return wrapUnavailable(err)
	}
	return nil
}

// IsLocked reports whether username has reached the failure threshold.
// A missing counter means not locked and does not reveal account existence.
func (l *Limiter) IsLocked(ctx context.Context, username string) (bool, error) {
	count, err := l.Attempts(ctx, username)
	if err != nil {
		return false, err
	}
	return count >= l.config.MaxAttempts, nil
}

// Attempts returns the current failure count for username; missing counters
// return zero.
func (l *Limiter) Attempts(ctx context.Context, username string) (int, error) {
	raw, err := l.store.Get(ctx, key(username))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return 0, nil
		}
		return 0, wrapUnavailable(err)
	}

	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return 0, nil
	}
	return count, nil
}

func wrapUnavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
