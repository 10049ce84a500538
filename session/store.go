package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quellcrist/kvauth/kv"
)

const keyPrefix = "session:"

var (
	// ErrNotFound is returned for unknown tokens. Expired tokens return
	// [ErrExpired], which wraps ErrNotFound, so callers matching on
	// ErrNotFound treat both the same way.
	ErrNotFound = errors.New("session not found")
	// ErrExpired marks a session removed by lazy expiry.
	ErrExpired = fmt.Errorf("%w: expired", ErrNotFound)
	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("session storage unavailable")
)

// Session is the record bound to a token for its entire validity window.
type Session struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists sessions in the key-value store, keyed by token.
type Store struct {
	store    kv.Store
	ttl      time.Duration
	strategy TokenStrategy

	now func() time.Time
}

// NewStore creates a session [Store]. ttl is the absolute session lifetime
// applied at issuance.
func NewStore(store kv.Store, ttl time.Duration, strategy TokenStrategy) *Store {
	return &Store{
		store:    store,
		ttl:      ttl,
		strategy: strategy,
		now:      time.Now,
	}
}

func key(token string) string {
	return keyPrefix + token
}

// Issue generates a fresh token for the (username, role) pair and persists
// the session with expiry set to now + TTL.
func (s *Store) Issue(ctx context.Context, username, role string) (string, error) {
	token, err := newToken(s.strategy)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	sess := Session{
		Username:  username,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Backend TTL mirrors the absolute expiry so abandoned sessions are
	// eventually swept; Validate still checks ExpiresAt itself.
	if err := s.store.Set(ctx, key(token), string(data), s.ttl); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return token, nil
}

// Validate resolves token to its stored session. Unknown tokens return
// ErrNotFound. Expired records are deleted on detection and also return
// ErrNotFound. The returned username/role are the values snapshotted at
// issuance, never a fresh user lookup.
func (s *Store) Validate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	raw, err := s.store.Get(ctx, key(token))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		// A corrupt record is unusable; drop it rather than keep failing.
		_ = s.store.Delete(ctx, key(token))
		return nil, ErrNotFound
	}

	if s.now().After(sess.ExpiresAt) {
		if err := s.store.Delete(ctx, key(token)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, ErrExpired
	}

	return &sess, nil
}

// Revoke deletes the session for token. Revoking an unknown or already
// expired token is a no-op success.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.Delete(ctx, key(token)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
