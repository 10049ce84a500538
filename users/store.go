package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/quellcrist/kvauth/kv"
	"github.com/quellcrist/kvauth/password"
)

const keyPrefix = "user:"

// Username and password policy bounds.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 20
	// MinPasswordLen is deliberately low; see the package comment.
	MinPasswordLen = 4
)

var (
	// ErrNotFound is returned when the target user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrExists is returned by Create on a username collision.
	ErrExists = errors.New("user already exists")
	// ErrInvalidInput is returned for malformed usernames, passwords, or roles.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrLastAdmin is returned when a delete would leave zero admin users.
	ErrLastAdmin = errors.New("cannot delete the last admin")
	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("user storage unavailable")
)

// Role is the authorization level attached to a user.
type Role string

const (
	// RoleAdmin grants access to user management and other privileged operations.
	RoleAdmin Role = "admin"
	// RoleUser is the unprivileged default.
	RoleUser Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the stored credential record. PasswordHash is an argon2id PHC
// digest, never a plaintext password.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Info is the listing shape: everything except the digest.
type Info struct {
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Seed describes one bootstrap account.
type Seed struct {
	Username string
	Password string
	Role     Role
}

// Store is the credential store backed by the key-value collaborator.
type Store struct {
	store  kv.Store
	hasher *password.Hasher

	now func() time.Time
}

// NewStore creates a credential [Store]. The hasher is used for every digest
// the store writes.
func NewStore(store kv.Store, hasher *password.Hasher) *Store {
	return &Store{
		store:  store,
		hasher: hasher,
		now:    time.Now,
	}
}

func key(username string) string {
	return keyPrefix + username
}

// Usernames become storage keys, so the charset stays conservative: no
// glob or separator characters that could perturb key scans.
func validUsername(username string) bool {
	if len(username) < MinUsernameLen || len(username) > MaxUsernameLen {
		return false
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}

// Get returns the record for username, or ErrNotFound.
func (s *Store) Get(ctx context.Context, username string) (*User, error) {
	raw, err := s.store.Get(ctx, key(username))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("%w: corrupt record for %s", ErrUnavailable, username)
	}
	return &u, nil
}

// List returns every user without digests, sorted by username for stable
// display.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	records, err := s.store.ScanPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	infos := make([]Info, 0, len(records))
	for k, raw := range records {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return nil, fmt.Errorf("%w: corrupt record at %s", ErrUnavailable, k)
		}
		infos = append(infos, Info{
			Username:  u.Username,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Username < infos[j].Username
	})
	return infos, nil
}

// Create validates inputs, hashes the password, and stores a new record.
// Validation happens before any storage access.
func (s *Store) Create(ctx context.Context, username, plaintext string, role Role) error {
	if !validUsername(username) {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidInput, MinUsernameLen, MaxUsernameLen)
	}
	if len(plaintext) < MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLen)
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	if _, err := s.Get(ctx, username); err == nil {
		return ErrExists
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		return err
	}

	return s.put(ctx, &User{
		Username:     username,
		PasswordHash: digest,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	})
}

// UpdatePassword re-hashes and replaces the digest only; role and creation
// time are untouched.
func (s *Store) UpdatePassword(ctx context.Context, username, plaintext string) error {
	if len(plaintext) < MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLen)
	}

	u, err := s.Get(ctx, username)
	if err != nil {
		return err
	}

	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		return err
	}

	u.PasswordHash = digest
	return s.put(ctx, u)
}

// Delete removes username. Deleting the last remaining admin is refused with
// ErrLastAdmin and performs no mutation.
func (s *Store) Delete(ctx context.Context, username string) error {
	u, err := s.Get(ctx, username)
	if err != nil {
		return err
	}

	if u.Role == RoleAdmin {
		admins, err := s.adminCount(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.store.Delete(ctx, key(username)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Bootstrap seeds the given accounts when and only when the store holds zero
// users. Safe to call on every startup.
func (s *Store) Bootstrap(ctx context.Context, seeds []Seed) error {
	records, err := s.store.ScanPrefix(ctx, keyPrefix)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(records) > 0 {
		return nil
	}

	for _, seed := range seeds {
		if err := s.Create(ctx, seed.Username, seed.Password, seed.Role); err != nil {
			return fmt.Errorf("bootstrap %s: %w", seed.Username, err)
		}
	}
	return nil
}

// Count returns the number of stored users.
func (s *Store) Count(ctx context.Context) (int, error) {
	records, err := s.store.ScanPrefix(ctx, keyPrefix)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return len(records), nil
}

func (s *Store) adminCount(ctx context.Context) (int, error) {
	infos, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, info := range infos {
		if info.Role == RoleAdmin {
			count++
		}
	}
	return count, nil
}

func (s *Store) put(ctx context.Context, u *User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := s.store.Set(ctx, key(u.Username), string(data), 0); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
