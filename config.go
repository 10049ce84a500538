package kvauth

import (
	"errors"
	"time"

	"github.com/quellcrist/kvauth/password"
	"github.com/quellcrist/kvauth/session"
	"github.com/quellcrist/kvauth/users"
)

// Config holds all engine tuning parameters. Configure before Build; the
// engine treats its config as immutable afterwards.
type Config struct {
	Session   SessionConfig
	Security  SecurityConfig
	Password  password.Config
	Bootstrap BootstrapConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls token issuance and lifetime.
type SessionConfig struct {
	// TTL is the absolute session lifetime measured from issuance.
	TTL time.Duration
	// TokenStrategy selects the token rendering (hex by default).
	TokenStrategy session.TokenStrategy
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig controls login lockout and input shape limits.
type SecurityConfig struct {
	// MaxLoginAttempts is the consecutive-failure count that locks a
	// username.
	MaxLoginAttempts int
	// LockoutCooldown, when non-zero, lets a lockout counter decay this
	// long after its first failure. Zero means only a successful login
	// clears it.
	LockoutCooldown time.Duration
	// MaxUsernameBytes and MaxPasswordBytes bound login input shape;
	// oversized inputs are rejected before any storage access.
	MaxUsernameBytes int
	MaxPasswordBytes int
	// RehashOnLogin upgrades stored digests to current argon2 parameters
	// after a successful verify.
	RehashOnLogin bool
}

/*
====================================
BOOTSTRAP CONFIG
====================================
*/

// BootstrapConfig is the credential source for first-boot seeding. Seeds are
// applied only when the store holds zero users.
type BootstrapConfig struct {
	Seeds []users.Seed
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropOnFull drops events instead of blocking when the buffer is full.
	DropOnFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process metrics registry.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			TTL:           7 * 24 * time.Hour,
			TokenStrategy: session.TokenHex,
		},
		Security: SecurityConfig{
			MaxLoginAttempts: 5,
			LockoutCooldown:  0,
			MaxUsernameBytes: 64,
			MaxPasswordBytes: 256,
			RehashOnLogin:    true,
		},
		Password: password.DefaultConfig(),
		Bootstrap: BootstrapConfig{
			Seeds: []users.Seed{
				{Username: "admin", Password: "changeme", Role: users.RoleAdmin},
				{Username: "guest", Password: "guest", Role: users.RoleUser},
			},
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropOnFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func validateConfig(cfg Config) error {
	if cfg.Session.TTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if cfg.Security.MaxLoginAttempts <= 0 {
		return errors.New("max login attempts must be positive")
	}
	if cfg.Security.MaxUsernameBytes <= 0 || cfg.Security.MaxPasswordBytes <= 0 {
		return errors.New("input shape limits must be positive")
	}
	for _, seed := range cfg.Bootstrap.Seeds {
		if !seed.Role.Valid() {
			return errors.New("bootstrap seed has unknown role")
		}
	}
	return nil
}
