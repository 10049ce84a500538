package kvauth

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/quellcrist/kvauth/internal/rate"
	"github.com/quellcrist/kvauth/kv"
	"github.com/quellcrist/kvauth/password"
	"github.com/quellcrist/kvauth/session"
	"github.com/quellcrist/kvauth/users"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until Engine methods are called.
type Builder struct {
	config    Config
	store     kv.Store
	auditSink AuditSink

	built bool
}

// New returns a [Builder] preloaded with default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis wires a Redis client as the key-value backend.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.store = kv.NewRedis(client)
	return b
}

// WithStore wires an arbitrary [kv.Store] backend.
func (b *Builder) WithStore(store kv.Store) *Builder {
	b.store = store
	return b
}

// WithAuditSink sets the audit event destination.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics registry.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and assembles the engine. A builder can
// be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("a storage backend is required (WithRedis or WithStore)")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(b.config.Password)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config: b.config,
		store:  b.store,
		hasher: hasher,
		users:  users.NewStore(b.store, hasher),
		sessions: session.NewStore(
			b.store,
			b.config.Session.TTL,
			b.config.Session.TokenStrategy,
		),
		limiter: rate.New(b.store, rate.Config{
			MaxAttempts: b.config.Security.MaxLoginAttempts,
			Cooldown:    b.config.Security.LockoutCooldown,
		}),
		audit:   newAuditDispatcher(b.config.Audit, b.auditSink),
		metrics: NewMetrics(b.config.Metrics),
	}

	b.built = true
	return engine, nil
}
