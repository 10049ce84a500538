package kvauth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/quellcrist/kvauth/password"
	"github.com/quellcrist/kvauth/users"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	return mr, rdb
}

// testConfig keeps argon2 at its floor so hashing does not dominate test time.
func testConfig() Config {
	cfg := defaultConfig()
	cfg.Password = password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
	cfg.Session.TTL = 7 * 24 * time.Hour
	cfg.Security.MaxLoginAttempts = 5
	return cfg
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()

	_, rdb := newTestRedis(t)

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func mustCreateUser(t *testing.T, engine *Engine, username, plaintext string, role users.Role) {
	t.Helper()

	if err := engine.CreateUser(context.Background(), username, plaintext, role); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
}

func mustLogin(t *testing.T, engine *Engine, username, plaintext string) *LoginResult {
	t.Helper()

	result, err := engine.Login(context.Background(), username, plaintext)
	if err != nil {
		t.Fatalf("Login(%s) failed: %v", username, err)
	}
	return result
}
