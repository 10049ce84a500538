package kvauth

import (
	"context"
	"errors"
	"testing"
)

func TestValidateUnknownSession(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	_, err := engine.ValidateSession(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeef")
	if !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	engine := newTestEngine(t, testConfig())
	ctx := context.Background()

	mustCreateUser(t, engine, "alice", "pass1", RoleUser)
	result := mustLogin(t, engine, "alice", "pass1")

	if err := engine.Logout(ctx, result.Token); err != nil {
		t.Fatalf("first Logout failed: %v", err)
	}
	if err := engine.Logout(ctx, result.Token); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}

	if _, err := engine.ValidateSession(ctx, result.Token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected revoked session invalid, got %v", err)
	}
}

func TestRoleSnapshotSurvivesRoleChange(t *testing.T) {
	engine := newTestEngine(t, testConfig())
	ctx := context.Background()

	mustCreateUser(t, engine, "root-admin", "pass1", RoleAdmin)
	mustCreateUser(t, engine, "promoted", "pass1", RoleAdmin)
	result := mustLogin(t, engine, "promoted", "pass1")

	// Deleting and recreating the user as non-admin does not touch the
	// already-issued session; the snapshot holds until next login.
	if err := engine.DeleteUser(ctx, "promoted"); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	mustCreateUser(t, engine, "promoted", "pass1", RoleUser)

	res, err := engine.ValidateSession(ctx, result.Token)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if res.Role != RoleAdmin {
		t.Fatalf("expected snapshotted admin role, got %s", res.Role)
	}

	fresh := mustLogin(t, engine, "promoted", "pass1")
	freshRes, err := engine.ValidateSession(ctx, fresh.Token)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if freshRes.Role != RoleUser {
		t.Fatalf("expected fresh login to pick up new role, got %s", freshRes.Role)
	}
}

func TestRequireAdmin(t *testing.T) {
	engine := newTestEngine(t, testConfig())
	ctx := context.Background()

	mustCreateUser(t, engine, "boss", "pass1", RoleAdmin)
	mustCreateUser(t, engine, "alice", "pass1", RoleUser)

	adminLogin := mustLogin(t, engine, "boss", "pass1")
	userLogin := mustLogin(t, engine, "alice", "pass1")

	username, err := engine.RequireAdmin(ctx, adminLogin.Token)
	if err != nil {
		t.Fatalf("RequireAdmin failed for admin: %v", err)
	}
	if username != "boss" {
		t.Fatalf("expected username boss, got %s", username)
	}

	if _, err := engine.RequireAdmin(ctx, userLogin.Token); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin for non-admin session, got %v", err)
	}

	if _, err := engine.RequireAdmin(ctx, "no-such-token"); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for unknown token, got %v", err)
	}

	revoked := mustLogin(t, engine, "boss", "pass1")
	if err := engine.Logout(ctx, revoked.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := engine.RequireAdmin(ctx, revoked.Token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for revoked token, got %v", err)
	}
}
