package kvauth

import (
	"context"
)

// ListUsers returns every user without digests, sorted by username. Callers
// must gate this with [Engine.RequireAdmin].
func (e *Engine) ListUsers(ctx context.Context) ([]UserInfo, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	infos, err := e.users.List(ctx)
	if err != nil {
		return nil, e.storageErr(err)
	}
	return infos, nil
}

// GetUser returns the listing record for one username. Caller-gated.
func (e *Engine) GetUser(ctx context.Context, username string) (*UserInfo, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	u, err := e.users.Get(ctx, username)
	if err != nil {
		return nil, e.storageErr(err)
	}
	return &UserInfo{
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}, nil
}

// CreateUser validates and stores a new user record. Caller-gated.
func (e *Engine) CreateUser(ctx context.Context, username, plaintext string, role Role) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if err := e.users.Create(ctx, username, plaintext, role); err != nil {
		return e.storageErr(err)
	}

	e.metricInc(MetricUserCreated)
	e.emit(AuditEvent{
		EventType: EventUserCreated,
		Username:  username,
		Success:   true,
		Metadata:  map[string]string{"role": string(role)},
	})
	return nil
}

// UpdateUserPassword re-hashes and replaces the digest for username; role
// and creation time are untouched. Caller-gated.
func (e *Engine) UpdateUserPassword(ctx context.Context, username, plaintext string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if err := e.users.UpdatePassword(ctx, username, plaintext); err != nil {
		return e.storageErr(err)
	}

	e.metricInc(MetricPasswordUpdated)
	e.emit(AuditEvent{
		EventType: EventPasswordUpdated,
		Username:  username,
		Success:   true,
	})
	return nil
}

// DeleteUser removes username, refusing with [ErrLastAdmin] when the target
// is the only remaining admin. Caller-gated.
func (e *Engine) DeleteUser(ctx context.Context, username string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if err := e.users.Delete(ctx, username); err != nil {
		return e.storageErr(err)
	}

	e.metricInc(MetricUserDeleted)
	e.emit(AuditEvent{
		EventType: EventUserDeleted,
		Username:  username,
		Success:   true,
	})
	return nil
}
