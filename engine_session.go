package kvauth

import (
	"context"
	"errors"

	"github.com/quellcrist/kvauth/session"
)

// ValidateSession resolves a bearer token to its snapshotted identity.
// Missing, expired, and revoked tokens all return [ErrSessionInvalid];
// expired records are deleted on detection.
func (e *Engine) ValidateSession(ctx context.Context, token string) (*AuthResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	sess, err := e.sessions.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			if errors.Is(err, session.ErrExpired) {
				e.metricInc(MetricSessionExpired)
			}
			e.metricInc(MetricValidateFailure)
			return nil, ErrSessionInvalid
		}
		return nil, e.storageErr(err)
	}

	e.metricInc(MetricValidateSuccess)
	return &AuthResult{
		Username:  sess.Username,
		Role:      Role(sess.Role),
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// Logout revokes the token. Logging out an unknown or already expired token
// is a no-op success.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if err := e.sessions.Revoke(ctx, token); err != nil {
		return e.storageErr(err)
	}

	e.metricInc(MetricLogout)
	e.emit(AuditEvent{
		EventType: EventLogout,
		Success:   true,
	})
	return nil
}

// RequireAdmin is the single choke point for privileged operations: it
// validates the token and checks the snapshotted role. It performs no side
// effects beyond the session read. Returns the session's username on
// success; [ErrSessionInvalid] or [ErrNotAdmin] otherwise.
func (e *Engine) RequireAdmin(ctx context.Context, token string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	res, err := e.ValidateSession(ctx, token)
	if err != nil {
		return "", err
	}

	if res.Role != RoleAdmin {
		e.metricInc(MetricAdminDenied)
		e.emit(AuditEvent{
			EventType: EventAdminDenied,
			Username:  res.Username,
			Success:   false,
			Error:     ErrNotAdmin.Error(),
		})
		return "", ErrNotAdmin
	}

	return res.Username, nil
}
