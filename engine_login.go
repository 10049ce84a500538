package kvauth

import (
	"context"
	"errors"
	"log"

	"github.com/quellcrist/kvauth/users"
)

// Login runs the full login sequence for a credential pair: lockout check,
// user lookup, digest verification, session issuance, statistics.
//
// Unknown-username and wrong-password failures are deliberately
// indistinguishable: both record a failed attempt and return
// [ErrInvalidCredentials]. A locked username fails with [ErrTooManyAttempts]
// before any digest work. Statistics recording is best-effort and never rolls
// back an issued session.
func (e *Engine) Login(ctx context.Context, username, plaintext string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	// Shape validation happens before any storage access.
	if username == "" || plaintext == "" {
		return nil, ErrInvalidInput
	}
	if len(username) > e.config.Security.MaxUsernameBytes ||
		len(plaintext) > e.config.Security.MaxPasswordBytes {
		return nil, ErrInvalidInput
	}

	// CheckLock. No digest comparison happens once locked, so a locked
	// username reveals nothing further about account existence.
	locked, err := e.limiter.IsLocked(ctx, username)
	if err != nil {
		return nil, e.storageErr(err)
	}
	if locked {
		e.metricInc(MetricLoginRateLimited)
		e.emit(AuditEvent{
			EventType: EventLoginRateLimited,
			Username:  username,
			Success:   false,
		})
		return nil, ErrTooManyAttempts
	}

	// CheckUser. A missing account still advances the counter so lockout
	// behavior does not reveal non-existence.
	user, err := e.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, e.failLogin(ctx, username, "unknown user")
		}
		return nil, e.storageErr(err)
	}

	// VerifyPassword. A hasher failure aborts; it never degrades to a
	// weaker comparison.
	ok, err := e.hasher.Verify(plaintext, user.PasswordHash)
	if err != nil {
		return nil, e.storageErr(err)
	}
	if !ok {
		return nil, e.failLogin(ctx, username, "password mismatch")
	}

	// IssueSession: clear accumulated failures, then mint the token.
	if err := e.limiter.Reset(ctx, username); err != nil {
		return nil, e.storageErr(err)
	}
	token, err := e.sessions.Issue(ctx, username, string(user.Role))
	if err != nil {
		return nil, e.storageErr(err)
	}

	if e.config.Security.RehashOnLogin {
		e.maybeRehash(ctx, user, plaintext)
	}

	// RecordStats: best-effort, the user is already authenticated.
	if err := e.recordLogin(ctx); err != nil {
		log.Printf("kvauth: login statistics write failed: %v", err)
		e.emit(AuditEvent{
			EventType: EventStatsWriteFailed,
			Username:  username,
			Success:   false,
			Error:     err.Error(),
		})
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricSessionIssued)
	e.emit(AuditEvent{
		EventType: EventLoginSuccess,
		Username:  username,
		Success:   true,
	})

	return &LoginResult{Token: token, Role: user.Role}, nil
}

// failLogin records the failed attempt and returns the generic credential
// error. The counter write is best-effort: a storage hiccup here must not
// turn a credential failure into a different, distinguishable error.
func (e *Engine) failLogin(ctx context.Context, username, reason string) error {
	if err := e.limiter.RecordFailure(ctx, username); err != nil {
		log.Printf("kvauth: failed-attempt counter write failed: %v", err)
	}

	e.metricInc(MetricLoginFailure)
	e.emit(AuditEvent{
		EventType: EventLoginFailure,
		Username:  username,
		Success:   false,
		Error:     reason,
	})

	return ErrInvalidCredentials
}

// maybeRehash upgrades the stored digest to current argon2 parameters.
// Best-effort: the login already succeeded.
func (e *Engine) maybeRehash(ctx context.Context, user *users.User, plaintext string) {
	needs, err := e.hasher.NeedsRehash(user.PasswordHash)
	if err != nil || !needs {
		return
	}
	if err := e.users.UpdatePassword(ctx, user.Username, plaintext); err != nil {
		log.Printf("kvauth: digest upgrade for %s failed: %v", user.Username, err)
	}
}
