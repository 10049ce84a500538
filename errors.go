package kvauth

import "errors"

var (
	// ErrEngineNotReady is returned when an Engine method is called on a nil
	// or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrInvalidInput is returned for malformed arguments, rejected before
	// any storage access.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials covers both unknown-username and wrong-password
	// failures; the two are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTooManyAttempts is returned when a username is locked out after
	// repeated failed logins.
	ErrTooManyAttempts = errors.New("too many failed attempts")
	// ErrSessionInvalid is returned for missing, expired, or revoked session
	// tokens.
	ErrSessionInvalid = errors.New("invalid or expired session")
	// ErrNotAdmin is returned when a valid session lacks the admin role.
	ErrNotAdmin = errors.New("admin role required")
	// ErrUserNotFound is returned when the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when creating a username that is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrLastAdmin is returned when a delete would leave zero admin users.
	ErrLastAdmin = errors.New("cannot delete the last admin")
	// ErrStorageUnavailable is the generic server-side failure surfaced to
	// callers; storage detail stays in diagnostics, never in the error chain
	// shown to end users.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
