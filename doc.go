// Package kvauth provides a credential, session, and admin-authorization
// engine backed by a pluggable key-value store.
//
// The engine covers salted slow-hash credential storage, opaque bearer-token
// sessions with absolute expiry, per-username login lockout, and a role-based
// admin gate. It is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build], and all shared mutable state lives in the injected
// [kv.Store], which is the sole synchronization point.
//
// # Architecture boundaries
//
// kvauth is the public surface. It exposes [Engine], [Builder], [Config], and
// value types (AuthResult, LoginResult, Stats, MetricsSnapshot). Credential
// records live in the users package, sessions in the session package, and the
// lockout counter under internal/rate; the presentation and transport layers
// are collaborators that call Engine operations and render results.
//
// # Token model
//
// Session tokens are opaque high-entropy strings, stored server-side and
// revocable at any time. They are not JWTs: logout must invalidate a token
// immediately, which requires a server-side record.
package kvauth
