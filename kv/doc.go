// Package kv defines the key-value storage contract the kvauth engine runs
// on, plus the production Redis implementation.
//
// The engine never talks to Redis directly; every persisted record (users,
// sessions, rate-limit counters, statistics) goes through [Store]. Alternative
// backends only need single-key atomicity: Incr must be an atomic increment,
// and Set/Delete must be atomic per key. Nothing in the engine assumes
// multi-key transactions.
//
// # What this package must NOT do
//
//   - Interpret record payloads (values are opaque strings to the store).
//   - Leak backend error details; failures are wrapped in [ErrUnavailable].
package kv
