// Package session issues, validates, and revokes opaque bearer tokens.
//
// A session snapshots the username and role at login time; role changes on
// the underlying user do not propagate to already-issued sessions. Expiry is
// absolute (creation + fixed TTL) and enforced lazily: an expired record is
// detected and deleted on the first Validate that sees it. The storage
// backend's native TTL mirrors the expiry as a sweep optimization with no
// observable behavior difference.
package session
