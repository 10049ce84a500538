// Package rate implements the per-username failed-login counter that backs
// brute-force lockout.
//
// Counters live in the key-value store under ratelimit:login:<username> and
// are incremented atomically, so concurrent failures for the same username
// are all observed. Limiting is per-username by design: the threat model is
// credential guessing against a small known user set, not distributed abuse.
// The accepted tradeoff is that an attacker who knows a valid username can
// lock that user out.
//
// Counters do not decay on their own. A cooldown TTL can be configured to
// give them fixed-window semantics; with a zero cooldown a counter persists
// until the next successful login resets it.
package rate
