// Package users owns user records: username, password digest, role, and
// creation time. No other component mutates these records.
//
// Records live in the key-value store under user:<username>, one digest per
// username at all times; plaintext passwords are hashed before anything
// touches storage. Delete enforces the last-admin invariant — the store never
// reaches a state with zero admin users.
//
// The minimum password length of 4 matches the deployed policy and is known
// to be weak; raise [MinPasswordLen] expectations at the configuration level
// for real deployments rather than editing the constant here.
package users
