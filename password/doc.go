// Package password implements argon2id password hashing with PHC-formatted
// digests.
//
// Every Hash call draws a fresh random salt, so two digests of the same
// password never match; Verify recovers the parameters and salt from the
// digest itself and compares in constant time. Length and complexity policy
// is deliberately not enforced here — that belongs to the credential layer.
package password
