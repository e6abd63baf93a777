// Package security issues and verifies CSRF tokens for mutating file manager
// requests. Tokens are stateless: a ULID nonce, an expiry, and a keyed BLAKE2b
// MAC binding both to a scope and a station.
package security
