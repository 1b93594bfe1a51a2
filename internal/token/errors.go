// Package token implements the token engine: minting of paired HS256
// access/refresh tokens, stateless verification, cache-backed logout
// revocation and single-use refresh rotation.
package token

import "errors"

// ErrUnauthenticated is returned when an access token is missing, tampered
// with, malformed, or present on the deny-list after a logout. Handlers
// translate this into HTTP 401.
var ErrUnauthenticated = errors.New("could not validate credentials")

// ErrTokenExpired is returned when an access token carries a valid signature
// but its expiry has elapsed. It is deliberately distinct from
// ErrUnauthenticated so clients know a refresh will help.
var ErrTokenExpired = errors.New("access token has expired")

// ErrMustRelogin is returned when a refresh token cannot be redeemed:
// invalid signature, already consumed, revoked, or never issued. All of
// those collapse into this single error so callers cannot probe which
// condition failed.
var ErrMustRelogin = errors.New("credentials expired, please login again")

// ErrCredentials is returned by the decode helper on any signature or
// format failure.
var ErrCredentials = errors.New("could not decode token")
