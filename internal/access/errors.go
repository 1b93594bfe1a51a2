// Package access implements the access control engine: credential
// verification, the single-role-per-user permission model and the
// self-or-nobody authorization rule for user-facing resources.
package access

import "errors"

// ErrWrongCredentials covers every way a login can fail: unknown email,
// wrong password, or a disabled account. The three are indistinguishable to
// the caller so responses leak nothing about which accounts exist.
var ErrWrongCredentials = errors.New("incorrect username or password")

// ErrPermissionDenied is returned when a caller operates on another user's
// resources. Handlers translate this into HTTP 403.
var ErrPermissionDenied = errors.New("permission denied")
