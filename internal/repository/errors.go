// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrUserExists indicates that a signup collided with an
// already registered email, while ErrRoleNotFound signals that an
// operation referenced a role id that does not exist.
package repository

import "errors"

// ErrUserExists is returned when an insert collides with the unique email
// index on the users table. Handlers translate this into HTTP 401 to stay
// wire compatible with the original service.
var ErrUserExists = errors.New("user already exists")

// ErrRoleExists is returned when a role insert collides with the unique
// title index. Handlers translate this into HTTP 409.
var ErrRoleExists = errors.New("role already exists")

// ErrRoleNotFound is returned when an update, delete or assignment
// references a role id with no matching row. Handlers translate this
// into HTTP 404.
var ErrRoleNotFound = errors.New("role not found")

// ErrNotFound is the generic no-rows result for lookups where absence is an
// expected outcome rather than a bug. It replaces raw sql.ErrNoRows so the
// engines never depend on database/sql sentinels.
var ErrNotFound = errors.New("not found")
