package model

import "time"

// Role represents a row in the `roles` table.  A role bundles a unique
// title with a permission bitmask.
//
// Fields:
//  ID          – UUID primary key.
//  Title       – unique role name (e.g. "admin", "subscriber").
//  Permissions – bitmask of capabilities granted by this role.
//  CreatedAt   – timestamp of creation.
type Role struct {
    ID          string     // roles.id (CHAR(36) UUID)
    Title       string     // roles.title
    Permissions Permission // roles.permissions
    CreatedAt   time.Time  // roles.created_at
}

// UserRole models an entry in the `users_roles` table.  Each user has at
// most one assignment; granting a new role overwrites the existing row
// rather than adding a second one.  Both foreign keys cascade on delete,
// so removing a user or a role clears its assignments.
//
// Fields:
//  ID     – UUID primary key.
//  UserID – owner of the assignment.
//  RoleID – the assigned role.
type UserRole struct {
    ID     string // users_roles.id
    UserID string // users_roles.user_id (FK users.id, ON DELETE CASCADE)
    RoleID string // users_roles.role_id (FK roles.id, ON DELETE CASCADE)
}
