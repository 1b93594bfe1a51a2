package model

import "time"

// User represents an account record as stored in the `users` table.  Each
// field corresponds to a column.  The json tags are omitted here because
// these structs are used internally by the repository layer; handlers define
// separate response types with appropriate JSON tags.
//
// Fields:
//  ID        – UUID primary key, stable for the lifetime of the account.
//  Email     – unique email address, stored exactly as registered.
//  Password  – bcrypt hash of the password (users.password holds the hash,
//              never the plain text).
//  FirstName – optional profile field.
//  LastName  – optional profile field.
//  Disabled  – soft deactivation; a disabled user must never authenticate.
//  CreatedAt – timestamp of creation.
type User struct {
    ID        string    // users.id (CHAR(36) UUID)
    Email     string    // users.email
    Password  string    // users.password (bcrypt hash)
    FirstName string    // users.first_name
    LastName  string    // users.last_name
    Disabled  bool      // users.disabled
    CreatedAt time.Time // users.created_at
}
