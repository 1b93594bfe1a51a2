package model

import "time"

// LoginHistory is an immutable row in the `logins_history` table, appended
// once per successful login and never mutated afterwards.
//
// Fields:
//  ID        – UUID primary key.
//  UserID    – the user that logged in.
//  Source    – free-form label of where the login came from (user agent);
//              empty when unknown.
//  LoginTime – when the credentials were verified.
//  CreatedAt – timestamp of row creation.
type LoginHistory struct {
    ID        string    // logins_history.id
    UserID    string    // logins_history.user_id (FK users.id, ON DELETE CASCADE)
    Source    string    // logins_history.source
    LoginTime time.Time // logins_history.login_time
    CreatedAt time.Time // logins_history.created_at
}
