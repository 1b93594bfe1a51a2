// Package queue defines message payloads exchanged over the message broker.
package queue

// LoginEvent is published once per successful login.  It carries enough for
// downstream consumers to log or alert on sign-in activity without querying
// the primary database.
type LoginEvent struct {
    UserID  string `json:"user_id"`
    Email   string `json:"email"`
    Source  string `json:"source"`
    LoginAt string `json:"login_at"`
}
