package models

import "time"

// User represents a player account
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	Name          string
	OAuthProvider string
	OAuthSubject  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasPassword reports whether the account can sign in with a password
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Session represents an authenticated session
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Identity is who is playing. Guests have an empty UserID and
// Authenticated is false.
type Identity struct {
	UserID        string
	SessionID     string
	Email         string
	Name          string
	Authenticated bool
}

// Guest is the identity of a player who has not signed in
var Guest = Identity{}
