package models

import "time"

// Account is a registered user, keyed by lower-cased email.
type Account struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLoginAt  time.Time `json:"lastLoginAt,omitempty"`
}

// Session identifies the logged-in user for the lifetime of a command.
type Session struct {
	Email      string
	LoggedInAt time.Time
}

// Valid reports whether the session refers to a user.
func (s Session) Valid() bool {
	return s.Email != ""
}
