package models

import "time"

// Role is the coarse authorization level assigned to a user account.
type Role string

const (
	// RoleAdmin grants every capability unconditionally.
	RoleAdmin Role = "admin"

	// RoleUser is the default role for self-registered accounts.
	RoleUser Role = "user"
)

// User represents an account entity used for authentication and authorization.
// It contains identity attributes, the password hash, and the login-attempt
// bookkeeping used by the lockout policy.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// ID is the internal unique identifier of the user, assigned
	// monotonically by the credential store.
	ID int64 `json:"id"`

	// Username is the unique, case-sensitive login identifier.
	Username string `json:"username"`

	// PasswordHash is the PHC-encoded Argon2id hash of the user's password.
	// It is never serialized.
	PasswordHash string `json:"-"`

	// Role is the coarse authorization level of the account.
	Role Role `json:"role"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// LastLogin is the timestamp of the most recent successful login,
	// nil until the user has logged in at least once.
	LastLogin *time.Time `json:"last_login,omitempty"`

	// LoginAttempts counts consecutive failed login attempts since the last
	// successful login. Reset to zero on success or when an expired lock is
	// cleared.
	LoginAttempts int `json:"login_attempts"`

	// LockedUntil is the moment until which login attempts are rejected,
	// nil when the account is not locked.
	LockedUntil *time.Time `json:"locked_until,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
