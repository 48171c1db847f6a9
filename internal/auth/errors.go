package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when no account exists for the given
	// username.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned by Register when the username already has
	// an account.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrPasswordMismatch is returned by Register when the confirmation does
	// not match the password.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrPasswordTooShort is returned by Register when the password is below
	// the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 4 characters")

	// ErrNotAuthenticated is returned by operations that require an active
	// session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// LockedError reports a login attempt against a locked account. Minutes is
// the remaining lock time rounded up to whole minutes, suitable for direct
// display.
type LockedError struct {
	Minutes int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d minutes", e.Minutes)
}

// InvalidCredentialsError reports a failed password check. Remaining is the
// number of attempts left before the account locks.
type InvalidCredentialsError struct {
	Remaining int
}

func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("invalid password, %d attempts remaining", e.Remaining)
}
