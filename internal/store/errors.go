package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUsernameAlreadyExists is returned when an attempt to register a new
	// user fails because a user with the same username already exists.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrUserNotFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrUserNotFound = errors.New("user not found")

	// ErrTopicNotFound is returned when a query or update targets a topic id
	// that does not exist in the local cache.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrRememberSessionNotFound is returned when no remember-me session has
	// been persisted.
	ErrRememberSessionNotFound = errors.New("remember session not found")

	// ErrStorage wraps driver-level failures: the durable store is
	// unreadable, unwritable, or holds data that cannot be decoded. Callers
	// are expected to degrade gracefully rather than crash.
	ErrStorage = errors.New("storage failure")
)
