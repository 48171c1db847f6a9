package store

import (
	"context"

	"github.com/ebarkhatov/kbkeeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository is the durable credential store: one record per account,
// including the login-attempt bookkeeping mutated on every login attempt.
type UserRepository interface {
	// CreateUser persists a new user and returns it with the store-assigned
	// ID and CreatedAt. Returns ErrUsernameAlreadyExists on a duplicate
	// username.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByUsername returns the user with the exact (case-sensitive)
	// username, or ErrUserNotFound.
	FindUserByUsername(ctx context.Context, username string) (models.User, error)

	// FindUserByID returns the user with the given id, or ErrUserNotFound.
	FindUserByID(ctx context.Context, id int64) (models.User, error)

	// SaveLoginState persists the mutable login bookkeeping of user:
	// LoginAttempts, LockedUntil, and LastLogin.
	SaveLoginState(ctx context.Context, user models.User) error

	// CountUsers reports how many accounts exist. Used for first-run seeding.
	CountUsers(ctx context.Context) (int64, error)
}

// TopicRepository is the durable local topic cache. It is the fallback data
// source when the remote service is unreachable and the sync target after
// remote mutations.
type TopicRepository interface {
	// ListTopics returns topics matching filter in insertion order, newest
	// created first. OrderBy/Order in filter are ignored by the local cache.
	ListTopics(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error)

	// GetTopic returns the topic with the given id, or ErrTopicNotFound.
	GetTopic(ctx context.Context, id int64) (models.Topic, error)

	// CreateTopic inserts topic at the head of the list. A zero ID is
	// replaced with max(existing)+1 (1 when the cache is empty); a non-zero
	// ID (server-assigned) is kept as-is. An empty Date is stamped with the
	// current day and Preview is always derived from Content. Returns the
	// stored topic.
	CreateTopic(ctx context.Context, topic models.Topic) (models.Topic, error)

	// UpdateTopic applies one update shape to the topic with the given id:
	// an atomic counter increment, or a shallow field merge (recomputing
	// Preview when Content changes). Returns ErrTopicNotFound when the id
	// does not exist.
	UpdateTopic(ctx context.Context, id int64, updates models.TopicUpdate) error

	// DeleteTopic removes the topic with the given id. Deleting an id that
	// does not exist is not an error.
	DeleteTopic(ctx context.Context, id int64) error

	// CategoryStats returns per-category topic counts.
	CategoryStats(ctx context.Context) ([]models.CategoryStat, error)

	// CountTopics reports how many topics are cached. Used for first-run
	// seeding.
	CountTopics(ctx context.Context) (int64, error)
}

// RememberSessionStore persists at most one "remember me" session copy that
// survives process restarts.
type RememberSessionStore interface {
	// Save stores session, replacing any previously remembered one.
	Save(ctx context.Context, session models.Session) error

	// Get returns the remembered session, or ErrRememberSessionNotFound.
	Get(ctx context.Context) (models.Session, error)

	// Delete erases the remembered session. Deleting when none exists is
	// not an error.
	Delete(ctx context.Context) error
}

// SessionStore holds the volatile per-process session copy. It is the
// in-memory analogue of a browser tab's session storage: contents do not
// survive the process.
type SessionStore interface {
	// Put stores session as the active session.
	Put(session models.Session)

	// Get returns the active session and whether one is set.
	Get() (models.Session, bool)

	// Clear erases the active session. Idempotent.
	Clear()
}
