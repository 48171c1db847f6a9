package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/ebarkhatov/kbkeeper/internal/logger"
	"github.com/ebarkhatov/kbkeeper/models"
)

// userRepository is the SQLite-backed implementation of [UserRepository].
// It handles account creation, lookup, and login-state bookkeeping against
// the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with the store-assigned ID.
//
// Error handling:
//   - SQLite unique-constraint violation → [ErrUsernameAlreadyExists].
//   - Any other driver-level error → wrapped as [ErrStorage].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, createUser,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		nullableTime(user.LastLogin),
		user.LoginAttempts,
		nullableTime(user.LockedUntil),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return models.User{}, ErrUsernameAlreadyExists
		}

		log.Err(err).Str("func", "userRepository.CreateUser").Str("username", user.Username).Msg("failed to insert user")
		return models.User{}, fmt.Errorf("%w: insert user: %v", ErrStorage, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		log.Err(err).Str("func", "userRepository.CreateUser").Msg("failed to get inserted user id")
		return models.User{}, fmt.Errorf("%w: last insert id: %v", ErrStorage, err)
	}

	user.ID = id
	return user, nil
}

// FindUserByUsername retrieves the user whose Username exactly matches the
// one provided. The match is case-sensitive.
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findUser(ctx, findUserByUsername, username)
}

// FindUserByID retrieves the user with the given id.
func (r *userRepository) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	return r.findUser(ctx, findUserByID, id)
}

func (r *userRepository) findUser(ctx context.Context, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	var (
		user        models.User
		lastLogin   sql.NullTime
		lockedUntil sql.NullTime
	)

	row := r.db.QueryRowContext(ctx, query, arg)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&lastLogin,
		&user.LoginAttempts,
		&lockedUntil,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "userRepository.findUser").Msg("failed to scan user row")
		return models.User{}, fmt.Errorf("%w: scan user: %v", ErrStorage, err)
	}

	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	if lockedUntil.Valid {
		user.LockedUntil = &lockedUntil.Time
	}

	return user, nil
}

// SaveLoginState persists the mutable lockout bookkeeping of user:
// LoginAttempts, LockedUntil, and LastLogin. Other fields are never updated
// after creation.
func (r *userRepository) SaveLoginState(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, saveUserLoginState,
		user.LoginAttempts,
		nullableTime(user.LockedUntil),
		nullableTime(user.LastLogin),
		user.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "userRepository.SaveLoginState").
			Int64("user_id", user.ID).
			Msg("failed to update user login state")
		return fmt.Errorf("%w: update login state: %v", ErrStorage, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", ErrStorage, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// CountUsers reports how many user records exist.
func (r *userRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, countUsers).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count users: %v", ErrStorage, err)
	}
	return n, nil
}

// nullableTime converts an optional timestamp into its sql representation.
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
