package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebarkhatov/kbkeeper/internal/logger"
	"github.com/ebarkhatov/kbkeeper/models"
)

func newTestUserRepo(t *testing.T) UserRepository {
	t.Helper()
	return NewUserRepository(newTestDB(t), logger.Nop())
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, models.User{
		Username:     "operator",
		PasswordHash: "$argon2id$...",
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := repo.FindUserByUsername(ctx, "operator")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "operator", found.Username)
	assert.Equal(t, models.RoleUser, found.Role)
	assert.Nil(t, found.LastLogin)
	assert.Nil(t, found.LockedUntil)
	assert.Zero(t, found.LoginAttempts)

	byID, err := repo.FindUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, found.Username, byID.Username)
}

func TestUserRepository_UsernameIsCaseSensitive(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, models.User{
		Username: "Operator", PasswordHash: "h", Role: models.RoleUser, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	_, err = repo.FindUserByUsername(ctx, "operator")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	user := models.User{Username: "dup", PasswordHash: "h", Role: models.RoleUser, CreatedAt: time.Now()}

	_, err := repo.CreateUser(ctx, user)
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, user)
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
}

func TestUserRepository_FindMissing(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	_, err := repo.FindUserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.FindUserByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_SaveLoginState(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, models.User{
		Username: "locked", PasswordHash: "h", Role: models.RoleUser, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	lockedUntil := time.Now().Add(15 * time.Minute).UTC().Truncate(time.Second)
	lastLogin := time.Now().UTC().Truncate(time.Second)
	created.LoginAttempts = 5
	created.LockedUntil = &lockedUntil
	created.LastLogin = &lastLogin

	require.NoError(t, repo.SaveLoginState(ctx, created))

	found, err := repo.FindUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.LoginAttempts)
	require.NotNil(t, found.LockedUntil)
	assert.True(t, found.LockedUntil.Equal(lockedUntil))
	require.NotNil(t, found.LastLogin)
	assert.True(t, found.LastLogin.Equal(lastLogin))

	// Clearing the lock round-trips back to NULL.
	found.LoginAttempts = 0
	found.LockedUntil = nil
	require.NoError(t, repo.SaveLoginState(ctx, found))

	cleared, err := repo.FindUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Zero(t, cleared.LoginAttempts)
	assert.Nil(t, cleared.LockedUntil)
}

func TestUserRepository_SaveLoginStateMissingUser(t *testing.T) {
	repo := newTestUserRepo(t)

	err := repo.SaveLoginState(context.Background(), models.User{ID: 404})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_CountUsers(t *testing.T) {
	repo := newTestUserRepo(t)
	ctx := context.Background()

	count, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = repo.CreateUser(ctx, models.User{Username: "a", PasswordHash: "h", Role: models.RoleUser, CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = repo.CreateUser(ctx, models.User{Username: "b", PasswordHash: "h", Role: models.RoleUser, CreatedAt: time.Now()})
	require.NoError(t, err)

	count, err = repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUserRepository_DriverErrorsWrapErrStorage(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewUserRepository(&DB{DB: mockDB, logger: logger.Nop()}, logger.Nop())
	ctx := context.Background()

	driverErr := errors.New("disk I/O error")

	mock.ExpectExec("INSERT INTO users").WillReturnError(driverErr)
	_, err = repo.CreateUser(ctx, models.User{Username: "x", PasswordHash: "h", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrStorage)

	mock.ExpectQuery("SELECT (.+) FROM users").WillReturnError(driverErr)
	_, err = repo.FindUserByUsername(ctx, "x")
	assert.ErrorIs(t, err, ErrStorage)

	mock.ExpectExec("UPDATE users").WillReturnError(driverErr)
	err = repo.SaveLoginState(ctx, models.User{ID: 1})
	assert.ErrorIs(t, err, ErrStorage)

	require.NoError(t, mock.ExpectationsWereMet())
}
