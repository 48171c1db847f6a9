package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebarkhatov/kbkeeper/internal/logger"
	"github.com/ebarkhatov/kbkeeper/models"
)

func TestRememberSessionRepository_SaveGetDelete(t *testing.T) {
	repo := NewRememberSessionRepository(newTestDB(t), logger.Nop())
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, ErrRememberSessionNotFound)

	session := models.Session{
		UserID:    7,
		Token:     "signed-token",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UserAgent: "kbkeeper-cli/1.0",
	}
	require.NoError(t, repo.Save(ctx, session))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.Equal(t, session.Token, got.Token)
	assert.True(t, got.CreatedAt.Equal(session.CreatedAt))
	assert.Equal(t, session.UserAgent, got.UserAgent)

	require.NoError(t, repo.Delete(ctx))
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, ErrRememberSessionNotFound)

	// Deleting when nothing is remembered is not an error.
	assert.NoError(t, repo.Delete(ctx))
}

func TestRememberSessionRepository_SaveReplacesPrevious(t *testing.T) {
	repo := NewRememberSessionRepository(newTestDB(t), logger.Nop())
	ctx := context.Background()

	first := models.Session{UserID: 1, Token: "first", CreatedAt: time.Now()}
	second := models.Session{UserID: 2, Token: "second", CreatedAt: time.Now()}

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.UserID)
	assert.Equal(t, "second", got.Token)
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()

	_, ok := store.Get()
	assert.False(t, ok)

	session := models.Session{UserID: 3, Token: "tok"}
	store.Put(session)

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, session, got)

	store.Clear()
	_, ok = store.Get()
	assert.False(t, ok)

	// Clear is idempotent.
	store.Clear()
	_, ok = store.Get()
	assert.False(t, ok)
}
