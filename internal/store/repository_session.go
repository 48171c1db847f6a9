package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ebarkhatov/kbkeeper/internal/logger"
	"github.com/ebarkhatov/kbkeeper/models"
)

// rememberSessionRepository is the SQLite-backed implementation of
// [RememberSessionStore]. The table holds at most one row (id = 1); Save
// replaces it via upsert so "remember me" always reflects the latest login.
type rememberSessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewRememberSessionRepository constructs a [RememberSessionStore] backed by
// the provided database connection and logger.
func NewRememberSessionRepository(db *DB, logger *logger.Logger) RememberSessionStore {
	logger.Debug().Msg("creating remember session repository")
	return &rememberSessionRepository{
		db:     db,
		logger: logger,
	}
}

// Save stores session as the remembered session, replacing any previous one.
func (r *rememberSessionRepository) Save(ctx context.Context, session models.Session) error {
	_, err := r.db.ExecContext(ctx, saveRememberSession,
		session.UserID,
		session.Token,
		session.CreatedAt,
		session.UserAgent,
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "rememberSessionRepository.Save").
			Int64("user_id", session.UserID).
			Msg("failed to save remembered session")
		return fmt.Errorf("%w: save remembered session: %v", ErrStorage, err)
	}
	return nil
}

// Get returns the remembered session, or ErrRememberSessionNotFound when no
// login was remembered.
func (r *rememberSessionRepository) Get(ctx context.Context) (models.Session, error) {
	var session models.Session

	row := r.db.QueryRowContext(ctx, getRememberSession)
	err := row.Scan(
		&session.UserID,
		&session.Token,
		&session.CreatedAt,
		&session.UserAgent,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrRememberSessionNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "rememberSessionRepository.Get").
			Msg("failed to scan remembered session")
		return models.Session{}, fmt.Errorf("%w: scan remembered session: %v", ErrStorage, err)
	}

	return session, nil
}

// Delete erases the remembered session. Deleting when none exists is not an
// error.
func (r *rememberSessionRepository) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, deleteRememberSession); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "rememberSessionRepository.Delete").
			Msg("failed to delete remembered session")
		return fmt.Errorf("%w: delete remembered session: %v", ErrStorage, err)
	}
	return nil
}
