package store

import (
	"context"
	"fmt"

	"github.com/ebarkhatov/kbkeeper/internal/config"
	"github.com/ebarkhatov/kbkeeper/internal/logger"
)

// Storages bundles every store the application wires: durable SQLite-backed
// repositories plus the volatile session holder.
type Storages struct {
	Users            UserRepository
	Topics           TopicRepository
	RememberSessions RememberSessionStore
	Sessions         SessionStore

	db *DB
}

// NewStorages connects to the local SQLite database, applies pending schema
// migrations, seeds the built-in topics into an empty cache, and returns the
// assembled stores.
func NewStorages(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectSQLite(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connect local database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate local database: %w", err)
	}

	topics := NewTopicRepository(db, log)
	if err := SeedTopics(ctx, topics); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed topics: %w", err)
	}

	return &Storages{
		Users:            NewUserRepository(db, log),
		Topics:           topics,
		RememberSessions: NewRememberSessionRepository(db, log),
		Sessions:         NewMemorySessionStore(),
		db:               db,
	}, nil
}

// Close releases the underlying database connection.
func (s *Storages) Close() error {
	return s.db.Close()
}
