package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ebarkhatov/kbkeeper/internal/adapter"
	"github.com/ebarkhatov/kbkeeper/internal/logger"
	"github.com/ebarkhatov/kbkeeper/internal/store"
	"github.com/ebarkhatov/kbkeeper/models"
)

// TopicRepository serves topic reads and writes from the remote service when
// it is reachable and from the local SQLite cache otherwise.
//
// The fallback is sticky: once any remote operation fails the repository
// downgrades to the local cache for the rest of the process lifetime and
// re-runs the failed operation locally, so a flapping service cannot make
// the data source oscillate mid-session. A remote "not found" answer is a
// definitive result from a healthy service and never triggers the fallback.
//
// After successful remote mutations the local cache is synced best-effort so
// a later downgrade starts from recent data.
type TopicRepository struct {
	remote adapter.ServerAdapter
	cache  store.TopicRepository
	logger *logger.Logger

	mu   sync.RWMutex
	mode Mode
}

// NewTopicRepository constructs a TopicRepository in ModeProbing. Call Probe
// before serving requests.
func NewTopicRepository(remote adapter.ServerAdapter, cache store.TopicRepository, log *logger.Logger) *TopicRepository {
	return &TopicRepository{
		remote: remote,
		cache:  cache,
		logger: log,
		mode:   ModeProbing,
	}
}

// Mode returns the current data-source mode.
func (r *TopicRepository) Mode() Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// Probe checks remote availability once and fixes the initial mode. A
// reachable service is also asked to load its built-in topics so both sides
// start from a populated store. Probing an already-probed repository is a
// no-op.
func (r *TopicRepository) Probe(ctx context.Context) Mode {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode != ModeProbing {
		return r.mode
	}

	if err := r.remote.Health(ctx); err != nil {
		r.logger.Info().Err(err).Msg("remote service unreachable, working from local cache")
		r.mode = ModeLocal
		return r.mode
	}

	if err := r.remote.Init(ctx); err != nil {
		r.logger.Info().Err(err).Msg("remote init failed, working from local cache")
		r.mode = ModeLocal
		return r.mode
	}

	r.logger.Info().Msg("remote service available")
	r.mode = ModeRemote
	return r.mode
}

// downgrade switches to the local cache permanently. err is the remote
// failure that triggered it.
func (r *TopicRepository) downgrade(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode == ModeLocal {
		return
	}
	r.logger.Warn().Err(err).Msg("remote operation failed, falling back to local cache")
	r.mode = ModeLocal
}

// useRemote reports whether the next operation should try the remote
// service. A repository that was never probed stays local for safety.
func (r *TopicRepository) useRemote() bool {
	return r.Mode() == ModeRemote
}

// isDefinitive reports whether a remote error is a final answer rather than
// an availability failure.
func isDefinitive(err error) bool {
	return errors.Is(err, adapter.ErrNotFound)
}

// GetTopics returns topics matching filter. It never returns an error: a
// remote failure downgrades to the local cache, and a cache failure yields
// an empty list.
func (r *TopicRepository) GetTopics(ctx context.Context, filter models.TopicFilter) []models.Topic {
	if r.useRemote() {
		topics, err := r.remote.GetTopics(ctx, filter)
		if err == nil {
			return topics
		}
		r.downgrade(err)
	}

	topics, err := r.cache.ListTopics(ctx, filter)
	if err != nil {
		r.logger.Err(err).Msg("local topic listing failed")
		return nil
	}
	return topics
}

// GetTopic returns the topic with the given id, or ErrTopicNotFound.
func (r *TopicRepository) GetTopic(ctx context.Context, id int64) (models.Topic, error) {
	if r.useRemote() {
		topic, err := r.remote.GetTopic(ctx, id)
		if err == nil {
			return topic, nil
		}
		if isDefinitive(err) {
			return models.Topic{}, ErrTopicNotFound
		}
		r.downgrade(err)
	}

	topic, err := r.cache.GetTopic(ctx, id)
	if errors.Is(err, store.ErrTopicNotFound) {
		return models.Topic{}, ErrTopicNotFound
	}
	if err != nil {
		return models.Topic{}, fmt.Errorf("get topic from cache: %w", err)
	}
	return topic, nil
}

// CreateTopic stores a new topic and returns it with its assigned ID. In
// remote mode the server assigns the ID and the result is synced into the
// local cache; in local mode the cache assigns max(existing)+1.
func (r *TopicRepository) CreateTopic(ctx context.Context, topic models.Topic) (models.Topic, error) {
	if r.useRemote() {
		created, err := r.remote.CreateTopic(ctx, topic)
		if err == nil {
			r.syncCreate(ctx, created)
			return created, nil
		}
		if isDefinitive(err) {
			return models.Topic{}, err
		}
		r.downgrade(err)
	}

	created, err := r.cache.CreateTopic(ctx, topic)
	if err != nil {
		return models.Topic{}, fmt.Errorf("create topic in cache: %w", err)
	}
	return created, nil
}

// UpdateTopic applies one update shape to the topic with the given id.
func (r *TopicRepository) UpdateTopic(ctx context.Context, id int64, updates models.TopicUpdate) error {
	if r.useRemote() {
		err := r.remote.UpdateTopic(ctx, id, updates)
		if err == nil {
			r.syncUpdate(ctx, id, updates)
			return nil
		}
		if isDefinitive(err) {
			return ErrTopicNotFound
		}
		r.downgrade(err)
	}

	err := r.cache.UpdateTopic(ctx, id, updates)
	if errors.Is(err, store.ErrTopicNotFound) {
		return ErrTopicNotFound
	}
	if err != nil {
		return fmt.Errorf("update topic in cache: %w", err)
	}
	return nil
}

// DeleteTopic removes the topic with the given id. Deleting a missing id
// succeeds in both modes.
func (r *TopicRepository) DeleteTopic(ctx context.Context, id int64) error {
	if r.useRemote() {
		err := r.remote.DeleteTopic(ctx, id)
		if err == nil || isDefinitive(err) {
			r.syncDelete(ctx, id)
			return nil
		}
		r.downgrade(err)
	}

	if err := r.cache.DeleteTopic(ctx, id); err != nil {
		return fmt.Errorf("delete topic from cache: %w", err)
	}
	return nil
}

// GetCategoryStats returns per-category topic counts from the active data
// source.
func (r *TopicRepository) GetCategoryStats(ctx context.Context) ([]models.CategoryStat, error) {
	if r.useRemote() {
		stats, err := r.remote.CategoryStats(ctx)
		if err == nil {
			return stats, nil
		}
		r.downgrade(err)
	}

	stats, err := r.cache.CategoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("category stats from cache: %w", err)
	}
	return stats, nil
}

// Cache sync helpers keep the local copy close to the remote truth after a
// successful remote mutation. Failures are logged and swallowed: the remote
// operation already succeeded and must not be reported as failed.

func (r *TopicRepository) syncCreate(ctx context.Context, topic models.Topic) {
	if _, err := r.cache.CreateTopic(ctx, topic); err != nil {
		r.logger.Err(err).Int64("topic_id", topic.ID).Msg("failed to sync created topic into cache")
	}
}

func (r *TopicRepository) syncUpdate(ctx context.Context, id int64, updates models.TopicUpdate) {
	err := r.cache.UpdateTopic(ctx, id, updates)
	if err != nil && !errors.Is(err, store.ErrTopicNotFound) {
		r.logger.Err(err).Int64("topic_id", id).Msg("failed to sync topic update into cache")
	}
}

func (r *TopicRepository) syncDelete(ctx context.Context, id int64) {
	if err := r.cache.DeleteTopic(ctx, id); err != nil {
		r.logger.Err(err).Int64("topic_id", id).Msg("failed to sync topic deletion from cache")
	}
}
