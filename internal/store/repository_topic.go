package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ebarkhatov/kbkeeper/internal/logger"
	"github.com/ebarkhatov/kbkeeper/internal/preview"
	"github.com/ebarkhatov/kbkeeper/models"
)

// topicRepository is the SQLite-backed implementation of [TopicRepository].
//
// Topics keep the knowledge base's list-insertion order through the
// sort_order column: seeded topics occupy ascending positions and every
// created topic takes the head position (min(sort_order)-1), so listing by
// sort_order yields newest-created first, the same order a prepend-based
// cache would produce.
type topicRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTopicRepository constructs a [TopicRepository] backed by the provided
// database connection and logger.
func NewTopicRepository(db *DB, logger *logger.Logger) TopicRepository {
	logger.Debug().Msg("creating topic repository")
	return &topicRepository{
		db:     db,
		logger: logger,
	}
}

// ListTopics returns topics matching filter in insertion order, newest
// created first.
//
// The search term matches case-insensitively against title, content,
// category, and the serialized keyword list. Category is an exact match.
// OrderBy/Order are remote-only options and are ignored here.
func (r *topicRepository) ListTopics(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select(
		"id", "title", "category", "keywords", "content",
		"preview", "author", "date", "views", "helpful",
	).
		From("topics").
		OrderBy("sort_order ASC")

	if filter.Search != "" {
		// SQLite LIKE is case-insensitive for ASCII.
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.Like{"title": pattern},
			sq.Like{"content": pattern},
			sq.Like{"category": pattern},
			sq.Like{"keywords": pattern},
		})
	}

	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build topics query: %v", ErrStorage, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "topicRepository.ListTopics").Msg("failed to query topics")
		return nil, fmt.Errorf("%w: query topics: %v", ErrStorage, err)
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		topic, err := scanTopic(rows.Scan)
		if err != nil {
			log.Err(err).Str("func", "topicRepository.ListTopics").Msg("failed to scan topic row")
			return nil, err
		}
		topics = append(topics, topic)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate topics: %v", ErrStorage, err)
	}

	return topics, nil
}

// GetTopic returns the topic with the given id.
func (r *topicRepository) GetTopic(ctx context.Context, id int64) (models.Topic, error) {
	row := r.db.QueryRowContext(ctx, getTopicByID, id)

	topic, err := scanTopic(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Topic{}, ErrTopicNotFound
	}
	if err != nil {
		return models.Topic{}, err
	}

	return topic, nil
}

// CreateTopic inserts topic at the head of the list and returns the stored
// record. A zero ID receives max(existing)+1; a non-zero (server-assigned)
// ID is kept. Preview is derived from Content unconditionally.
func (r *topicRepository) CreateTopic(ctx context.Context, topic models.Topic) (models.Topic, error) {
	log := logger.FromContext(ctx)

	if topic.ID == 0 {
		if err := r.db.QueryRowContext(ctx, nextTopicID).Scan(&topic.ID); err != nil {
			return models.Topic{}, fmt.Errorf("%w: next topic id: %v", ErrStorage, err)
		}
	}

	var sortOrder int64
	if err := r.db.QueryRowContext(ctx, headSortOrder).Scan(&sortOrder); err != nil {
		return models.Topic{}, fmt.Errorf("%w: head sort order: %v", ErrStorage, err)
	}

	if topic.Date == "" {
		topic.Date = time.Now().Format("2006-01-02")
	}
	topic.Preview = preview.Derive(topic.Content, preview.DefaultLimit)

	keywords, err := encodeKeywords(topic.Keywords)
	if err != nil {
		return models.Topic{}, err
	}

	_, err = r.db.ExecContext(ctx, insertTopic,
		topic.ID,
		topic.Title,
		topic.Category,
		keywords,
		topic.Content,
		topic.Preview,
		topic.Author,
		topic.Date,
		topic.Views,
		topic.Helpful,
		sortOrder,
	)
	if err != nil {
		log.Err(err).
			Str("func", "topicRepository.CreateTopic").
			Int64("topic_id", topic.ID).
			Msg("failed to insert topic")
		return models.Topic{}, fmt.Errorf("%w: insert topic: %v", ErrStorage, err)
	}

	return topic, nil
}

// UpdateTopic applies one update shape to the stored topic. The increment
// shapes run as single atomic UPDATE statements so interleaved full-field
// merges can never lose a count.
func (r *topicRepository) UpdateTopic(ctx context.Context, id int64, updates models.TopicUpdate) error {
	log := logger.FromContext(ctx)

	if updates.IsIncrement() {
		query := incrementTopicViews
		if updates.IncrementHelpful {
			query = incrementTopicHelpful
		}

		res, err := r.db.ExecContext(ctx, query, id)
		if err != nil {
			log.Err(err).Str("func", "topicRepository.UpdateTopic").Int64("topic_id", id).Msg("failed to increment counter")
			return fmt.Errorf("%w: increment counter: %v", ErrStorage, err)
		}
		return requireAffected(res)
	}

	existing, err := r.GetTopic(ctx, id)
	if err != nil {
		return err
	}

	merged := mergeTopic(existing, updates)
	keywords, err := encodeKeywords(merged.Keywords)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, updateTopicFields,
		merged.Title,
		merged.Category,
		keywords,
		merged.Content,
		merged.Preview,
		merged.Author,
		id,
	)
	if err != nil {
		log.Err(err).Str("func", "topicRepository.UpdateTopic").Int64("topic_id", id).Msg("failed to update topic")
		return fmt.Errorf("%w: update topic: %v", ErrStorage, err)
	}
	return requireAffected(res)
}

// DeleteTopic removes the topic with the given id. Missing ids are treated
// as already deleted.
func (r *topicRepository) DeleteTopic(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, deleteTopicByID, id); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "topicRepository.DeleteTopic").
			Int64("topic_id", id).
			Msg("failed to delete topic")
		return fmt.Errorf("%w: delete topic: %v", ErrStorage, err)
	}
	return nil
}

// CategoryStats returns per-category topic counts, largest first.
func (r *topicRepository) CategoryStats(ctx context.Context) ([]models.CategoryStat, error) {
	rows, err := r.db.QueryContext(ctx, topicCategoryStats)
	if err != nil {
		return nil, fmt.Errorf("%w: query category stats: %v", ErrStorage, err)
	}
	defer rows.Close()

	var stats []models.CategoryStat
	for rows.Next() {
		var stat models.CategoryStat
		if err := rows.Scan(&stat.Category, &stat.Count); err != nil {
			return nil, fmt.Errorf("%w: scan category stat: %v", ErrStorage, err)
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate category stats: %v", ErrStorage, err)
	}

	return stats, nil
}

// CountTopics reports how many topics are cached.
func (r *topicRepository) CountTopics(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, countTopics).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count topics: %v", ErrStorage, err)
	}
	return n, nil
}

// mergeTopic overlays the non-nil fields of updates onto base. Preview is
// recomputed when Content changes.
func mergeTopic(base models.Topic, updates models.TopicUpdate) models.Topic {
	if updates.Title != nil {
		base.Title = *updates.Title
	}
	if updates.Category != nil {
		base.Category = *updates.Category
	}
	if updates.Keywords != nil {
		base.Keywords = *updates.Keywords
	}
	if updates.Author != nil {
		base.Author = *updates.Author
	}
	if updates.Content != nil {
		base.Content = *updates.Content
		base.Preview = preview.Derive(base.Content, preview.DefaultLimit)
	}
	return base
}

func scanTopic(scan func(dest ...any) error) (models.Topic, error) {
	var (
		topic    models.Topic
		keywords string
	)

	err := scan(
		&topic.ID,
		&topic.Title,
		&topic.Category,
		&keywords,
		&topic.Content,
		&topic.Preview,
		&topic.Author,
		&topic.Date,
		&topic.Views,
		&topic.Helpful,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Topic{}, err
	}
	if err != nil {
		return models.Topic{}, fmt.Errorf("%w: scan topic: %v", ErrStorage, err)
	}

	if err := json.Unmarshal([]byte(keywords), &topic.Keywords); err != nil {
		// A corrupted keyword list degrades to "no keywords" rather than
		// failing the whole read.
		topic.Keywords = nil
	}

	return topic, nil
}

func encodeKeywords(keywords []string) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	raw, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("%w: encode keywords: %v", ErrStorage, err)
	}
	return string(raw), nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", ErrStorage, err)
	}
	if affected == 0 {
		return ErrTopicNotFound
	}
	return nil
}
