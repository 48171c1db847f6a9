package adapter

import (
	"context"

	"github.com/ebarkhatov/kbkeeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// ServerAdapter is the client-side view of the remote knowledge-base service.
//
// Every method returns an error wrapping [ErrRemoteUnavailable] when the
// service cannot be reached or answers with a server-side failure; callers
// use that class to decide when to fall back to the local cache. Remote
// "not found" answers map to [ErrNotFound] instead and never trigger a
// fallback.
type ServerAdapter interface {
	// Health probes the service. A nil error means the service is reachable
	// and answering.
	Health(ctx context.Context) error

	// Init asks the service to load its built-in topics when its store is
	// empty. Safe to call repeatedly.
	Init(ctx context.Context) error

	// GetTopics returns topics matching filter, ordered by the service.
	GetTopics(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error)

	// GetTopic returns the topic with the given id.
	GetTopic(ctx context.Context, id int64) (models.Topic, error)

	// CreateTopic stores topic remotely and returns it with the
	// server-assigned ID and derived fields.
	CreateTopic(ctx context.Context, topic models.Topic) (models.Topic, error)

	// UpdateTopic applies one update shape to the remote topic.
	UpdateTopic(ctx context.Context, id int64, updates models.TopicUpdate) error

	// DeleteTopic removes the remote topic. Deleting a missing id is not an
	// error.
	DeleteTopic(ctx context.Context, id int64) error

	// CategoryStats returns the service's per-category topic counts.
	CategoryStats(ctx context.Context) ([]models.CategoryStat, error)
}
