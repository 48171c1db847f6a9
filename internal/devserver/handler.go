// Package devserver is a reference implementation of the remote topic
// service consumed by the client adapter. It serves the same REST routes
// over the shared SQLite topic store and exists so the client can be run and
// tested end to end without an external backend.
package devserver

import (
	"github.com/ebarkhatov/kbkeeper/internal/logger"
	"github.com/ebarkhatov/kbkeeper/internal/store"
)

type Handler struct {
	topics store.TopicRepository

	logger *logger.Logger
}

func NewHandler(topics store.TopicRepository, logger *logger.Logger) *Handler {
	logger.Info().Msg("devserver handler created")
	return &Handler{
		topics: topics,
		logger: logger,
	}
}
