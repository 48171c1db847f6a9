package devserver

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLogging)

	router.Get("/api/health", h.health)
	router.Post("/api/init", h.initTopics)

	router.Route("/api/topics", func(r chi.Router) {
		r.Get("/", h.listTopics)
		r.Post("/", h.createTopic)
		r.Get("/{id}", h.getTopic)
		r.Put("/{id}", h.updateTopic)
		r.Delete("/{id}", h.deleteTopic)
	})

	router.Get("/api/stats/categories", h.categoryStats)

	return router
}
