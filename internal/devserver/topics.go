package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ebarkhatov/kbkeeper/internal/store"
	"github.com/ebarkhatov/kbkeeper/models"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// initTopics seeds the built-in topics when the store is empty. Calling it
// against a populated store is a no-op, so clients may fire it on every
// connect.
func (h *Handler) initTopics(w http.ResponseWriter, r *http.Request) {
	if err := store.SeedTopics(r.Context(), h.topics); err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to seed topics")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listTopics(w http.ResponseWriter, r *http.Request) {
	filter := models.TopicFilter{
		Search:   r.URL.Query().Get("search"),
		Category: models.Category(r.URL.Query().Get("category")),
		OrderBy:  r.URL.Query().Get("orderBy"),
		Order:    r.URL.Query().Get("order"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	topics, err := h.topics.ListTopics(r.Context(), filter)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to list topics")
		return
	}
	if topics == nil {
		topics = []models.Topic{}
	}

	h.writeJSON(w, http.StatusOK, topics)
}

func (h *Handler) getTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := h.topicID(w, r)
	if !ok {
		return
	}

	topic, err := h.topics.GetTopic(r.Context(), id)
	if errors.Is(err, store.ErrTopicNotFound) {
		h.writeError(w, http.StatusNotFound, "topic not found")
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to load topic")
		return
	}

	h.writeJSON(w, http.StatusOK, topic)
}

func (h *Handler) createTopic(w http.ResponseWriter, r *http.Request) {
	var topic models.Topic
	if err := json.NewDecoder(r.Body).Decode(&topic); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid topic payload")
		return
	}

	if topic.Title == "" || topic.Content == "" {
		h.writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}
	if !topic.Category.Valid() {
		h.writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	// The server owns id assignment.
	topic.ID = 0

	created, err := h.topics.CreateTopic(r.Context(), topic)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to create topic")
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := h.topicID(w, r)
	if !ok {
		return
	}

	var updates models.TopicUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid update payload")
		return
	}
	if updates.Category != nil && !updates.Category.Valid() {
		h.writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	err := h.topics.UpdateTopic(r.Context(), id, updates)
	if errors.Is(err, store.ErrTopicNotFound) {
		h.writeError(w, http.StatusNotFound, "topic not found")
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to update topic")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteTopic always answers 204 for a well-formed id, including ids that
// never existed. Clients treat deletion as idempotent.
func (h *Handler) deleteTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := h.topicID(w, r)
	if !ok {
		return
	}

	if err := h.topics.DeleteTopic(r.Context(), id); err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to delete topic")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) categoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.topics.CategoryStats(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to load category stats")
		return
	}
	if stats == nil {
		stats = []models.CategoryStat{}
	}

	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) topicID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid topic id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
