package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebarkhatov/kbkeeper/internal/config"
	"github.com/ebarkhatov/kbkeeper/internal/logger"
	"github.com/ebarkhatov/kbkeeper/internal/store"
	"github.com/ebarkhatov/kbkeeper/models"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Storages) {
	t.Helper()

	cfg := config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "kb.db")}}
	storages, err := store.NewStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { storages.Close() })

	handler := NewHandler(storages.Topics, logger.Nop())
	srv := httptest.NewServer(handler.Init())
	t.Cleanup(srv.Close)

	return srv, storages
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHandler_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]bool](t, resp)
	assert.True(t, body["ok"])
}

func TestHandler_InitIsIdempotent(t *testing.T) {
	srv, storages := newTestServer(t)
	ctx := context.Background()

	before, err := storages.Topics.ListTopics(ctx, models.TopicFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, before)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/init", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	after, err := storages.Topics.ListTopics(ctx, models.TopicFilter{})
	require.NoError(t, err)
	assert.Len(t, after, len(before), "init on a populated store must not reseed")
}

func TestHandler_ListTopics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/topics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	topics := decodeBody[[]models.Topic](t, resp)
	assert.NotEmpty(t, topics)
}

func TestHandler_ListTopicsFiltered(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/topics?category=Errors", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	topics := decodeBody[[]models.Topic](t, resp)
	for _, topic := range topics {
		assert.Equal(t, models.CategoryErrors, topic.Category)
	}
}

func TestHandler_ListTopicsNoMatchesReturnsEmptyArray(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/topics?search=zzz-no-such-topic", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw), "missing results must encode as [], not null")
}

func TestHandler_ListTopicsInvalidLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, limit := range []string{"abc", "-1"} {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/topics?limit="+limit, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestHandler_CreateAndGetTopic(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/topics", models.Topic{
		ID:       999, // must be ignored, the server assigns ids
		Title:    "Flush cycle walkthrough",
		Content:  "Open the drain valve before starting the flush.",
		Category: models.CategoryProcedures,
		Author:   "tester",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeBody[models.Topic](t, resp)
	assert.NotEqual(t, int64(999), created.ID)
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.Preview)

	got := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/topics/%d", srv.URL, created.ID), nil)
	require.Equal(t, http.StatusOK, got.StatusCode)

	fetched := decodeBody[models.Topic](t, got)
	assert.Equal(t, "Flush cycle walkthrough", fetched.Title)
}

func TestHandler_CreateTopicValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name  string
		topic models.Topic
	}{
		{name: "missing title", topic: models.Topic{Content: "c", Category: models.CategoryDosing}},
		{name: "missing content", topic: models.Topic{Title: "t", Category: models.CategoryDosing}},
		{name: "unknown category", topic: models.Topic{Title: "t", Content: "c", Category: "Gossip"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/topics", tt.topic)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			body := decodeBody[map[string]string](t, resp)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandler_CreateTopicMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/topics", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_GetTopicNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/topics/99999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_InvalidTopicID(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, id := range []string{"abc", "0", "-3"} {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/topics/"+id, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestHandler_UpdateTopic(t *testing.T) {
	srv, storages := newTestServer(t)
	ctx := context.Background()

	seeded, err := storages.Topics.ListTopics(ctx, models.TopicFilter{})
	require.NoError(t, err)
	target := seeded[0]

	title := "Renamed over HTTP"
	resp := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/topics/%d", srv.URL, target.ID), models.TopicUpdate{Title: &title})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	updated, err := storages.Topics.GetTopic(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed over HTTP", updated.Title)
}

func TestHandler_UpdateTopicIncrementsViews(t *testing.T) {
	srv, storages := newTestServer(t)
	ctx := context.Background()

	seeded, err := storages.Topics.ListTopics(ctx, models.TopicFilter{})
	require.NoError(t, err)
	target := seeded[0]

	resp := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/topics/%d", srv.URL, target.ID), models.TopicUpdate{IncrementView: true})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	updated, err := storages.Topics.GetTopic(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.Views+1, updated.Views)
}

func TestHandler_UpdateTopicNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	title := "nobody home"
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/topics/99999", models.TopicUpdate{Title: &title})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_UpdateTopicUnknownCategory(t *testing.T) {
	srv, _ := newTestServer(t)

	bad := models.Category("Gossip")
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/topics/1", models.TopicUpdate{Category: &bad})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_DeleteTopicIsIdempotent(t *testing.T) {
	srv, storages := newTestServer(t)
	ctx := context.Background()

	seeded, err := storages.Topics.ListTopics(ctx, models.TopicFilter{})
	require.NoError(t, err)
	target := seeded[0]

	url := fmt.Sprintf("%s/api/topics/%d", srv.URL, target.ID)
	assert.Equal(t, http.StatusNoContent, doJSON(t, http.MethodDelete, url, nil).StatusCode)
	assert.Equal(t, http.StatusNoContent, doJSON(t, http.MethodDelete, url, nil).StatusCode)

	_, err = storages.Topics.GetTopic(ctx, target.ID)
	assert.ErrorIs(t, err, store.ErrTopicNotFound)
}

func TestHandler_CategoryStats(t *testing.T) {
	srv, storages := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/stats/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decodeBody[[]models.CategoryStat](t, resp)
	require.NotEmpty(t, stats)

	topics, err := storages.Topics.ListTopics(context.Background(), models.TopicFilter{})
	require.NoError(t, err)

	var total int64
	for _, stat := range stats {
		total += stat.Count
	}
	assert.Equal(t, int64(len(topics)), total)
}
