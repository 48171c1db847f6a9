package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebarkhatov/kbkeeper/internal/config"
	"github.com/ebarkhatov/kbkeeper/internal/logger"
	"github.com/ebarkhatov/kbkeeper/models"
)

func newTestAdapter(t *testing.T, handler http.Handler) ServerAdapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := NewHTTPServerAdapter(config.ClientAdapter{
		HTTPAddress:    srv.URL,
		RequestTimeout: 2 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)

	return a
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "full url", raw: "http://localhost:3001", want: "http://localhost:3001"},
		{name: "trailing slash trimmed", raw: "http://localhost:3001/", want: "http://localhost:3001"},
		{name: "scheme added", raw: "localhost:3001", want: "http://localhost:3001"},
		{name: "https kept", raw: "https://kb.example.com", want: "https://kb.example.com"},
		{name: "surrounding spaces", raw: "  http://localhost:3001  ", want: "http://localhost:3001"},
		{name: "empty", raw: "", wantErr: true},
		{name: "scheme only", raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHTTPServerAdapter_RejectsEmptyAddress(t *testing.T) {
	_, err := NewHTTPServerAdapter(config.ClientAdapter{}, logger.Nop())
	assert.Error(t, err)
}

func TestHTTPServerAdapter_Health(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"ok":true}`))
	}))

	assert.NoError(t, a.Health(context.Background()))
}

func TestHTTPServerAdapter_HealthServerError(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	err := a.Health(context.Background())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestHTTPServerAdapter_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	a, err := NewHTTPServerAdapter(config.ClientAdapter{
		HTTPAddress:    url,
		RequestTimeout: 200 * time.Millisecond,
	}, logger.Nop())
	require.NoError(t, err)

	assert.ErrorIs(t, a.Health(context.Background()), ErrRemoteUnavailable)

	_, err = a.GetTopics(context.Background(), models.TopicFilter{})
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestHTTPServerAdapter_GetTopicsPassesFilter(t *testing.T) {
	want := []models.Topic{{ID: 1, Title: "T"}}

	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/topics", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "valve", q.Get("search"))
		assert.Equal(t, "Errors", q.Get("category"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "views", q.Get("orderBy"))
		assert.Equal(t, "desc", q.Get("order"))

		json.NewEncoder(w).Encode(want)
	}))

	got, err := a.GetTopics(context.Background(), models.TopicFilter{
		Search:   "valve",
		Category: models.CategoryErrors,
		Limit:    10,
		OrderBy:  "views",
		Order:    "desc",
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHTTPServerAdapter_GetTopicsOmitsEmptyParams(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`[]`))
	}))

	topics, err := a.GetTopics(context.Background(), models.TopicFilter{})
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestHTTPServerAdapter_GetTopicsMalformedBody(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))

	_, err := a.GetTopics(context.Background(), models.TopicFilter{})
	assert.Error(t, err)
}

func TestHTTPServerAdapter_GetTopic(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/topics/42", r.URL.Path)
		json.NewEncoder(w).Encode(models.Topic{ID: 42, Title: "Found"})
	}))

	topic, err := a.GetTopic(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Found", topic.Title)
}

func TestHTTPServerAdapter_GetTopicNotFound(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic not found", http.StatusNotFound)
	}))

	_, err := a.GetTopic(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrRemoteUnavailable)
}

func TestHTTPServerAdapter_CreateTopic(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/topics", r.URL.Path)

		var received models.Topic
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.Equal(t, "New", received.Title)

		received.ID = 7
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(received)
	}))

	created, err := a.CreateTopic(context.Background(), models.Topic{Title: "New", Category: models.CategoryDosing})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
}

func TestHTTPServerAdapter_CreateTopicRejected(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown category", http.StatusBadRequest)
	}))

	_, err := a.CreateTopic(context.Background(), models.Topic{})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestHTTPServerAdapter_UpdateTopic(t *testing.T) {
	title := "Renamed"

	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/topics/5", r.URL.Path)

		var updates models.TopicUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&updates))
		require.NotNil(t, updates.Title)
		assert.Equal(t, "Renamed", *updates.Title)

		w.WriteHeader(http.StatusNoContent)
	}))

	err := a.UpdateTopic(context.Background(), 5, models.TopicUpdate{Title: &title})
	assert.NoError(t, err)
}

func TestHTTPServerAdapter_DeleteTopic(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/topics/5", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, a.DeleteTopic(context.Background(), 5))
}

func TestHTTPServerAdapter_CategoryStats(t *testing.T) {
	want := []models.CategoryStat{
		{Category: models.CategoryErrors, Count: 3},
		{Category: models.CategoryMachines, Count: 1},
	}

	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats/categories", r.URL.Path)
		json.NewEncoder(w).Encode(want)
	}))

	got, err := a.CategoryStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHTTPServerAdapter_Init(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/init", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, a.Init(context.Background()))
}
