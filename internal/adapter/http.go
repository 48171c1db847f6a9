package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/ebarkhatov/kbkeeper/internal/config"
	"github.com/ebarkhatov/kbkeeper/internal/logger"
	"github.com/ebarkhatov/kbkeeper/models"
)

type httpServerAdapter struct {
	client *resty.Client
	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Health implements [ServerAdapter]. It GETs /api/health and treats any
// answer outside 2xx, or no answer at all, as the service being unavailable.
func (h *httpServerAdapter) Health(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/health")
	if err != nil {
		return transportError("health request", err)
	}

	return mapHTTPError(resp)
}

// Init implements [ServerAdapter]. It POSTs /api/init, which loads the
// service's built-in topics when its store is empty. The call is idempotent
// on the server side.
func (h *httpServerAdapter) Init(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Post("/api/init")
	if err != nil {
		return transportError("init request", err)
	}

	return mapHTTPError(resp)
}

// GetTopics implements [ServerAdapter]. It GETs /api/topics with the filter
// encoded as query parameters and decodes the topic list from the body.
func (h *httpServerAdapter) GetTopics(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error) {
	req := h.client.R().SetContext(ctx)

	if filter.Search != "" {
		req.SetQueryParam("search", filter.Search)
	}
	if filter.Category != "" {
		req.SetQueryParam("category", string(filter.Category))
	}
	if filter.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(filter.Limit))
	}
	if filter.OrderBy != "" {
		req.SetQueryParam("orderBy", filter.OrderBy)
	}
	if filter.Order != "" {
		req.SetQueryParam("order", filter.Order)
	}

	resp, err := req.Get("/api/topics")
	if err != nil {
		return nil, transportError("get topics request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var topics []models.Topic
	if err = json.Unmarshal(resp.Body(), &topics); err != nil {
		return nil, fmt.Errorf("decode topics response: %w", err)
	}

	return topics, nil
}

// GetTopic implements [ServerAdapter]. It GETs /api/topics/{id} and decodes
// the single topic from the body. Returns [ErrNotFound] (wrapped) on 404.
func (h *httpServerAdapter) GetTopic(ctx context.Context, id int64) (models.Topic, error) {
	var topic models.Topic

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&topic).
		Get(fmt.Sprintf("/api/topics/%d", id))
	if err != nil {
		return models.Topic{}, transportError("get topic request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Topic{}, err
	}

	return topic, nil
}

// CreateTopic implements [ServerAdapter]. It POSTs the topic to /api/topics
// and returns the stored record with the server-assigned ID, Date, and
// Preview.
func (h *httpServerAdapter) CreateTopic(ctx context.Context, topic models.Topic) (models.Topic, error) {
	var created models.Topic

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(topic).
		SetResult(&created).
		Post("/api/topics")
	if err != nil {
		return models.Topic{}, transportError("create topic request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Topic{}, err
	}

	return created, nil
}

// UpdateTopic implements [ServerAdapter]. It PUTs the update shape to
// /api/topics/{id}. Returns [ErrNotFound] (wrapped) on 404.
func (h *httpServerAdapter) UpdateTopic(ctx context.Context, id int64, updates models.TopicUpdate) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(updates).
		Put(fmt.Sprintf("/api/topics/%d", id))
	if err != nil {
		return transportError("update topic request", err)
	}

	return mapHTTPError(resp)
}

// DeleteTopic implements [ServerAdapter]. It sends DELETE /api/topics/{id}.
// The server answers 2xx even for a missing id, so deletion is idempotent
// end to end.
func (h *httpServerAdapter) DeleteTopic(ctx context.Context, id int64) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/api/topics/%d", id))
	if err != nil {
		return transportError("delete topic request", err)
	}

	return mapHTTPError(resp)
}

// CategoryStats implements [ServerAdapter]. It GETs /api/stats/categories
// and decodes the per-category counts.
func (h *httpServerAdapter) CategoryStats(ctx context.Context) ([]models.CategoryStat, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/stats/categories")
	if err != nil {
		return nil, transportError("category stats request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var stats []models.CategoryStat
	if err = json.Unmarshal(resp.Body(), &stats); err != nil {
		return nil, fmt.Errorf("decode category stats response: %w", err)
	}

	return stats, nil
}
