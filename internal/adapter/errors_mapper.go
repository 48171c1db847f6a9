package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// mapHTTPError converts a resty response into the adapter error taxonomy.
// 2xx answers map to nil. 404 and payload-level 4xx answers are definitive
// and keep their own sentinels; everything else (5xx and unexpected codes)
// counts as the service being unavailable.
func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}

	switch {
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case code >= http.StatusBadRequest && code < http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrBadRequest, code, body)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrRemoteUnavailable, code, body)
	}
}

// transportError wraps a request-level failure (no response received) into
// the unavailable class.
func transportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRemoteUnavailable, op, err)
}
