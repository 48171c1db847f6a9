package adapter

import "errors"

var (
	// ErrRemoteUnavailable classifies every failure that makes the remote
	// service unusable: connection refused, timeout, DNS failure, or a
	// server-side 5xx answer. The topic repository downgrades to the local
	// cache when it sees this class.
	ErrRemoteUnavailable = errors.New("remote service unavailable")

	// ErrNotFound reports a remote 404 for a specific resource. It is a
	// definitive answer from a healthy service, not an availability failure.
	ErrNotFound = errors.New("not found on remote")

	// ErrBadRequest reports a remote 4xx rejection of the request payload.
	ErrBadRequest = errors.New("remote rejected request")
)
