package repository

import "errors"

// ErrTopicNotFound is returned when the requested topic does not exist in
// the active data source. Both the remote 404 and the local cache miss map
// to it.
var ErrTopicNotFound = errors.New("topic not found")
