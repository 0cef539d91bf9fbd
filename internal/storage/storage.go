// Package storage defines the key-value persistence contract used by the task
// store. Each key holds one JSON document.
package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Entry is one key/value pair in a Set batch.
type Entry struct {
	Key   string
	Value []byte
}

// Adapter is a durable key-value store. Set applies all entries atomically.
type Adapter interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, entries ...Entry) error
	Close() error
}

// IsPostgresDSN reports whether dsn selects the PostgreSQL backend.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
