package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured indicates the backend was not initialised.
	ErrNotConfigured = errors.New("kv: store not configured")
)

// Store abstracts a flat key-value namespace with change notifications.
// Values are opaque byte payloads; callers layer their own encoding on top.
type Store interface {
	// Get returns the value for key, a flag reporting whether it exists,
	// and any backend error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Watch delivers the names of keys written by any writer until ctx
	// is cancelled. The channel is closed on cancellation.
	Watch(ctx context.Context) (<-chan string, error)
	// Close releases backend resources.
	Close()
}
