// Package repository stores the persisted dashboard entries as opaque values
// under string keys.
package repository

import (
	"context"
	"strings"
)

// Store is a durable key-value map. Values are opaque bytes; encoding is the
// caller's concern.
type Store interface {
	// Get returns the value under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value under key.
	Put(ctx context.Context, key string, value []byte) error

	// Keys lists the stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)

	// Close releases the backend. Calls after Close fail with ErrClosed.
	Close() error
}

func validKey(key string) bool {
	return strings.TrimSpace(key) != ""
}
