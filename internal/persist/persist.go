// Package persist provides the key-value medium backing the feed cache.
// Every operation is fallible; callers treat read failures as "entry absent"
// and write failures as best-effort.
package persist

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("persist: key not found")

// Store is a flat key-value persistence medium. The feed cache is the sole
// owner of its key namespace.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys lists all stored keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
