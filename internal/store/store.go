// Package store wraps the networked key-value backend behind a small
// typed contract. Connectivity failures are caught here and surfaced as
// ErrUnavailable plus a logged diagnostic; they never crash the process.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist (or has expired).
var ErrNotFound = errors.New("store: key not found")

// ErrUnavailable is returned when the backend cannot be reached.
var ErrUnavailable = errors.New("store: backend unavailable")

// KV is the storage contract used by the registries. Values are opaque
// serialized records; list operations back the global task index.
type KV interface {
	// Set stores value under key with the given time-to-live.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// PushFront prepends value to the list stored under key.
	PushFront(ctx context.Context, key, value string) error

	// Range returns list elements between start and stop inclusive;
	// stop = -1 means the end of the list.
	Range(ctx context.Context, key string, start, stop int64) ([]string, error)

	// RemoveValue removes all occurrences of value from the list.
	RemoveValue(ctx context.Context, key, value string) error
}
