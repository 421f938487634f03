// Package store defines the byte-store boundary used by asidecache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key (no
// prepended/appended metadata, no re-encoding, no mutation). They must be
// safe for concurrent use and must bound every operation: a backend that is
// down returns an *UnavailableError instead of blocking indefinitely.
package store

import (
	"context"
	"fmt"
	"time"
)

// Store is a minimal byte store with TTLs and namespace-pattern deletes.
// It performs no business logic; it is the only component that talks to the
// network, so the backend technology is swappable without touching callers.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. ttl <= 0 means "no expiry".
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes a key (best-effort; deleting a missing key is not an error).
	Del(ctx context.Context, key string) error

	// DelPattern removes every key matching a trailing-wildcard pattern
	// ("ns:*") and returns how many were removed.
	DelPattern(ctx context.Context, pattern string) (int, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// UnavailableError wraps a backend failure (timeout, connection refused,
// server error). The facade treats any of these as "store down" and degrades
// to direct loader execution; it is never surfaced from GetOrSet.
type UnavailableError struct {
	Op  string
	Key string
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
