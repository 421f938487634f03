package asidecache

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidKey is wrapped by every *KeyError so callers can errors.Is
// without caring about the offending segment.
var ErrInvalidKey = errors.New("asidecache: invalid key")

// KeyError reports malformed key construction. This is a caller bug and
// fails fast; nothing reaches the store.
type KeyError struct {
	Segment string
	Reason  string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("asidecache: invalid key segment %q: %s", e.Segment, e.Reason)
}

func (e *KeyError) Unwrap() error { return ErrInvalidKey }

// SerializationError wraps a codec failure. On the decode path the facade
// absorbs it (self-heal + treat as miss); on the encode path it surfaces to
// the caller and nothing is cached.
type SerializationError struct {
	Key string
	Op  string // "encode" or "decode"
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("asidecache: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// GuardTimeoutError is returned to a waiter that gave up on an in-flight
// load. It affects that waiter only; the owner and other waiters are
// untouched and the eventual result still lands in the store.
type GuardTimeoutError struct {
	Key  string
	Wait time.Duration
}

func (e *GuardTimeoutError) Error() string {
	return fmt.Sprintf("asidecache: timed out after %s waiting for in-flight load of %q", e.Wait, e.Key)
}
