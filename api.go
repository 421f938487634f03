package asidecache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/asidecache/codec"
	st "github.com/unkn0wn-root/asidecache/store"
)

// DefaultTTL is used when neither the call site nor the policy table names
// a duration.
const DefaultTTL = 10 * time.Minute

// DefaultGuardWait bounds how long a waiter blocks on another caller's
// in-flight load before giving up with a GuardTimeoutError.
const DefaultGuardWait = 30 * time.Second

// Loader computes a value on a cache miss. It is supplied by the caller and
// may hit a database or any other slow source; its errors propagate to every
// caller of the same miss verbatim and are never cached.
type Loader[V any] func(ctx context.Context) (V, error)

// Cache is the cache-aside facade. V is the caller's value type;
// serialization is handled by a pluggable codec.Codec[V].
//
// Construct once at startup and pass by reference; the stampede guard is
// per-instance, so every caller must share the same Cache to get
// deduplicated loads.
type Cache[V any] interface {
	// GetOrSet is the primary read path: check the store, decode on hit;
	// on miss run load under the stampede guard (at most one execution per
	// key per process), store the result with the given TTL, and return it
	// to every concurrent caller. ttl <= 0 resolves via the policy table.
	//
	// Store failures degrade to direct loader execution and are not
	// surfaced; loader failures are returned unchanged.
	GetOrSet(ctx context.Context, key Key, load Loader[V], ttl time.Duration) (V, error)

	// InvalidateEntity deletes namespace:id and every dependent aggregate
	// key registered for the namespace. Every deletion is best-effort and
	// independent - the cascade runs even when the entity's own delete
	// fails; only that failure is returned, after the cascade completes.
	InvalidateEntity(ctx context.Context, namespace, id string) error

	// InvalidateNamespace removes every key in the namespace via a pattern
	// delete, regardless of dependency registration. For bulk writes where
	// per-entity cascading would be too slow or incomplete.
	InvalidateNamespace(ctx context.Context, namespace string) (int, error)

	// Warmup runs each task's loader through GetOrSet so results land under
	// normal keys and TTLs. Tasks are isolated: one entry per task in the
	// returned map, failures recorded as false, never an error or panic.
	Warmup(ctx context.Context, tasks []WarmupTask[V]) map[string]bool

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	Enabled() bool
	Close(ctx context.Context) error
}

// Options tune the facade. Only Store and Codec are required; others have
// sensible defaults.
type Options[V any] struct {
	// Required
	Store st.Store
	Codec c.Codec[V]

	// Policy resolves per-namespace TTLs for calls that pass ttl <= 0.
	// nil => flat DefaultTTL.
	Policy *Policy

	// Dependencies maps an entity namespace to the aggregate/list keys that
	// embed its entities, consulted by InvalidateEntity. Declared once at
	// configuration time; adding a new aggregate view without registering
	// it here is a visible configuration gap, not a silent staleness bug.
	Dependencies map[string][]Key

	Logger    Logger        // nil => NopLogger
	Hooks     Hooks         // nil => NopHooks
	GuardWait time.Duration // waiter bound; 0 => 30s, negative => unbounded
	Disabled  bool          // true => every GetOrSet just runs the loader
}

// New builds a Cache. The returned value is safe for concurrent use.
func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
