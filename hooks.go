package asidecache

// Hooks are lightweight callbacks for high-signal events. Implementations
// MUST be cheap and non-blocking; the cache calls them on hot paths.
// Wrap with hooks/async to move work off the caller.
type Hooks interface {
	// The store failed an operation and the facade degraded to running the
	// loader directly (get path) or dropped the write (set path).
	// op ∈ {"get", "set"}
	StoreDegraded(op, storageKey string, err error)

	// An entry was deleted by the cache on read because it could not be
	// decoded.
	SelfHeal(storageKey, reason string)

	// A dependent aggregate key could not be deleted during a cascade.
	// The rest of the cascade still ran.
	CascadeDeleteFailed(entityKey, dependentKey string, err error)

	// A waiter gave up on an in-flight load.
	GuardTimeout(storageKey string)

	// A warmup task finished.
	WarmupTask(category string, ok bool)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) StoreDegraded(string, string, error)       {}
func (NopHooks) SelfHeal(string, string)                   {}
func (NopHooks) CascadeDeleteFailed(string, string, error) {}
func (NopHooks) GuardTimeout(string)                       {}
func (NopHooks) WarmupTask(string, bool)                   {}
