package asidecache

import (
	"context"
	"time"
)

// WarmupTask describes one curated load to run at process start, before the
// service accepts external traffic. Consumed once by Warmup and discarded.
type WarmupTask[V any] struct {
	// Category names the task in the returned status map.
	Category string
	// Key the loaded value is cached under; a normal key, normal TTL.
	Key Key
	// TTL for the entry; 0 resolves via the policy table.
	TTL time.Duration
	// Load computes the value.
	Load Loader[V]
}

// Warmup executes each task through GetOrSet so results land in the cache
// under their normal keys and TTLs. Every task is wrapped individually:
// a failure (or panic) in one is recorded as false for that category and
// subsequent tasks still run. Warmup never returns an error - the map always
// has one entry per input task.
func (cc *cache[V]) Warmup(ctx context.Context, tasks []WarmupTask[V]) map[string]bool {
	out := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		ok := cc.warmOne(ctx, t)
		out[t.Category] = ok
		cc.hooks.WarmupTask(t.Category, ok)
	}
	return out
}

func (cc *cache[V]) warmOne(ctx context.Context, t WarmupTask[V]) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			cc.log.Error("warmup task panicked", Fields{"category": t.Category, "panic": r})
			ok = false
		}
	}()

	if t.Category == "" || t.Load == nil || t.Key.IsZero() {
		cc.log.Warn("warmup task misconfigured", Fields{"category": t.Category})
		return false
	}
	if _, err := cc.GetOrSet(ctx, t.Key, t.Load, t.TTL); err != nil {
		cc.log.Warn("warmup task failed", Fields{"category": t.Category, "key": t.Key.String(), "err": err})
		return false
	}
	return true
}
