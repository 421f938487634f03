package asidecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/asidecache/codec"
	st "github.com/unkn0wn-root/asidecache/store"
)

type cache[V any] struct {
	store  st.Store
	codec  c.Codec[V]
	policy *Policy
	deps   map[string][]Key

	log   Logger
	hooks Hooks

	guardWait time.Duration
	enabled   bool

	flight flightGuard
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("asidecache: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("asidecache: codec is required")
	}

	deps, err := copyDeps(opts.Dependencies)
	if err != nil {
		return nil, err
	}

	cc := &cache[V]{
		store:   opts.Store,
		codec:   opts.Codec,
		policy:  opts.Policy,
		deps:    deps,
		enabled: !opts.Disabled,
	}

	// defaults
	cc.log = coalesce[Logger](opts.Logger, NopLogger{})
	cc.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	cc.guardWait = coalesce[time.Duration](opts.GuardWait, DefaultGuardWait)

	return cc, nil
}

// copyDeps validates and deep-copies the dependency table so the edges stay
// immutable for the process lifetime.
func copyDeps(in map[string][]Key) (map[string][]Key, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string][]Key, len(in))
	for ns, dependents := range in {
		if err := checkSegment("namespace", ns); err != nil {
			return nil, err
		}
		edges := make([]Key, 0, len(dependents))
		for _, d := range dependents {
			if d.IsZero() {
				return nil, &KeyError{Segment: ns, Reason: "zero dependent key"}
			}
			edges = append(edges, d)
		}
		out[normNS(ns)] = edges
	}
	return out, nil
}

func (cc *cache[V]) Enabled() bool { return cc.enabled }

func (cc *cache[V]) Ping(ctx context.Context) error { return cc.store.Ping(ctx) }

func (cc *cache[V]) Close(ctx context.Context) error { return cc.store.Close(ctx) }

// GetOrSet per key per call:
//
//	check store -> hit: decode, return
//	           -> miss: acquire guard -> owner: load, encode, set, release
//	                                  -> waiter: await owner's outcome
//
// A store failure on the initial get degrades to running the loader (still
// deduplicated) without the follow-up set. A decode failure deletes the
// corrupt entry and falls through to the miss path.
func (cc *cache[V]) GetOrSet(ctx context.Context, key Key, load Loader[V], ttl time.Duration) (V, error) {
	var zero V
	if load == nil {
		return zero, fmt.Errorf("asidecache: nil loader for %q", key.String())
	}
	if key.IsZero() {
		return zero, &KeyError{Segment: "", Reason: "zero key; use NewKey"}
	}
	if !cc.enabled {
		return load(ctx)
	}

	k := key.String()

	storeDown := false
	raw, ok, err := cc.store.Get(ctx, k)
	switch {
	case err != nil:
		// transient degradation: behave as a miss, skip the write-back
		storeDown = true
		cc.hooks.StoreDegraded("get", k, err)
		cc.log.Warn("store get failed; bypassing cache", Fields{"key": k, "err": err})
	case ok:
		v, derr := cc.codec.Decode(raw)
		if derr == nil {
			return v, nil
		}
		// corrupt entry must not be trusted; self-heal and reload
		_ = cc.store.Del(ctx, k)
		cc.hooks.SelfHeal(k, "decode")
		cc.log.Warn("corrupt entry dropped", Fields{"key": k, "err": derr})
	}

	// The load must outlive any single caller: waiters subscribed to this
	// key still want the result after the owner's ctx is cancelled.
	loadCtx := context.WithoutCancel(ctx)

	res, err := cc.flight.do(ctx, k, cc.guardWait, func() (out any, ferr error) {
		// Contain loader panics here: the flight fn runs on a goroutine no
		// caller owns, so an escaping panic would take the process down
		// instead of reaching anyone's recover.
		defer func() {
			if r := recover(); r != nil {
				ferr = fmt.Errorf("asidecache: loader panic for %q: %v", k, r)
			}
		}()
		v, lerr := cc.loadAndStore(loadCtx, key, load, ttl, storeDown)
		if lerr != nil {
			return nil, lerr
		}
		return v, nil
	})
	if err != nil {
		var gt *GuardTimeoutError
		if errors.As(err, &gt) {
			cc.hooks.GuardTimeout(k)
		}
		return zero, err
	}
	return res.(V), nil
}

// loadAndStore runs on the owner's goroutine, exactly once per miss episode.
func (cc *cache[V]) loadAndStore(ctx context.Context, key Key, load Loader[V], ttl time.Duration, skipSet bool) (V, error) {
	v, err := load(ctx)
	if err != nil {
		// business failure: propagate verbatim, cache nothing
		return v, err
	}
	if skipSet {
		// store was down when we checked; don't hammer it with a write
		return v, nil
	}

	k := key.String()
	payload, err := cc.codec.Encode(v)
	if err != nil {
		// non-encodable value is a caller bug; surface it, never cache it
		var zero V
		return zero, &SerializationError{Key: k, Op: "encode", Err: err}
	}

	if ttl <= 0 {
		ttl = cc.policy.TTLFor(key.Namespace())
	}
	if serr := cc.store.Set(ctx, k, payload, ttl); serr != nil {
		// best-effort: the value is still good, next read just misses again
		cc.hooks.StoreDegraded("set", k, serr)
		cc.log.Warn("store set failed; returning uncached value", Fields{"key": k, "err": serr})
	}
	return v, nil
}
