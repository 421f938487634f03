package asidecache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// flightGuard coordinates concurrent misses for the same key. The first
// caller to reach it becomes the owner and runs the load; everyone else
// subscribes to the owner's outcome (value or error, verbatim). The per-key
// entry is removed when the load settles on every path, success or failure,
// so a failed load never wedges the key - the next miss simply retries.
//
// The load runs in its own goroutine, so a caller abandoning the wait (ctx
// cancelled, guard timeout) does not cancel the load and cannot starve the
// remaining waiters.
type flightGuard struct {
	g singleflight.Group
}

func (f *flightGuard) do(ctx context.Context, key string, wait time.Duration, fn func() (any, error)) (any, error) {
	ch := f.g.DoChan(key, fn)

	var timeout <-chan time.Time
	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-timeout:
		return nil, &GuardTimeoutError{Key: key, Wait: wait}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// forget detaches future callers from an in-flight load so the next miss
// starts fresh. Used on invalidation; callers already waiting still receive
// the old outcome.
func (f *flightGuard) forget(key string) { f.g.Forget(key) }
