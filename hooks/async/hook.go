// Package asynchook moves hook callbacks off the caller's goroutine.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{SelfHealEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := asidecache.New[Course](asidecache.Options[Course]{
//	    Store: s,
//	    Codec: codec.JSON[Course]{},
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/asidecache"
)

type Hooks struct {
	inner asidecache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ asidecache.Hooks = (*Hooks)(nil)

func New(inner asidecache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) StoreDegraded(op, k string, err error) {
	h.try(func() { h.inner.StoreDegraded(op, k, err) })
}
func (h *Hooks) SelfHeal(k, reason string) { h.try(func() { h.inner.SelfHeal(k, reason) }) }
func (h *Hooks) CascadeDeleteFailed(ek, dk string, err error) {
	h.try(func() { h.inner.CascadeDeleteFailed(ek, dk, err) })
}
func (h *Hooks) GuardTimeout(k string) { h.try(func() { h.inner.GuardTimeout(k) }) }
func (h *Hooks) WarmupTask(category string, ok bool) {
	h.try(func() { h.inner.WarmupTask(category, ok) })
}
