package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/asidecache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	DegradedEvery uint64
	SelfHealEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	degradedCtr atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ asidecache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) StoreDegraded(op, storageKey string, err error) {
	if h.l == nil || !sample(h.opts.DegradedEvery, &h.degradedCtr) {
		return
	}
	h.l.Warn("asidecache.store_degraded",
		"op", op,
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("asidecache.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) CascadeDeleteFailed(entityKey, dependentKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("asidecache.cascade_delete_failed",
		"entity", h.redact(entityKey),
		"dependent", h.redact(dependentKey),
		"err", err)
}

func (h *Hooks) GuardTimeout(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("asidecache.guard_timeout",
		"key", h.redact(storageKey))
}

func (h *Hooks) WarmupTask(category string, ok bool) {
	if h.l == nil {
		return
	}
	if ok {
		h.l.Info("asidecache.warmup_task", "category", category, "ok", true)
		return
	}
	h.l.Warn("asidecache.warmup_task", "category", category, "ok", false)
}
