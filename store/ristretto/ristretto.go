// Package ristretto adapts dgraph-io/ristretto to the asidecache store
// boundary. In-process only. Ristretto cannot enumerate its contents, so the
// store keeps its own index of live keys to serve pattern deletes; the index
// is advisory (an entry evicted by ristretto just becomes a miss).
package ristretto

import (
	"context"
	"errors"
	"sync"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/asidecache/internal/keyutil"
	"github.com/unkn0wn-root/asidecache/store"
)

type Ristretto struct {
	c *rc.Cache

	mu   sync.RWMutex
	keys map[string]struct{}
}

var _ store.Store = (*Ristretto)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // budget in bytes; entries are charged their payload length
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Ristretto, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto store: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Ristretto{c: c, keys: make(map[string]struct{})}, nil
}

func (s *Ristretto) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		// the entry may have expired or been evicted underneath the index
		s.forget(key)
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// unexpected entry shape; drop it
		s.c.Del(key)
		s.forget(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Ristretto) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	cost := int64(len(value))
	if cost == 0 {
		cost = 1
	}
	var admitted bool
	if ttl > 0 {
		admitted = s.c.SetWithTTL(key, value, cost, ttl)
	} else {
		admitted = s.c.Set(key, value, cost)
	}
	if admitted {
		s.remember(key)
	}
	// rejection under cost pressure is not an error; the entry is just absent
	return nil
}

func (s *Ristretto) Del(_ context.Context, key string) error {
	s.c.Del(key)
	s.forget(key)
	return nil
}

func (s *Ristretto) DelPattern(_ context.Context, pattern string) (int, error) {
	s.mu.RLock()
	matched := make([]string, 0, len(s.keys))
	for k := range s.keys {
		if keyutil.Match(pattern, k) {
			matched = append(matched, k)
		}
	}
	s.mu.RUnlock()

	n := 0
	for _, k := range matched {
		if _, ok := s.c.Get(k); !ok {
			// dead index entry (expired/evicted); prune, don't count
			s.forget(k)
			continue
		}
		s.c.Del(k)
		s.forget(k)
		n++
	}
	return n, nil
}

func (s *Ristretto) Ping(context.Context) error { return nil }

func (s *Ristretto) Close(context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Wait blocks until buffered Sets have been applied. Ristretto admits
// entries asynchronously; call this when read-your-write visibility matters
// (tests, warmup verification). Not part of the store boundary.
func (s *Ristretto) Wait() { s.c.Wait() }

// Metrics exposes ristretto's own counters for applications that want them.
// Not part of the store boundary.
func (s *Ristretto) Metrics() *rc.Metrics { return s.c.Metrics }

func (s *Ristretto) remember(key string) {
	s.mu.Lock()
	s.keys[key] = struct{}{}
	s.mu.Unlock()
}

func (s *Ristretto) forget(key string) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
}
