// Package bigcache adapts allegro/bigcache v3 to the asidecache store
// boundary. In-process only: useful for tests and single-replica deployments
// where a network round-trip per read is not worth it.
package bigcache

import (
	"context"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/asidecache/internal/keyutil"
	"github.com/unkn0wn-root/asidecache/store"
)

type BigCache struct {
	c *bc.BigCache
}

var _ store.Store = (*BigCache)(nil)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*BigCache, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &BigCache{c: c}, nil
}

func (s *BigCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &store.UnavailableError{Op: "get", Key: key, Err: err}
	}
	return b, true, nil
}

// Set stores the value. BigCache has no per-entry TTL; entries age out with
// the global LifeWindow, which should be chosen at or below the shortest
// namespace policy.
func (s *BigCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if err := s.c.Set(key, value); err != nil {
		return &store.UnavailableError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *BigCache) Del(_ context.Context, key string) error {
	if err := s.c.Delete(key); err != nil && err != bc.ErrEntryNotFound {
		return &store.UnavailableError{Op: "del", Key: key, Err: err}
	}
	return nil
}

func (s *BigCache) DelPattern(_ context.Context, pattern string) (int, error) {
	var matched []string
	it := s.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			continue
		}
		if keyutil.Match(pattern, e.Key()) {
			matched = append(matched, e.Key())
		}
	}

	n := 0
	for _, k := range matched {
		if err := s.c.Delete(k); err == nil {
			n++
		}
	}
	return n, nil
}

func (s *BigCache) Ping(context.Context) error { return nil }

func (s *BigCache) Close(context.Context) error { return s.c.Close() }
