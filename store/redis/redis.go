// Package redis implements the asidecache store boundary on top of
// redis/go-redis v9. This is the canonical remote backend: a single Redis (or
// cluster) shared by every process, so entries written by one replica are
// visible to all.
package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/asidecache/store"
)

var ErrNilClient = errors.New("redis store: nil client")

const defaultOpTimeout = 3 * time.Second

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
	opTimeout   time.Duration
	scanCount   int64
}

var _ store.Store = (*Redis)(nil)

// Config wraps an existing client. Use Connect when the process owns the
// connection and only has an address/credentials descriptor.
type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool          // set true only if this store exclusively owns the client
	OpTimeout   time.Duration // per-operation bound; 0 => 3s, negative => unbounded
	ScanCount   int64         // SCAN page size for DelPattern; 0 => 100
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	s := &Redis{
		rdb:         cfg.Client,
		closeClient: cfg.CloseClient,
		opTimeout:   cfg.OpTimeout,
		scanCount:   cfg.ScanCount,
	}
	if s.opTimeout == 0 {
		s.opTimeout = defaultOpTimeout
	}
	if s.scanCount <= 0 {
		s.scanCount = 100
	}
	return s, nil
}

// ConnConfig is the connection descriptor supplied at process start.
type ConnConfig struct {
	Addr     string
	Username string // Redis 6.0+ ACLs; empty for legacy auth
	Password string
	DB       int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	TLS          bool

	OpTimeout time.Duration // see Config.OpTimeout
}

// Connect dials Redis from a descriptor, verifies the connection with a ping
// and returns a store that owns the client.
func Connect(ctx context.Context, cfg ConnConfig) (*Redis, error) {
	opts := &goredis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := goredis.NewClient(opts)
	s, err := New(Config{Client: client, CloseClient: true, OpTimeout: cfg.OpTimeout})
	if err != nil {
		return nil, err
	}
	if err := s.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return s, nil
}

func (s *Redis) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, &store.UnavailableError{Op: "get", Key: key, Err: err}
	}
	return b, true, nil
}

func (s *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if ttl <= 0 {
		ttl = 0 // Redis: 0 => no expiry
	}
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return &store.UnavailableError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *Redis) Del(ctx context.Context, key string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return &store.UnavailableError{Op: "del", Key: key, Err: err}
	}
	return nil
}

// DelPattern walks the keyspace with SCAN (does not block the server the way
// KEYS would) and deletes each page of matches.
func (s *Redis) DelPattern(ctx context.Context, pattern string) (int, error) {
	deleted := 0
	var cursor uint64
	for {
		keys, next, err := s.scanPage(ctx, cursor, pattern)
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := s.delPage(ctx, keys)
			deleted += n
			if err != nil {
				return deleted, err
			}
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (s *Redis) scanPage(ctx context.Context, cursor uint64, pattern string) ([]string, uint64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	keys, next, err := s.rdb.Scan(ctx, cursor, pattern, s.scanCount).Result()
	if err != nil {
		return nil, 0, &store.UnavailableError{Op: "scan", Key: pattern, Err: err}
	}
	return keys, next, nil
}

func (s *Redis) delPage(ctx context.Context, keys []string) (int, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	n, err := s.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return int(n), &store.UnavailableError{Op: "del", Err: err}
	}
	return int(n), nil
}

func (s *Redis) Ping(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return &store.UnavailableError{Op: "ping", Err: err}
	}
	return nil
}

// Close releases the underlying client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Redis) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
