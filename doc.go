// Package asidecache implements a cache-aside layer between application code
// and a slow data source, backed by a swappable byte store (Redis, BigCache,
// Ristretto). One public read path - GetOrSet - composes miss handling,
// stampede prevention, per-namespace TTL policy, and write-back.
//
// Components:
//   - Key: validated namespace:identifier[:qualifier] keys; namespace
//     patterns ("ns:*") drive bulk invalidation.
//   - codec.Codec[V]: (de)serializes V <-> []byte (JSON, msgpack, CBOR,
//     protobuf).
//   - store.Store: byte store with TTL, pattern delete and ping; the only
//     component that touches the network.
//   - stampede guard: at most one loader execution per key per process;
//     concurrent callers share the outcome.
//   - dependency table: entity namespace -> aggregate keys, consulted so an
//     entity write also drops the list/count views embedding it.
//
// Failure policy: the cache is invisible on the error path. Store outages
// degrade to direct loader execution, corrupt entries are deleted and
// reloaded, and a caller of GetOrSet sees either a valid value or exactly
// the error its own loader produced.
//
// Typical wiring:
//
//	s, _ := redisstore.Connect(ctx, redisstore.ConnConfig{Addr: "localhost:6379"})
//	cache, _ := asidecache.New[Course](asidecache.Options[Course]{
//	    Store:  s,
//	    Codec:  codec.Msgpack[Course]{},
//	    Policy: asidecache.NewPolicy(10*time.Minute, map[string]time.Duration{
//	        "course": time.Hour,
//	        "price":  30 * time.Second,
//	    }),
//	    Dependencies: map[string][]asidecache.Key{
//	        "course": {asidecache.MustKey("course", "list", "all")},
//	    },
//	})
//
//	v, err := cache.GetOrSet(ctx, asidecache.MustKey("course", "123"), loadCourse, 0)
package asidecache
