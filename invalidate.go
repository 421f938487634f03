package asidecache

import "context"

// InvalidateEntity deletes namespace:id and then every dependent aggregate
// key registered for the namespace (typically list/count views embedding the
// entity). Call after any write to a single entity.
//
// All deletions in one call are best-effort and independent: a failing
// delete - the entity's own included - is logged (dependents also reported
// through hooks) and the rest of the cascade still runs. Only a failure
// deleting the entity's own key is returned, after the cascade completes.
func (cc *cache[V]) InvalidateEntity(ctx context.Context, namespace, id string) error {
	key, err := NewKey(namespace, id)
	if err != nil {
		return err
	}
	if !cc.enabled {
		return nil
	}

	k := key.String()

	// Detach in-flight loads so callers arriving after this point start a
	// fresh load instead of adopting a pre-invalidation result.
	cc.flight.forget(k)

	entityErr := cc.store.Del(ctx, k)
	if entityErr != nil {
		cc.log.Warn("entity delete failed", Fields{"key": k, "err": entityErr})
	}

	for _, dep := range cc.deps[key.Namespace()] {
		dk := dep.String()
		cc.flight.forget(dk)
		if derr := cc.store.Del(ctx, dk); derr != nil {
			cc.hooks.CascadeDeleteFailed(k, dk, derr)
			cc.log.Warn("cascade delete failed", Fields{"entity": k, "dependent": dk, "err": derr})
		}
	}

	if entityErr != nil {
		return entityErr
	}
	cc.log.Debug("invalidated entity", Fields{"key": k, "dependents": len(cc.deps[key.Namespace()])})
	return nil
}

// InvalidateNamespace removes every key in the namespace with a pattern
// delete, regardless of individual dependency registration. Call after bulk
// writes (batch imports, global price changes) where per-entity cascading
// would be too slow or incomplete. Returns how many keys were removed.
func (cc *cache[V]) InvalidateNamespace(ctx context.Context, namespace string) (int, error) {
	pattern, err := Pattern(namespace)
	if err != nil {
		return 0, err
	}
	if !cc.enabled {
		return 0, nil
	}

	n, err := cc.store.DelPattern(ctx, pattern)
	if err != nil {
		return n, err
	}
	cc.log.Debug("invalidated namespace", Fields{"pattern": pattern, "deleted": n})
	return n, nil
}
