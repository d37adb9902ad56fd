// Package cache provides response caching for the protocol bridge.
//
// Two backends are available: an in-memory LRU cache for single-instance
// deployments and a Redis cache for deployments that share cached
// responses across instances.
//
// # Usage
//
//	store, err := cache.New(&config.CacheConfig{Type: "memory"}, logger)
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	err = store.Set(ctx, key, payload, 5*time.Minute)
//	value, err := store.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from upstream
//	}
//
// Keys for bridged requests are built with KeyForRequest, which folds the
// method, URL, and any configured vary headers into a stable string.
package cache
