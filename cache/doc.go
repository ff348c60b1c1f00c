// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cache provides the event read cache.

EventStore wraps a pollengine.Store and serves GetEvent from a Cache,
dropping the entry on UpdateEvent:

	engine.Store = cache.NewEventStore(store, cache.NewMemory(), cache.EventTTL)

Two Cache implementations exist. Redis is used when REDIS_URL is set:

	c, err := cache.NewRedis(ctx, "redis://localhost:6379/0")

Memory is the in-process fallback. Both expire entries after the TTL given
to Set. Cache errors are logged and never fail a request.
*/
package cache
