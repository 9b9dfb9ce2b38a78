// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Aside is a cache-aside wrapper over a Backend. Values are stored as JSON.
// Backend failures are logged and swallowed: a broken cache degrades to
// computing every read, never to failing it.
type Aside struct {
	backend Backend
	keys    KeyTable
	group   *singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
	errs   atomic.Int64
}

// Option configures an Aside.
type Option func(*Aside)

// WithSingleflight deduplicates concurrent computes of the same key within
// this process. Without it two simultaneous misses both run compute and both
// write the cache, last write wins.
func WithSingleflight() Option {
	return func(a *Aside) { a.group = new(singleflight.Group) }
}

// WithKeyTable overrides the per-key TTLs.
func WithKeyTable(t KeyTable) Option {
	return func(a *Aside) { a.keys = t }
}

// NewAside wraps backend.
func NewAside(backend Backend, opts ...Option) *Aside {
	a := &Aside{backend: backend, keys: DefaultKeyTable(0)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TTL returns the TTL configured for a key name.
func (a *Aside) TTL(name string) time.Duration {
	if a == nil {
		return DefaultTTL
	}
	return a.keys.TTL(name)
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Errors int64 `json:"errors"`
}

// Stats returns the hit, miss and backend error counters since start.
func (a *Aside) Stats() Stats {
	return Stats{Hits: a.hits.Load(), Misses: a.misses.Load(), Errors: a.errs.Load()}
}

// GetOrCompute returns the cached value for key, or runs compute, stores its
// result for ttl and returns it. Errors from compute are returned and nothing
// is cached. A nil Aside always computes.
func GetOrCompute[T any](ctx context.Context, a *Aside, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	if a == nil {
		return compute(ctx)
	}

	if v, ok := lookup[T](ctx, a, key); ok {
		return v, nil
	}
	a.misses.Add(1)
	slog.Debug("cache miss", "key", key)

	if a.group == nil {
		return computeAndStore(ctx, a, key, ttl, compute)
	}

	v, err, shared := a.group.Do(key, func() (any, error) {
		return computeAndStore(ctx, a, key, ttl, compute)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		slog.Debug("cache compute shared", "key", key)
	}
	val, _ := v.(T)
	return val, nil
}

func lookup[T any](ctx context.Context, a *Aside, key string) (T, bool) {
	var v T
	data, ok, err := a.backend.Get(ctx, key)
	if err != nil {
		a.errs.Add(1)
		slog.Warn("cache get error", "key", key, "error", err)
		return v, false
	}
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		a.errs.Add(1)
		slog.Warn("cache decode error", "key", key, "error", err)
		return v, false
	}
	a.hits.Add(1)
	slog.Debug("cache hit", "key", key)
	return v, true
}

func computeAndStore[T any](ctx context.Context, a *Aside, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	v, err := compute(ctx)
	if err != nil {
		return v, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		a.errs.Add(1)
		slog.Warn("cache encode error", "key", key, "error", err)
		return v, nil
	}
	if err := a.backend.Set(ctx, key, data, ttl); err != nil {
		a.errs.Add(1)
		slog.Warn("cache set error", "key", key, "error", err)
	}
	return v, nil
}

// Invalidate removes keys. Failures are logged; the write that triggered the
// invalidation has already committed, and the TTL bounds any staleness.
func (a *Aside) Invalidate(ctx context.Context, keys ...string) {
	if a == nil || len(keys) == 0 {
		return
	}
	if err := a.backend.Delete(ctx, keys...); err != nil {
		a.errs.Add(1)
		slog.Warn("cache invalidate error", "keys", keys, "error", err)
		return
	}
	slog.Debug("cache invalidated", "keys", keys)
}

// Flush drops every entry the backend owns, or the fixed listing keys when
// the backend cannot enumerate its entries.
func (a *Aside) Flush(ctx context.Context) {
	if a == nil {
		return
	}
	c, ok := a.backend.(Clearer)
	if !ok {
		a.Invalidate(ctx, ListingKeys()...)
		return
	}
	n, err := c.Clear(ctx)
	if err != nil {
		a.errs.Add(1)
		slog.Warn("cache flush error", "error", err)
		return
	}
	slog.Info("cache flushed", "deleted", n)
}
