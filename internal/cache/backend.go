// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache provides the cache-aside layer used by the content service
// and the key/value backends it runs on (Valkey or in-process).
package cache

import (
	"context"
	"time"
)

// Backend is a byte-oriented key/value store with per-entry TTL. It is shared
// and externally synchronized; callers hold no locks around it.
type Backend interface {
	// Get returns (nil, false, nil) when key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
