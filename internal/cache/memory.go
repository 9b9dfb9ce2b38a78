// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

const (
	memoryCapacity    = 10000
	memoryShards      = 10
	memoryEvictPct    = 10
	memoryMaxEntryTTL = time.Hour
)

// memoryEntry carries its own deadline because sturdyc applies one TTL to
// the whole client while callers pass a TTL per key.
type memoryEntry struct {
	data     []byte
	deadline time.Time
}

// MemoryBackend is an in-process Backend on top of a sharded sturdyc client.
// Used for single-node deployments and tests.
type MemoryBackend struct {
	client *sturdyc.Client[memoryEntry]
	now    func() time.Time
}

// NewMemoryBackend creates an in-process backend. maxTTL bounds how long any
// entry can live regardless of the TTL passed to Set; zero uses one hour.
func NewMemoryBackend(maxTTL time.Duration) *MemoryBackend {
	if maxTTL <= 0 {
		maxTTL = memoryMaxEntryTTL
	}
	return &MemoryBackend{
		client: sturdyc.New[memoryEntry](memoryCapacity, memoryShards, maxTTL, memoryEvictPct),
		now:    time.Now,
	}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := b.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.deadline.IsZero() && !b.now().Before(e.deadline) {
		b.client.Delete(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{data: append([]byte(nil), value...)}
	if ttl > 0 {
		e.deadline = b.now().Add(ttl)
	}
	b.client.Set(key, e)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		b.client.Delete(k)
	}
	return nil
}

// Len reports the number of stored entries, expired ones included until
// they are read or evicted.
func (b *MemoryBackend) Len() int {
	return b.client.Size()
}
