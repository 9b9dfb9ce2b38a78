// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"fmt"
	"time"
)

// Cache keys for blog reads. The literals are shared with every node that
// talks to the same backend, so they must not change between releases.
const (
	KeyPostsIndex = "BlogPostsIndex"
	KeyCategories = "BlogCategories"
	KeyTags       = "BlogTags"
	KeyArchives   = "BlogArchives"
	KeyPostCount  = "BlogPostCount"
	KeySettings   = "BlogSettings"

	// KeyPost names the TTL entry shared by all per-post keys.
	KeyPost = "BlogPost"
)

// DefaultTTL bounds how long a stale listing may be served after a write
// whose invalidation raced with a concurrent miss.
const DefaultTTL = 10 * time.Minute

// PostKey returns the per-post cache key for a published post.
func PostKey(slug string, year, month, day int) string {
	return fmt.Sprintf("%s_%s_%d_%d_%d", KeyPost, slug, year, month, day)
}

// ListingKeys is the fixed set removed on any post, category or tag write.
func ListingKeys() []string {
	return []string{KeyPostsIndex, KeyCategories, KeyTags, KeyArchives, KeyPostCount}
}

// KeyTable maps a key name to its TTL.
type KeyTable map[string]time.Duration

// DefaultKeyTable gives every known key the same TTL. ttl <= 0 uses
// DefaultTTL.
func DefaultKeyTable(ttl time.Duration) KeyTable {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	t := KeyTable{KeyPost: ttl, KeySettings: ttl}
	for _, k := range ListingKeys() {
		t[k] = ttl
	}
	return t
}

// TTL returns the configured TTL for name, or DefaultTTL.
func (t KeyTable) TTL(name string) time.Duration {
	if d, ok := t[name]; ok && d > 0 {
		return d
	}
	return DefaultTTL
}
