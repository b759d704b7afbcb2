// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go caches encoded public API responses in Valkey. Any content write
// clears the whole cache, since a single post edit can change the post
// list, the post itself and the category counts.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached responses.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a response stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// Recorder observes cache effectiveness. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordCacheHit(ctx context.Context, key string)
	RecordCacheMiss(ctx context.Context, key string)
}

// PageCache stores response bodies in Valkey. A nil *PageCache is valid:
// every Get misses and writes are dropped.
type PageCache struct {
	client   *redis.Client
	ttl      time.Duration
	recorder Recorder
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// WithRecorder attaches a hit/miss recorder and returns pc.
func (pc *PageCache) WithRecorder(r Recorder) *PageCache {
	if pc != nil {
		pc.recorder = r
	}
	return pc
}

// Get retrieves a cached body. The second result is false on a miss.
// family labels the key for metrics, e.g. "posts".
func (pc *PageCache) Get(ctx context.Context, family, key string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("page cache get error", "key", key, "error", err)
		}
		if pc.recorder != nil {
			pc.recorder.RecordCacheMiss(ctx, family)
		}
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	if pc.recorder != nil {
		pc.recorder.RecordCacheHit(ctx, family)
	}
	return val, true
}

// Set stores a body under key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, body []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, pageKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes all cached responses by scanning for the prefix.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache cleared", "deleted", deleted)
	}
}

// PostListKey is the key for a public post list under the given sort query.
func PostListKey(sort, dir string) string {
	return "posts:" + sort + ":" + dir
}

// PostKey is the key for a single public post.
func PostKey(id uuid.UUID) string {
	return "post:" + id.String()
}

// CategoryListKey is the key for the public category list.
func CategoryListKey() string {
	return "categories"
}
