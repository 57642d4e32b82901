package cache

import (
	"context"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/patrickmn/go-cache"

	"youtube-qa-api/internal/transcript"
)

const shardCount = 256 // must be a power of 2

// ShardedMemoryCache spreads entries over independent go-cache shards to
// reduce lock contention.
type ShardedMemoryCache struct {
	shards []*cache.Cache
}

// NewShardedMemoryCache creates a sharded in-memory cache.
func NewShardedMemoryCache(defaultExpiration, cleanupInterval time.Duration) *ShardedMemoryCache {
	c := &ShardedMemoryCache{
		shards: make([]*cache.Cache, shardCount),
	}
	for i := 0; i < shardCount; i++ {
		c.shards[i] = cache.New(defaultExpiration, cleanupInterval)
	}
	return c
}

func (c *ShardedMemoryCache) getShard(key string) *cache.Cache {
	return c.shards[xxhash.Sum64String(key)&(shardCount-1)]
}

// GetTranscript returns a copy of the cached transcript.
func (c *ShardedMemoryCache) GetTranscript(ctx context.Context, videoID string) (transcript.Set, bool) {
	key := transcriptKey(videoID)
	if val, found := c.getShard(key).Get(key); found {
		if set, ok := val.(transcript.Set); ok {
			return cloneSet(set), true
		}
	}
	return nil, false
}

// SetTranscript stores a copy of set.
func (c *ShardedMemoryCache) SetTranscript(ctx context.Context, videoID string, set transcript.Set, duration time.Duration) {
	key := transcriptKey(videoID)
	c.getShard(key).Set(key, cloneSet(set), duration)
}

func cloneSet(set transcript.Set) transcript.Set {
	out := make(transcript.Set, len(set))
	copy(out, set)
	return out
}
