package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"

	"youtube-qa-api/internal/logger"
	"youtube-qa-api/internal/transcript"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisCache is a Redis-backed cache that implements the Cache interface.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new RedisCache.
func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb}
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetTranscript retrieves and decodes a cached transcript.
func (c *RedisCache) GetTranscript(ctx context.Context, videoID string) (transcript.Set, bool) {
	val, err := c.client.Get(ctx, transcriptKey(videoID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	} else if err != nil {
		logger.LogError("redis get failed", "video_id", videoID, "error", err)
		return nil, false
	}

	var set transcript.Set
	if err := json.Unmarshal(val, &set); err != nil {
		logger.LogError("redis value is not a transcript", "video_id", videoID, "error", err)
		return nil, false
	}
	return set, true
}

// SetTranscript encodes and stores a transcript.
func (c *RedisCache) SetTranscript(ctx context.Context, videoID string, set transcript.Set, duration time.Duration) {
	data, err := json.Marshal(set)
	if err != nil {
		logger.LogError("encoding transcript for redis failed", "video_id", videoID, "error", err)
		return
	}
	if err := c.client.Set(ctx, transcriptKey(videoID), data, duration).Err(); err != nil {
		logger.LogError("redis set failed", "video_id", videoID, "error", err)
	}
}
