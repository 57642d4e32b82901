package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"youtube-qa-api/internal/config"
	"youtube-qa-api/internal/transcript"
)

// Cache is the interface for a transcript cache.
type Cache interface {
	GetTranscript(ctx context.Context, videoID string) (transcript.Set, bool)
	SetTranscript(ctx context.Context, videoID string, set transcript.Set, duration time.Duration)
}

func transcriptKey(videoID string) string {
	return "transcript:" + videoID
}

// New builds the cache selected by cfg. It returns nil for the "none" backend.
func New(ctx context.Context, cfg *config.AppConfig) (Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheMemory:
		return NewShardedMemoryCache(cfg.CacheTTL, 2*cfg.CacheTTL), nil
	case config.CacheRedis:
		rc := NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		return rc, nil
	default:
		return nil, nil
	}
}

// Close releases the resources held by c. Backends without any are a no-op.
func Close(c Cache) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// TranscriptSource is anything that can fetch a transcript.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string) (transcript.Set, error)
}

// CachedSource serves transcripts from a cache and fills it on misses.
// Failures are never cached.
type CachedSource struct {
	next  TranscriptSource
	cache Cache
	ttl   time.Duration
}

// NewCachedSource wraps next with c.
func NewCachedSource(next TranscriptSource, c Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, cache: c, ttl: ttl}
}

// Fetch implements TranscriptSource.
func (s *CachedSource) Fetch(ctx context.Context, videoID string) (transcript.Set, error) {
	if set, ok := s.cache.GetTranscript(ctx, videoID); ok {
		slog.Debug("transcript cache hit", "video_id", videoID)
		return set, nil
	}

	set, err := s.next.Fetch(ctx, videoID)
	if err != nil {
		return nil, err
	}
	s.cache.SetTranscript(ctx, videoID, set, s.ttl)
	return set, nil
}
