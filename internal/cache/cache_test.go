package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtube-qa-api/internal/config"
	"youtube-qa-api/internal/transcript"
)

type countingSource struct {
	calls int
	set   transcript.Set
	err   error
}

func (s *countingSource) Fetch(context.Context, string) (transcript.Set, error) {
	s.calls++
	return s.set, s.err
}

func TestShardedMemoryCache(t *testing.T) {
	c := NewShardedMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	_, ok := c.GetTranscript(ctx, "dQw4w9WgXcQ")
	assert.False(t, ok)

	set := transcript.Set{{Text: "hello", Start: 1, Duration: 2}}
	c.SetTranscript(ctx, "dQw4w9WgXcQ", set, time.Minute)

	got, ok := c.GetTranscript(ctx, "dQw4w9WgXcQ")
	require.True(t, ok)
	assert.Equal(t, set, got)

	// callers cannot mutate the cached copy
	got[0].Text = "changed"
	again, _ := c.GetTranscript(ctx, "dQw4w9WgXcQ")
	assert.Equal(t, "hello", again[0].Text)
}

func TestShardedMemoryCacheExpiry(t *testing.T) {
	c := NewShardedMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	c.SetTranscript(ctx, "dQw4w9WgXcQ", transcript.Set{{Text: "x"}}, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.GetTranscript(ctx, "dQw4w9WgXcQ")
	assert.False(t, ok)
}

func TestCachedSource(t *testing.T) {
	src := &countingSource{set: transcript.Set{{Text: "cached text"}}}
	cached := NewCachedSource(src, NewShardedMemoryCache(time.Minute, time.Minute), time.Minute)

	for i := 0; i < 3; i++ {
		set, err := cached.Fetch(context.Background(), "dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Equal(t, "cached text", set.Text())
	}
	assert.Equal(t, 1, src.calls)
}

func TestCachedSourceDoesNotCacheFailures(t *testing.T) {
	src := &countingSource{err: errors.New("blocked")}
	cached := NewCachedSource(src, NewShardedMemoryCache(time.Minute, time.Minute), time.Minute)

	for i := 0; i < 2; i++ {
		_, err := cached.Fetch(context.Background(), "dQw4w9WgXcQ")
		assert.Error(t, err)
	}
	assert.Equal(t, 2, src.calls)
}

func TestNewSelectsBackend(t *testing.T) {
	c, err := New(context.Background(), &config.AppConfig{CacheBackend: config.CacheNone})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = New(context.Background(), &config.AppConfig{CacheBackend: config.CacheMemory, CacheTTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &ShardedMemoryCache{}, c)

	_, err = New(context.Background(), &config.AppConfig{CacheBackend: config.CacheRedis, RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestCloseReleasesRedisPool(t *testing.T) {
	rc := NewRedisCache("127.0.0.1:1", "", 0)
	require.NoError(t, Close(rc))

	err := rc.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestCloseWithoutResources(t *testing.T) {
	assert.NoError(t, Close(nil))
	assert.NoError(t, Close(NewShardedMemoryCache(time.Minute, time.Minute)))
}
