package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"youtube-qa-api/internal/cache"
	"youtube-qa-api/internal/config"
	"youtube-qa-api/internal/logger"
	"youtube-qa-api/internal/transcript"
)

// transcriptStack is everything needed to fetch transcripts.
type transcriptStack struct {
	fetcher *transcript.Fetcher
	pool    *transcript.ProxyPool
	source  cache.TranscriptSource
	cache   cache.Cache
}

// Close releases the transcript cache.
func (s *transcriptStack) Close() {
	if err := cache.Close(s.cache); err != nil {
		logger.LogError("Failed to close transcript cache", "error", err)
	}
}

// buildTranscriptStack assembles the fetch policy selected in cfg, wrapped in
// the configured cache.
func buildTranscriptStack(ctx context.Context, cfg *config.AppConfig) (*transcriptStack, error) {
	proxies, err := transcript.ParseProxyList(cfg.ProxyPool, cfg.WebshareProxyUsername, cfg.WebshareProxyPassword)
	if err != nil {
		return nil, fmt.Errorf("parsing PROXY_POOL: %w", err)
	}
	pool := transcript.NewProxyPool(proxies, nil)
	for i, p := range pool.Endpoints() {
		slog.Info("Proxy configured", "index", i, "proxy", p.String())
	}

	library := transcript.NewLibraryClient()
	watch := transcript.NewWatchPageClient()

	var policy transcript.Policy
	switch cfg.TranscriptStrategy {
	case config.StrategyProxied:
		policy = &transcript.ProxiedPolicy{
			Pool:     pool,
			Endpoint: transcript.NewTimedTextClient(),
			Tracks:   watch,
			Library:  library,
		}
	default:
		policy = &transcript.MultiLanguagePolicy{Library: library, Tracks: watch}
	}

	fetcher := transcript.NewFetcher(policy,
		transcript.WithAttempts(cfg.MaxRetries),
		transcript.WithDelays(cfg.RetryMinDelay, cfg.RetryMaxDelay),
	)

	stack := &transcriptStack{fetcher: fetcher, pool: pool, source: fetcher}

	c, err := cache.New(ctx, cfg)
	if err != nil {
		logger.LogError("Transcript cache unavailable, continuing without it", "backend", cfg.CacheBackend, "error", err)
	} else if c != nil {
		stack.cache = c
		stack.source = cache.NewCachedSource(fetcher, c, cfg.CacheTTL)
	}

	slog.Info("Transcript fetching configured",
		"policy", fetcher.PolicyName(), "attempts", cfg.MaxRetries, "proxies", pool.Len(), "cache", cfg.CacheBackend)
	return stack, nil
}
