package transcript

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Default retry settings.
const (
	DefaultAttempts = 3
	DefaultMinDelay = 2 * time.Second
	DefaultMaxDelay = 5 * time.Second
)

// Fetcher runs a Policy until one strategy yields a usable transcript.
type Fetcher struct {
	policy   Policy
	attempts int
	minDelay time.Duration
	maxDelay time.Duration
	rnd      *lockedRand
	sleep    func(ctx context.Context, d time.Duration) error
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithAttempts sets how many times the per-attempt strategies are run.
func WithAttempts(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.attempts = n
		}
	}
}

// WithDelays sets the range of the random delay unit between attempts.
func WithDelays(minDelay, maxDelay time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if minDelay >= 0 && maxDelay >= minDelay {
			f.minDelay, f.maxDelay = minDelay, maxDelay
		}
	}
}

// WithRand injects the random source used for delays.
func WithRand(r *rand.Rand) FetcherOption {
	return func(f *Fetcher) {
		f.rnd = newLockedRand(r)
	}
}

// WithSleep replaces the context-aware sleep, mostly for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) FetcherOption {
	return func(f *Fetcher) {
		f.sleep = sleep
	}
}

// NewFetcher creates a Fetcher for policy.
func NewFetcher(policy Policy, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		policy:   policy,
		attempts: DefaultAttempts,
		minDelay: DefaultMinDelay,
		maxDelay: DefaultMaxDelay,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rnd == nil {
		f.rnd = newLockedRand(nil)
	}
	return f
}

// PolicyName reports the name of the configured policy.
func (f *Fetcher) PolicyName() string {
	return f.policy.Name()
}

// Delay returns the pause before the zero-based attempt: none before the
// first, then attempt × uniform(minDelay, maxDelay).
func (f *Fetcher) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	unit := f.minDelay + time.Duration(f.rnd.Float64()*float64(f.maxDelay-f.minDelay))
	return time.Duration(attempt) * unit
}

// Fetch returns the first valid transcript for videoID. When every strategy
// fails it returns a *FetchError holding all causes.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (Set, error) {
	fetchErr := &FetchError{VideoID: videoID}

	for attempt := 0; attempt < f.attempts; attempt++ {
		if d := f.Delay(attempt); d > 0 {
			slog.Debug("waiting before transcript retry", "video_id", videoID, "attempt", attempt+1, "delay", d)
			if err := f.sleep(ctx, d); err != nil {
				fetchErr.Causes = append(fetchErr.Causes, err)
				return nil, fetchErr
			}
		}

		for _, s := range f.policy.Round(attempt) {
			if set, ok := f.try(ctx, s, videoID, attempt, fetchErr); ok {
				return set, nil
			}
			if err := ctx.Err(); err != nil {
				fetchErr.Causes = append(fetchErr.Causes, err)
				return nil, fetchErr
			}
		}
	}

	for _, s := range f.policy.Final() {
		if set, ok := f.try(ctx, s, videoID, -1, fetchErr); ok {
			return set, nil
		}
		if err := ctx.Err(); err != nil {
			fetchErr.Causes = append(fetchErr.Causes, err)
			return nil, fetchErr
		}
	}

	slog.Warn("all transcript strategies failed", "video_id", videoID, "policy", f.policy.Name(), "failures", len(fetchErr.Causes))
	return nil, fetchErr
}

func (f *Fetcher) try(ctx context.Context, s Strategy, videoID string, attempt int, fetchErr *FetchError) (Set, bool) {
	set, err := s.Fetch(ctx, videoID)
	if err == nil {
		set = compact(set)
		err = set.Validate()
	}
	if err != nil {
		slog.Debug("transcript strategy failed", "video_id", videoID, "strategy", s.Name(), "attempt", attempt+1, "error", err)
		fetchErr.Causes = append(fetchErr.Causes, &StrategyError{Strategy: s.Name(), Attempt: attempt, Err: err})
		return nil, false
	}

	slog.Info("transcript fetched", "video_id", videoID, "strategy", s.Name(), "attempt", attempt+1, "entries", len(set))
	return set, true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
