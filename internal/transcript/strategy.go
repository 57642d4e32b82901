package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Strategy is one independent way of obtaining a transcript.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, videoID string) (Set, error)
}

// LanguageFetcher fetches a transcript by language preference.
type LanguageFetcher interface {
	FetchLanguages(ctx context.Context, videoID string, languages []string) (Set, error)
}

// TrackSource enumerates caption tracks and fetches a single track.
type TrackSource interface {
	ListTracks(ctx context.Context, videoID string, proxy *ProxyEndpoint) ([]Track, error)
	FetchTrack(ctx context.Context, track Track, proxy *ProxyEndpoint) (Set, error)
}

// CaptionEndpoint fetches captions of one language directly.
type CaptionEndpoint interface {
	Fetch(ctx context.Context, videoID, lang string, proxy *ProxyEndpoint) (Set, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc struct {
	Label string
	Fn    func(ctx context.Context, videoID string) (Set, error)
}

func (s StrategyFunc) Name() string { return s.Label }

func (s StrategyFunc) Fetch(ctx context.Context, videoID string) (Set, error) {
	return s.Fn(ctx, videoID)
}

// failingStrategy stands in for a strategy that could not be built, such as a
// proxied strategy with an empty pool.
type failingStrategy struct {
	name string
	err  error
}

func (s failingStrategy) Name() string { return s.name }

func (s failingStrategy) Fetch(context.Context, string) (Set, error) {
	return nil, s.err
}

// LanguageStrategy asks the caption library for one language combination.
type LanguageStrategy struct {
	Fetcher LanguageFetcher
	// Languages is the preference list; nil means the library default.
	Languages []string
}

func (s *LanguageStrategy) Name() string {
	if len(s.Languages) == 0 {
		return "library[default]"
	}
	return "library[" + strings.Join(s.Languages, ",") + "]"
}

func (s *LanguageStrategy) Fetch(ctx context.Context, videoID string) (Set, error) {
	return s.Fetcher.FetchLanguages(ctx, videoID, s.Languages)
}

// TrackListStrategy enumerates every track of the video and returns the first
// one that fetches successfully, trying Prefer languages first.
type TrackListStrategy struct {
	Source TrackSource
	Proxy  *ProxyEndpoint
	Prefer []string
}

func (s *TrackListStrategy) Name() string {
	if s.Proxy != nil {
		return "tracks via " + s.Proxy.String()
	}
	return "tracks"
}

func (s *TrackListStrategy) Fetch(ctx context.Context, videoID string) (Set, error) {
	tracks, err := s.Source.ListTracks(ctx, videoID, s.Proxy)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}

	var errs []error
	for _, track := range orderTracks(tracks, s.Prefer) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		set, err := s.Source.FetchTrack(ctx, track, s.Proxy)
		if err == nil {
			set = compact(set)
			if err = set.Validate(); err == nil {
				return set, nil
			}
		}
		errs = append(errs, fmt.Errorf("track %s: %w", track.LanguageCode, err))
	}
	return nil, fmt.Errorf("%w: %w", ErrNoTracks, errors.Join(errs...))
}

// orderTracks returns tracks with preferred languages first, in preference
// order, uploaded tracks before generated ones within a language. The
// remaining tracks keep their listed order.
func orderTracks(tracks []Track, prefer []string) []Track {
	ordered := make([]Track, 0, len(tracks))
	used := make([]bool, len(tracks))

	for _, lang := range prefer {
		for _, generated := range []bool{false, true} {
			for i, t := range tracks {
				if !used[i] && t.LanguageCode == lang && t.Generated() == generated {
					ordered = append(ordered, t)
					used[i] = true
				}
			}
		}
	}
	for i, t := range tracks {
		if !used[i] {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

// TimedTextStrategy fetches captions straight from the captions endpoint,
// one language at a time.
type TimedTextStrategy struct {
	Endpoint  CaptionEndpoint
	Proxy     *ProxyEndpoint
	Languages []string
}

func (s *TimedTextStrategy) Name() string {
	if s.Proxy != nil {
		return "timedtext via " + s.Proxy.String()
	}
	return "timedtext"
}

func (s *TimedTextStrategy) Fetch(ctx context.Context, videoID string) (Set, error) {
	var errs []error
	for _, lang := range s.Languages {
		set, err := s.Endpoint.Fetch(ctx, videoID, lang, s.Proxy)
		if err == nil {
			return set, nil
		}
		errs = append(errs, fmt.Errorf("lang %s: %w", lang, err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, errors.New("no languages configured")
	}
	return nil, errors.Join(errs...)
}
