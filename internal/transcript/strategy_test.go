package transcript

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLibrary struct {
	calls     []string
	succeedOn string
}

func (l *recordingLibrary) FetchLanguages(_ context.Context, _ string, languages []string) (Set, error) {
	key := strings.Join(languages, ",")
	if key == "" {
		key = "default"
	}
	l.calls = append(l.calls, key)
	if key == l.succeedOn {
		return Set{{Text: "library"}, {Text: "text"}}, nil
	}
	return nil, errors.New("no transcript for " + key)
}

type fakeEndpoint struct {
	langs   []string
	proxies []*ProxyEndpoint
	sets    map[string]Set
	err     error
}

func (e *fakeEndpoint) Fetch(_ context.Context, _ string, lang string, proxy *ProxyEndpoint) (Set, error) {
	e.langs = append(e.langs, lang)
	e.proxies = append(e.proxies, proxy)
	if set, ok := e.sets[lang]; ok {
		return set, nil
	}
	if e.err != nil {
		return nil, e.err
	}
	return nil, ErrEmptyTranscript
}

type fakeTrackSource struct {
	tracks       []Track
	listErr      error
	sets         map[string]Set
	listProxies  []*ProxyEndpoint
	fetchedLangs []string
}

func (s *fakeTrackSource) ListTracks(_ context.Context, _ string, proxy *ProxyEndpoint) ([]Track, error) {
	s.listProxies = append(s.listProxies, proxy)
	return s.tracks, s.listErr
}

func (s *fakeTrackSource) FetchTrack(_ context.Context, track Track, _ *ProxyEndpoint) (Set, error) {
	s.fetchedLangs = append(s.fetchedLangs, track.LanguageCode+"/"+track.Kind)
	if set, ok := s.sets[track.LanguageCode+"/"+track.Kind]; ok {
		return set, nil
	}
	return nil, errors.New("fetch failed")
}

func TestOrderTracks(t *testing.T) {
	tracks := []Track{
		{LanguageCode: "de"},
		{LanguageCode: "en", Kind: "asr"},
		{LanguageCode: "fr"},
		{LanguageCode: "en-US"},
		{LanguageCode: "en"},
	}

	got := orderTracks(tracks, []string{"en", "en-US"})
	langs := make([]string, 0, len(got))
	for _, tr := range got {
		langs = append(langs, tr.LanguageCode+"/"+tr.Kind)
	}
	assert.Equal(t, []string{"en/", "en/asr", "en-US/", "de/", "fr/"}, langs)

	assert.Equal(t, tracks, orderTracks(tracks, nil))
}

func TestTrackListStrategyFirstWorkingTrack(t *testing.T) {
	src := &fakeTrackSource{
		tracks: []Track{{LanguageCode: "de"}, {LanguageCode: "en", Kind: "asr"}, {LanguageCode: "en"}},
		sets: map[string]Set{
			"en/asr": {{Text: "auto"}},
			"de/":    {{Text: "deutsch"}},
		},
	}
	s := &TrackListStrategy{Source: src, Prefer: []string{"en"}}

	set, err := s.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "auto", set.Text())
	assert.Equal(t, []string{"en/", "en/asr"}, src.fetchedLangs)
}

func TestTrackListStrategyAllFail(t *testing.T) {
	src := &fakeTrackSource{tracks: []Track{{LanguageCode: "de"}}}
	_, err := (&TrackListStrategy{Source: src}).Fetch(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrNoTracks)

	_, err = (&TrackListStrategy{Source: &fakeTrackSource{}}).Fetch(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrNoTracks)
}

func TestTimedTextStrategyTriesLanguagesInOrder(t *testing.T) {
	proxy := &ProxyEndpoint{Host: "p", Port: 1}
	ep := &fakeEndpoint{sets: map[string]Set{"en-US": {{Text: "hi"}}}}
	s := &TimedTextStrategy{Endpoint: ep, Proxy: proxy, Languages: []string{"en", "en-US", "fr"}}

	set, err := s.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "hi", set.Text())
	assert.Equal(t, []string{"en", "en-US"}, ep.langs)
	assert.Same(t, proxy, ep.proxies[0])
	assert.Equal(t, "timedtext via p:1", s.Name())
}

func TestStrategyFunc(t *testing.T) {
	s := StrategyFunc{Label: "custom", Fn: func(context.Context, string) (Set, error) {
		return Set{{Text: "x"}}, nil
	}}
	assert.Equal(t, "custom", s.Name())
	set, err := s.Fetch(context.Background(), "id")
	require.NoError(t, err)
	assert.Len(t, set, 1)
}
