package transcript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"youtube-qa-api/internal/useragent"
)

// DefaultWatchURL is the public watch page.
const DefaultWatchURL = "https://www.youtube.com/watch"

var captionTracksKey = []byte(`"captionTracks":`)

// WatchPageClient enumerates caption tracks from the watch page and fetches
// them in json3 format.
type WatchPageClient struct {
	WatchURL string
	Timeout  time.Duration
}

// NewWatchPageClient returns a client for the public watch page.
func NewWatchPageClient() *WatchPageClient {
	return &WatchPageClient{WatchURL: DefaultWatchURL, Timeout: 30 * time.Second}
}

// ListTracks loads the watch page of videoID and returns its caption tracks.
// Each call uses its own collector so concurrent calls never share a proxy.
func (c *WatchPageClient) ListTracks(ctx context.Context, videoID string, proxy *ProxyEndpoint) ([]Track, error) {
	collector := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(useragent.Random()),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(c.Timeout)
	if proxy != nil {
		if err := collector.SetProxy(proxy.URL().String()); err != nil {
			return nil, fmt.Errorf("configuring proxy %s: %w", proxy, err)
		}
	}

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	var page []byte
	collector.OnResponse(func(r *colly.Response) {
		page = r.Body
	})

	pageURL := c.WatchURL + "?" + url.Values{"v": {videoID}, "hl": {"en"}}.Encode()
	if err := collector.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("loading watch page: %w", err)
	}
	collector.Wait()

	return parseCaptionTracks(page)
}

// FetchTrack downloads one track in json3 format.
func (c *WatchPageClient) FetchTrack(ctx context.Context, track Track, proxy *ProxyEndpoint) (Set, error) {
	u, err := url.Parse(track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid track URL: %w", err)
	}
	q := u.Query()
	q.Set("fmt", "json3")
	u.RawQuery = q.Encode()

	return fetchJSON3(ctx, NewHTTPClient(proxy, c.Timeout), u.String())
}

type rawCaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
	Name         struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
}

// parseCaptionTracks pulls the captionTracks array out of the player response
// embedded in the watch page HTML.
func parseCaptionTracks(page []byte) ([]Track, error) {
	idx := bytes.Index(page, captionTracksKey)
	if idx < 0 {
		if bytes.Contains(page, []byte(`"LOGIN_REQUIRED"`)) {
			return nil, fmt.Errorf("%w: video requires sign-in", ErrNoTracks)
		}
		return nil, ErrNoTracks
	}

	array, err := extractJSONArray(page[idx+len(captionTracksKey):])
	if err != nil {
		return nil, fmt.Errorf("reading captionTracks: %w", err)
	}

	var raw []rawCaptionTrack
	if err := json.Unmarshal(array, &raw); err != nil {
		return nil, fmt.Errorf("decoding captionTracks: %w", err)
	}

	tracks := make([]Track, 0, len(raw))
	for _, r := range raw {
		if r.BaseURL == "" {
			continue
		}
		name := r.Name.SimpleText
		if name == "" && len(r.Name.Runs) > 0 {
			name = r.Name.Runs[0].Text
		}
		tracks = append(tracks, Track{
			LanguageCode: r.LanguageCode,
			Name:         name,
			Kind:         r.Kind,
			BaseURL:      r.BaseURL,
		})
	}
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}
	return tracks, nil
}

var errUnterminatedArray = errors.New("unterminated JSON array")

// extractJSONArray returns the bracket-balanced JSON array at the start of b
// (after optional whitespace), honouring string literals and escapes.
func extractJSONArray(b []byte) ([]byte, error) {
	start := 0
	for start < len(b) && (b[start] == ' ' || b[start] == '\n' || b[start] == '\t' || b[start] == '\r') {
		start++
	}
	if start >= len(b) || b[start] != '[' {
		return nil, errors.New("expected JSON array")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(b); i++ {
		ch := b[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return b[start : i+1], nil
			}
		}
	}
	return nil, errUnterminatedArray
}
