package transcript

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"youtube-qa-api/internal/useragent"
)

const (
	// DefaultTimedTextURL is the public captions endpoint.
	DefaultTimedTextURL = "https://www.youtube.com/api/timedtext"

	maxCaptionBytes = 8 << 20
)

// TimedTextClient fetches captions directly from the timedtext endpoint.
type TimedTextClient struct {
	BaseURL string
	Timeout time.Duration
}

// NewTimedTextClient returns a client for the public endpoint.
func NewTimedTextClient() *TimedTextClient {
	return &TimedTextClient{BaseURL: DefaultTimedTextURL, Timeout: 30 * time.Second}
}

// Fetch requests the json3 captions of videoID in lang, through proxy when it
// is non-nil.
func (c *TimedTextClient) Fetch(ctx context.Context, videoID, lang string, proxy *ProxyEndpoint) (Set, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid timedtext URL: %w", err)
	}
	q := u.Query()
	q.Set("v", videoID)
	q.Set("lang", lang)
	q.Set("fmt", "json3")
	u.RawQuery = q.Encode()

	return fetchJSON3(ctx, NewHTTPClient(proxy, c.Timeout), u.String())
}

// fetchJSON3 GETs a json3 caption document and parses it.
func fetchJSON3(ctx context.Context, client *http.Client, captionURL string) (Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, captionURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", useragent.Random())
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("caption request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("caption endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCaptionBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read caption response: %w", err)
	}
	return ParseJSON3(body)
}
