package transcript

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watchPageTemplate = `<!DOCTYPE html><html><head><title>video</title></head><body>
<script>var ytInitialPlayerResponse = {"videoDetails":{"title":"a [bracket] \"quoted\" title"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"%[1]s/api/timedtext?v=dQw4w9WgXcQ&lang=de","name":{"simpleText":"German"},"vssId":".de","languageCode":"de","isTranslatable":true},{"baseUrl":"%[1]s/api/timedtext?v=dQw4w9WgXcQ&lang=en&kind=asr","name":{"runs":[{"text":"English (auto-generated)"}]},"vssId":"a.en","languageCode":"en","kind":"asr","isTranslatable":true}],"audioTracks":[{"captionTrackIndices":[0,1]}]}}};</script>
</body></html>`

func newWatchServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("v"))
			assert.NotEmpty(t, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, watchPageTemplate, srv.URL)
		case "/api/timedtext":
			assert.Equal(t, "json3", r.URL.Query().Get("fmt"))
			if r.URL.Query().Get("lang") == "en" {
				_, _ = w.Write([]byte(sampleJSON3))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWatchPageListTracks(t *testing.T) {
	srv := newWatchServer(t)
	client := &WatchPageClient{WatchURL: srv.URL + "/watch"}

	tracks, err := client.ListTracks(context.Background(), "dQw4w9WgXcQ", nil)
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	assert.Equal(t, "de", tracks[0].LanguageCode)
	assert.Equal(t, "German", tracks[0].Name)
	assert.Equal(t, srv.URL+"/api/timedtext?v=dQw4w9WgXcQ&lang=de", tracks[0].BaseURL)
	assert.Equal(t, "English (auto-generated)", tracks[1].Name)
	assert.True(t, tracks[1].Generated())
}

func TestWatchPageTrackListStrategy(t *testing.T) {
	srv := newWatchServer(t)
	client := &WatchPageClient{WatchURL: srv.URL + "/watch"}

	s := &TrackListStrategy{Source: client, Prefer: []string{"en"}}
	set, err := s.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "We're no strangers to love", set.Text())
}

func TestParseCaptionTracksMissing(t *testing.T) {
	_, err := parseCaptionTracks([]byte(`<html>{"playabilityStatus":{"status":"OK"}}</html>`))
	assert.ErrorIs(t, err, ErrNoTracks)

	_, err = parseCaptionTracks([]byte(`{"playabilityStatus":{"status":"LOGIN_REQUIRED"}}`))
	assert.ErrorIs(t, err, ErrNoTracks)
	assert.Contains(t, err.Error(), "sign-in")
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"simple", `[1,2,3], "rest"`, `[1,2,3]`, false},
		{"nested", ` [{"a":[1]},{"b":{}}]}`, `[{"a":[1]},{"b":{}}]`, false},
		{"brackets in strings", `["]", "\"]\"", "{"]x`, `["]", "\"]\"", "{"]`, false},
		{"not an array", `{"a":1}`, "", true},
		{"unterminated", `[1, [2`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONArray([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
