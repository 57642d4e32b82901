package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newMetadataServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "videos")
		assert.Equal(t, "snippet", r.URL.Query().Get("part"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMetadataLookup(t *testing.T) {
	srv := newMetadataServer(t, `{"items":[{"id":"dQw4w9WgXcQ","snippet":{"title":"Never Gonna Give You Up","channelTitle":"Rick Astley"}}]}`)

	client, err := NewMetadataClient(context.Background(), "test-key", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	meta, err := client.Lookup(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna Give You Up", meta.Title)
	assert.Equal(t, "Rick Astley", meta.ChannelTitle)
}

func TestMetadataLookupNotFound(t *testing.T) {
	srv := newMetadataServer(t, `{"items":[]}`)

	client, err := NewMetadataClient(context.Background(), "test-key", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	_, err = client.Lookup(context.Background(), "aaaaaaaaaaa")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}
