package youtube

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// ErrVideoNotFound is returned when the Data API has no snippet for a video.
var ErrVideoNotFound = errors.New("video not found")

// VideoMetadata is the subset of the video snippet the service reports.
type VideoMetadata struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channel"`
}

// MetadataClient looks up video details through the YouTube Data API v3.
type MetadataClient struct {
	service *yt.Service
}

// NewMetadataClient creates a Data API client authenticated with apiKey.
// Extra options (endpoint, HTTP client) are appended after the key.
func NewMetadataClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*MetadataClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &MetadataClient{service: service}, nil
}

// Lookup fetches the title and channel name of a video.
func (c *MetadataClient) Lookup(ctx context.Context, videoID string) (*VideoMetadata, error) {
	resp, err := c.service.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube api video details: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}

	snippet := resp.Items[0].Snippet
	return &VideoMetadata{
		Title:        snippet.Title,
		ChannelTitle: snippet.ChannelTitle,
	}, nil
}
