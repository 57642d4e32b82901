package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript"
	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript_models"
)

// defaultLanguages is what the caption library falls back to when no
// preference is given.
var defaultLanguages = []string{"en"}

type transcriptsGetter interface {
	GetTranscripts(videoID string, languages []string) ([]yt_transcript_models.Transcript, error)
}

// LibraryClient fetches captions through youtube-transcript-api-go. It never
// uses a proxy.
type LibraryClient struct {
	api transcriptsGetter
}

// NewLibraryClient returns a client backed by a fresh library client.
func NewLibraryClient() *LibraryClient {
	return &LibraryClient{api: yt_transcript.NewClient()}
}

// FetchLanguages returns the first transcript the library finds for the given
// language preference. A nil or empty preference uses the library default.
func (c *LibraryClient) FetchLanguages(ctx context.Context, videoID string, languages []string) (Set, error) {
	if len(languages) == 0 {
		languages = defaultLanguages
	}

	type result struct {
		transcripts []yt_transcript_models.Transcript
		err         error
	}
	// The library call takes no context; run it aside so cancellation is
	// still observed by the caller.
	done := make(chan result, 1)
	go func() {
		ts, err := c.api.GetTranscripts(videoID, languages)
		done <- result{ts, err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-done:
	}

	if r.err != nil {
		return nil, fmt.Errorf("caption library (%s): %w", strings.Join(languages, ","), r.err)
	}
	if len(r.transcripts) == 0 {
		return nil, fmt.Errorf("%w: caption library returned no transcripts for %s", ErrEmptyTranscript, strings.Join(languages, ","))
	}
	return convertLibraryTranscript(r.transcripts[0])
}

func convertLibraryTranscript(t yt_transcript_models.Transcript) (Set, error) {
	set := make(Set, 0, len(t.Lines))
	for _, line := range t.Lines {
		set = append(set, Entry{
			Text:     line.Text,
			Start:    line.Start,
			Duration: line.Duration,
		})
	}
	set = compact(set)
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: caption library transcript (%s) has no text", ErrEmptyTranscript, t.LanguageCode)
	}
	return set, nil
}
