package transcript

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript_models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	languages   [][]string
	transcripts []yt_transcript_models.Transcript
	err         error
	block       chan struct{}
}

func (f *fakeGetter) GetTranscripts(videoID string, languages []string) ([]yt_transcript_models.Transcript, error) {
	f.languages = append(f.languages, languages)
	if f.block != nil {
		<-f.block
	}
	return f.transcripts, f.err
}

func TestLibraryClientDefaultsLanguages(t *testing.T) {
	api := &fakeGetter{}
	client := &LibraryClient{api: api}

	_, err := client.FetchLanguages(context.Background(), "dQw4w9WgXcQ", nil)
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	_, err = client.FetchLanguages(context.Background(), "dQw4w9WgXcQ", []string{"en", "bn", "hi"})
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	require.Len(t, api.languages, 2)
	assert.Equal(t, []string{"en"}, api.languages[0])
	assert.Equal(t, []string{"en", "bn", "hi"}, api.languages[1])
}

func TestLibraryClientWrapsErrors(t *testing.T) {
	boom := errors.New("captions not found")
	client := &LibraryClient{api: &fakeGetter{err: boom}}

	_, err := client.FetchLanguages(context.Background(), "dQw4w9WgXcQ", []string{"en-US"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "en-US")
}

func TestLibraryClientHonoursContext(t *testing.T) {
	api := &fakeGetter{block: make(chan struct{})}
	defer close(api.block)
	client := &LibraryClient{api: api}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.FetchLanguages(ctx, "dQw4w9WgXcQ", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLibraryClientConvertsLines(t *testing.T) {
	api := &fakeGetter{transcripts: []yt_transcript_models.Transcript{
		{
			VideoID:      "dQw4w9WgXcQ",
			LanguageCode: "en",
			Lines: []yt_transcript_models.TranscriptLine{
				{Text: "  never gonna give you up ", Start: 18.5, Duration: 3.2},
				{Text: "   ", Start: 21.7, Duration: 0.4},
				{Text: "never gonna let you down", Start: 22.1, Duration: 2.9},
			},
		},
		{
			VideoID:      "dQw4w9WgXcQ",
			LanguageCode: "en-US",
			Lines:        []yt_transcript_models.TranscriptLine{{Text: "second track", Start: 0, Duration: 1}},
		},
	}}
	client := &LibraryClient{api: api}

	set, err := client.FetchLanguages(context.Background(), "dQw4w9WgXcQ", []string{"en", "en-US"})
	require.NoError(t, err)

	assert.Equal(t, Set{
		{Text: "never gonna give you up", Start: 18.5, Duration: 3.2},
		{Text: "never gonna let you down", Start: 22.1, Duration: 2.9},
	}, set)
	assert.Equal(t, "never gonna give you up never gonna let you down", set.Text())
	assert.NoError(t, set.Validate())
}

func TestLibraryClientTranscriptWithoutText(t *testing.T) {
	tests := []struct {
		name  string
		lines []yt_transcript_models.TranscriptLine
	}{
		{"no lines", nil},
		{"blank lines", []yt_transcript_models.TranscriptLine{{Text: " "}, {Text: "\n"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeGetter{transcripts: []yt_transcript_models.Transcript{{LanguageCode: "en", Lines: tt.lines}}}
			client := &LibraryClient{api: api}

			set, err := client.FetchLanguages(context.Background(), "dQw4w9WgXcQ", nil)
			assert.Nil(t, set)
			assert.ErrorIs(t, err, ErrEmptyTranscript)
		})
	}
}

func TestMultiLanguagePolicyThroughLibraryClient(t *testing.T) {
	api := &fakeGetter{transcripts: []yt_transcript_models.Transcript{{
		LanguageCode: "en",
		Lines:        []yt_transcript_models.TranscriptLine{{Text: "hello there", Start: 1, Duration: 2}},
	}}}
	policy := &MultiLanguagePolicy{Library: &LibraryClient{api: api}, Tracks: &fakeTrackSource{}}
	fetcher := NewFetcher(policy, WithAttempts(1), WithSleep(func(context.Context, time.Duration) error { return nil }))

	set, err := fetcher.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, Set{{Text: "hello there", Start: 1, Duration: 2}}, set)
	assert.Equal(t, [][]string{{"en"}}, api.languages)
}
