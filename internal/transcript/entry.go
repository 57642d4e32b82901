// Package transcript retrieves YouTube caption transcripts through an ordered
// ladder of independent strategies.
package transcript

import (
	"fmt"
	"strings"
)

// Entry is one caption line. Start and Duration are in seconds.
type Entry struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Set is a transcript in chronological order.
type Set []Entry

// Text joins the entry texts with single spaces.
func (s Set) Text() string {
	parts := make([]string, 0, len(s))
	for _, e := range s {
		parts = append(parts, e.Text)
	}
	return strings.Join(parts, " ")
}

// Validate reports whether s is usable: non-empty with no blank entries.
func (s Set) Validate() error {
	if len(s) == 0 {
		return ErrEmptyTranscript
	}
	for i, e := range s {
		if strings.TrimSpace(e.Text) == "" {
			return fmt.Errorf("%w: entry %d has no text", ErrEmptyTranscript, i)
		}
	}
	return nil
}

// compact drops entries whose text is blank after trimming.
func compact(s Set) Set {
	out := make(Set, 0, len(s))
	for _, e := range s {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		e.Text = text
		out = append(out, e)
	}
	return out
}

// Track describes one caption track offered for a video.
type Track struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
	// Kind is "asr" for auto-generated tracks, empty for uploaded ones.
	Kind    string `json:"kind,omitempty"`
	BaseURL string `json:"baseUrl"`
}

// Generated reports whether the track was produced by speech recognition.
func (t Track) Generated() bool {
	return t.Kind == "asr"
}
