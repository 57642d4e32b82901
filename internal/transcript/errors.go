package transcript

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoProxies is returned by proxied strategies when the pool is empty.
	ErrNoProxies = errors.New("no proxies configured")
	// ErrNoTracks is returned when a video offers no caption tracks.
	ErrNoTracks = errors.New("no caption tracks available")
	// ErrEmptyTranscript is returned when a backend yields no usable text.
	ErrEmptyTranscript = errors.New("transcript is empty")
)

// StrategyError records the failure of one strategy during one attempt.
type StrategyError struct {
	Strategy string
	// Attempt is zero-based; -1 marks the final fallback pass.
	Attempt int
	Err     error
}

func (e *StrategyError) Error() string {
	if e.Attempt < 0 {
		return fmt.Sprintf("fallback %s: %v", e.Strategy, e.Err)
	}
	return fmt.Sprintf("attempt %d %s: %v", e.Attempt+1, e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// FetchError aggregates every strategy failure for one video.
type FetchError struct {
	VideoID string
	Causes  []error
}

func (e *FetchError) Error() string {
	if len(e.Causes) == 0 {
		return fmt.Sprintf("no transcript strategies ran for video %s", e.VideoID)
	}
	return fmt.Sprintf("all %d transcript strategies failed for video %s, last error: %v",
		len(e.Causes), e.VideoID, e.Last())
}

func (e *FetchError) Unwrap() []error {
	return e.Causes
}

// Last returns the most recent cause, or nil.
func (e *FetchError) Last() error {
	if len(e.Causes) == 0 {
		return nil
	}
	return e.Causes[len(e.Causes)-1]
}

// Summary lists every cause on its own line.
func (e *FetchError) Summary() string {
	lines := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		lines = append(lines, c.Error())
	}
	return strings.Join(lines, "\n")
}
