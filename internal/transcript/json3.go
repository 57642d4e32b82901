package transcript

import (
	"bytes"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// json3Document is the segment-based caption format served with fmt=json3.
type json3Document struct {
	Events []struct {
		TStartMs    float64 `json:"tStartMs"`
		DDurationMs float64 `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// ParseJSON3 converts a json3 caption document into a Set. Events without
// text (window and style events, bare newlines) are skipped.
func ParseJSON3(data []byte) (Set, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty caption document", ErrEmptyTranscript)
	}

	var doc json3Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding json3 captions: %w", err)
	}

	set := make(Set, 0, len(doc.Events))
	for _, ev := range doc.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.Join(strings.Fields(sb.String()), " ")
		if text == "" {
			continue
		}
		set = append(set, Entry{
			Text:     text,
			Start:    ev.TStartMs / 1000,
			Duration: ev.DDurationMs / 1000,
		})
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("%w: no caption events with text", ErrEmptyTranscript)
	}
	return set, nil
}
