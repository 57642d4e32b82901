package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON3 = `{
  "wireMagic": "pb3",
  "events": [
    {"tStartMs": 0, "dDurationMs": 5000, "id": 1, "wpWinPosId": 1, "wsWinStyleId": 1},
    {"tStartMs": 1200, "dDurationMs": 2500, "wWinId": 1, "segs": [{"utf8": "We're no"}, {"utf8": " strangers", "tOffsetMs": 400}]},
    {"tStartMs": 3700, "dDurationMs": 10, "aAppend": 1, "segs": [{"utf8": "\n"}]},
    {"tStartMs": 3710, "dDurationMs": 2290, "segs": [{"utf8": "to love"}]}
  ]
}`

func TestParseJSON3(t *testing.T) {
	set, err := ParseJSON3([]byte(sampleJSON3))
	require.NoError(t, err)
	require.Len(t, set, 2)

	assert.Equal(t, Entry{Text: "We're no strangers", Start: 1.2, Duration: 2.5}, set[0])
	assert.Equal(t, "to love", set[1].Text)
	assert.InDelta(t, 3.71, set[1].Start, 1e-9)
	assert.NoError(t, set.Validate())
	assert.Equal(t, "We're no strangers to love", set.Text())
}

func TestParseJSON3Empty(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"whitespace", "  \n"},
		{"no events", `{"events":[]}`},
		{"only newlines", `{"events":[{"tStartMs":0,"segs":[{"utf8":"\n"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON3([]byte(tt.body))
			assert.ErrorIs(t, err, ErrEmptyTranscript)
		})
	}
}

func TestParseJSON3Malformed(t *testing.T) {
	_, err := ParseJSON3([]byte("<transcript></transcript>"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyTranscript)
}

func TestSetValidate(t *testing.T) {
	assert.ErrorIs(t, Set{}.Validate(), ErrEmptyTranscript)
	assert.ErrorIs(t, Set{{Text: "a"}, {Text: "  "}}.Validate(), ErrEmptyTranscript)
	assert.NoError(t, Set{{Text: "a"}}.Validate())
}

func TestCompact(t *testing.T) {
	got := compact(Set{{Text: " hi "}, {Text: ""}, {Text: "\n"}, {Text: "there", Start: 2}})
	assert.Equal(t, Set{{Text: "hi"}, {Text: "there", Start: 2}}, got)
}
