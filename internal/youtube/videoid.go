package youtube

import "regexp"

// Patterns are tried in order; the first match wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:watch\?v=)([a-zA-Z0-9_-]{11})`),
}

// ExtractVideoID returns the 11-character video ID embedded in a watch,
// short-link or embed URL, or "" when none is found.
func ExtractVideoID(videoURL string) string {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(videoURL); m != nil {
			return m[1]
		}
	}
	return ""
}

var bareIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ResolveVideoID accepts either a bare video ID or any URL ExtractVideoID
// understands.
func ResolveVideoID(input string) string {
	if bareIDPattern.MatchString(input) {
		return input
	}
	return ExtractVideoID(input)
}
