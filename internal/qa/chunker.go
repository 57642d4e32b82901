// Package qa turns transcript text into educational question/answer pairs
// with a chat-completion model.
package qa

import "strings"

// DefaultChunkSize is the character budget of one chunk.
const DefaultChunkSize = 3000

// Chunk splits text into whitespace-normalized chunks of at most maxSize
// characters, breaking only between words. A single word longer than maxSize
// becomes a chunk of its own.
func Chunk(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}

	var chunks []string
	var current []string
	// size counts each word plus one separator.
	size := 0
	for _, word := range strings.Fields(text) {
		if size+len(word) > maxSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{word}
			size = len(word) + 1
			continue
		}
		current = append(current, word)
		size += len(word) + 1
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}
