package keyphrase

import (
	"strings"

	"github.com/hyperifyio/tldr/internal/segment"
)

const (
	// MaxPhrases bounds the number of phrases returned by Extract.
	MaxPhrases = 4

	minChunkChars = 10
	maxChunkChars = 100
	windowWords   = 8
)

// Extract returns up to MaxPhrases phrases of the normalized text, in order.
// It prefers punctuation-delimited chunks whose trimmed length is strictly
// between 10 and 100 characters, and otherwise falls back to consecutive
// 8-word windows longer than 10 characters.
func Extract(text string) []string {
	var phrases []string
	for _, c := range segment.Chunks(text) {
		t := segment.Trim(c)
		if n := segment.Len(t); n > minChunkChars && n < maxChunkChars {
			phrases = append(phrases, t)
		}
	}
	if len(phrases) == 0 {
		phrases = windows(segment.Words(text))
	}
	if len(phrases) > MaxPhrases {
		phrases = phrases[:MaxPhrases]
	}
	return phrases
}

func windows(words []string) []string {
	var out []string
	for i := 0; i < len(words); i += windowWords {
		end := i + windowWords
		if end > len(words) {
			end = len(words)
		}
		chunk := segment.Trim(strings.Join(words[i:end], " "))
		if segment.Len(chunk) > minChunkChars {
			out = append(out, chunk)
		}
	}
	return out
}
