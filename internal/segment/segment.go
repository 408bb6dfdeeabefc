package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Pattern contract shared by every policy in this package:
//
//   - whitespace is the set accepted by IsSpace, nothing else
//   - terminal punctuation is exactly '.', '!' and '?'
//   - chunk separators are terminal punctuation plus ',' and ';'
//
// Lengths are measured in characters (runes), never bytes.
var (
	// sentenceRun matches a maximal run of non-terminal characters followed
	// by any number of terminal marks, so "..." or "?!" stay attached.
	sentenceRun = regexp.MustCompile(`[^.!?]+[.!?]*`)
	// terminalRun matches one or more consecutive terminal marks.
	terminalRun = regexp.MustCompile(`[.!?]+`)
)

// MinSentenceChars is the exclusive lower bound on the trimmed length of a
// sentence kept by FilterSegment.
const MinSentenceChars = 10

// IsSpace reports whether r counts as whitespace for normalization and
// word splitting.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

// Trim removes leading and trailing whitespace as defined by IsSpace.
func Trim(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

// Len returns the length of s in characters.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Normalize collapses every whitespace run into a single space and trims the
// result. All other segmentation functions expect normalized input.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// FullSegment returns every sentence of text with its terminal punctuation
// attached. Text without terminal punctuation is a single sentence. Empty
// matches are dropped; nothing else is.
func FullSegment(text string) []string {
	matches := sentenceRun.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := Trim(m); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FilterSegment splits text on runs of terminal punctuation, discarding the
// punctuation, and keeps trimmed pieces longer than MinSentenceChars.
func FilterSegment(text string) []string {
	pieces := terminalRun.Split(text, -1)
	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		s := Trim(p)
		if Len(s) > MinSentenceChars {
			out = append(out, s)
		}
	}
	return out
}

// Boundaries returns the raw, untrimmed pieces of splitting text on terminal
// punctuation runs. Empty leading and trailing pieces are kept, so the last
// element is "" whenever text ends in punctuation.
func Boundaries(text string) []string {
	return terminalRun.Split(text, -1)
}

// Chunks splits text on each single occurrence of ',', ';', '.', '!' or '?'.
// Pieces are untrimmed; empty pieces are omitted.
func Chunks(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ',', ';', '.', '!', '?':
			return true
		}
		return false
	})
}

// Words splits text on whitespace runs.
func Words(text string) []string {
	return strings.FieldsFunc(text, IsSpace)
}
