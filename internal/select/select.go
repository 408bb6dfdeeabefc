package selecter

import (
	"math"
	"sort"
	"strings"
)

const (
	minSelected   = 2
	maxSelected   = 5
	selectedRatio = 0.3
)

// Scored is a sentence with its relevance score.
type Scored struct {
	Text  string
	Score float64
}

// Count returns how many of n sentences make it into a summary:
// ceil(0.3*n) clamped to [2, 5].
func Count(n int) int {
	c := int(math.Ceil(float64(n) * selectedRatio))
	if c < minSelected {
		c = minSelected
	}
	if c > maxSelected {
		c = maxSelected
	}
	return c
}

// Select keeps the Count(len(sentences)) highest scoring sentences and
// returns them in reading order. Equal scores keep their input order; the
// reading order is the first occurrence of each sentence in text.
func Select(sentences []Scored, text string) []Scored {
	ranked := make([]Scored, len(sentences))
	copy(ranked, sentences)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	n := Count(len(sentences))
	if n > len(ranked) {
		n = len(ranked)
	}
	top := ranked[:n]
	sort.SliceStable(top, func(i, j int) bool {
		return strings.Index(text, top[i].Text) < strings.Index(text, top[j].Text)
	})
	return top
}
