package score

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/hyperifyio/tldr/internal/segment"
)

// Weights of the additive signals.
const (
	idealWords      = 20.0
	lengthWeight    = 0.2
	boundaryBonus   = 0.3
	frequencyWeight = 0.1
	capitalWeight   = 0.15
	numericBonus    = 0.2
	acronymBonus    = 0.1
)

// ErrPattern is returned when a sentence token cannot be used as a search
// pattern for the frequency signal.
var ErrPattern = errors.New("token is not a valid search pattern")

var (
	capitalized = regexp.MustCompile(`[A-Z][a-z]+`)
	acronym     = regexp.MustCompile(`[A-Z]{2,}`)
)

// stopWords are excluded from the frequency signal.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {}, "should": {},
	"this": {}, "that": {}, "these": {}, "those": {},
}

type occurrence struct {
	count int
	err   error
}

// Scorer ranks sentences against one normalized document. It memoizes the
// per-token document scan; results are identical to scanning on every call.
// A Scorer is not safe for concurrent use.
type Scorer struct {
	lower      string
	boundaries []string
	seen       map[string]occurrence
}

// New prepares a Scorer for the normalized document text.
func New(text string) *Scorer {
	return &Scorer{
		lower:      strings.ToLower(text),
		boundaries: segment.Boundaries(text),
		seen:       make(map[string]occurrence),
	}
}

// Score returns the relevance of a trimmed sentence produced by
// segment.FilterSegment. Scores are only comparable within one document and
// may be negative.
//
// Explicit float64 conversions keep products from being fused into the sum.
func (s *Scorer) Score(sentence string) (float64, error) {
	var score float64
	words := segment.Words(strings.ToLower(sentence))

	lengthScore := 1 - math.Abs(float64(len(words))-idealWords)/idealWords
	score += float64(lengthScore * lengthWeight)

	if s.atBoundary(sentence) {
		score += boundaryBonus
	}

	for _, w := range words {
		if segment.Len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		n, err := s.occurrences(w)
		if err != nil {
			return 0, err
		}
		score += float64(float64(n) * frequencyWeight)
	}

	score += float64(float64(len(capitalized.FindAllStringIndex(sentence, -1))) * capitalWeight)
	if strings.ContainsAny(sentence, "0123456789") {
		score += numericBonus
	}
	if acronym.MatchString(sentence) {
		score += acronymBonus
	}
	return score, nil
}

// atBoundary locates the sentence in the independent terminal split by
// containment; the first containing piece wins, even when the sentence text
// repeats elsewhere in the document.
func (s *Scorer) atBoundary(sentence string) bool {
	pos := -1
	for i, piece := range s.boundaries {
		if strings.Contains(piece, sentence) {
			pos = i
			break
		}
	}
	return pos >= 0 && (pos == 0 || pos == len(s.boundaries)-1)
}

// occurrences counts matches of the token in the lowercased document. The
// token is used as a pattern as-is, without escaping, so metacharacters
// change what is counted and an invalid pattern fails the whole score.
func (s *Scorer) occurrences(token string) (int, error) {
	if o, ok := s.seen[token]; ok {
		return o.count, o.err
	}
	var o occurrence
	re, err := regexp.Compile(token)
	if err != nil {
		o.err = fmt.Errorf("%w: %q: %v", ErrPattern, token, err)
	} else {
		o.count = len(re.FindAllStringIndex(s.lower, -1))
	}
	s.seen[token] = o
	return o.count, o.err
}
