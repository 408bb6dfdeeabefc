package summarize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/tldr/internal/highlight"
	"github.com/hyperifyio/tldr/internal/keyphrase"
	"github.com/hyperifyio/tldr/internal/score"
	"github.com/hyperifyio/tldr/internal/segment"
	sel "github.com/hyperifyio/tldr/internal/select"
)

// Placeholder lines returned instead of a summary.
const (
	NoContentMessage = "No meaningful content found to summarize."
	FailureMessage   = "Unable to generate summary. Please try with different text."
)

// Fault classes recovered by the pipeline. Callers of All, Ranked and Run never
// see them; Diagnose reports them.
var (
	ErrEmptyInput = errors.New("no usable sentences")
	ErrParse      = errors.New("parse failure")
	ErrUnexpected = errors.New("unexpected failure")
)

// Policy selects how sentences become summary lines.
type Policy string

const (
	// PolicyAll highlights every sentence, in order, without ranking.
	PolicyAll Policy = "all"
	// PolicyRanked keeps the highest scoring sentences, or key phrases for
	// very short text.
	PolicyRanked Policy = "ranked"
)

// ParsePolicy maps a user-supplied policy name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyAll, "full":
		return PolicyAll, nil
	case PolicyRanked, "", "nlp":
		return PolicyRanked, nil
	}
	return "", fmt.Errorf("unknown summary policy %q", s)
}

// shortTextSentences is the sentence count at or below which key phrases
// replace ranking.
const shortTextSentences = 2

// All returns one highlighted line per sentence of text.
func All(text string) []string { return Run(PolicyAll, text) }

// Ranked returns the highest scoring sentences of text in reading order.
func Ranked(text string) []string { return Run(PolicyRanked, text) }

// Run applies policy to text. It always returns at least one line; faults
// become a single placeholder line.
func Run(policy Policy, text string) []string {
	lines, err := run(policy, text)
	if err == nil {
		return lines
	}
	if errors.Is(err, ErrEmptyInput) {
		log.Debug().Str("policy", string(policy)).Msg("nothing to summarize")
		return []string{NoContentMessage}
	}
	log.Warn().Err(err).Str("policy", string(policy)).Msg("summarization failed")
	return []string{FailureMessage}
}

// Diagnose runs policy on text and returns the fault that Run would have
// replaced with a placeholder, or nil.
func Diagnose(policy Policy, text string) error {
	_, err := run(policy, text)
	return err
}

func run(policy Policy, text string) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
	}()

	clean := segment.Normalize(text)
	switch policy {
	case PolicyAll:
		return summarizeAll(clean)
	case PolicyRanked:
		return summarizeRanked(clean)
	}
	return nil, fmt.Errorf("%w: unknown policy %q", ErrUnexpected, policy)
}

func summarizeAll(clean string) ([]string, error) {
	sentences := segment.FullSegment(clean)
	if len(sentences) == 0 {
		return nil, ErrEmptyInput
	}
	return highlightAll(clean, sentences), nil
}

func summarizeRanked(clean string) ([]string, error) {
	sentences := segment.FilterSegment(clean)
	if len(sentences) == 0 {
		return nil, ErrEmptyInput
	}
	if len(sentences) <= shortTextSentences {
		phrases := keyphrase.Extract(clean)
		if len(phrases) == 0 {
			return nil, ErrEmptyInput
		}
		return highlightAll(clean, phrases), nil
	}

	scorer := score.New(clean)
	scored := make([]sel.Scored, 0, len(sentences))
	for _, s := range sentences {
		v, err := scorer.Score(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		scored = append(scored, sel.Scored{Text: s, Score: v})
	}
	top := sel.Select(scored, clean)
	log.Debug().Int("sentences", len(sentences)).Int("selected", len(top)).Msg("ranked summary")

	texts := make([]string, len(top))
	for i, s := range top {
		texts[i] = s.Text
	}
	return highlightAll(clean, texts), nil
}

func highlightAll(clean string, sentences []string) []string {
	h := highlight.New(clean)
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if line := h.Apply(s); line != "" {
			out = append(out, line)
		}
	}
	return out
}
