package highlight

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Emphasis markers wrapped around highlighted tokens. Renderers depend on
// this literal form.
const (
	Open  = "<strong>"
	Close = "</strong>"
)

// MaxPerSentence caps distinct highlighted tokens in one sentence.
const MaxPerSentence = 4

const minTokenLen = 3

var (
	tokenPattern = regexp.MustCompile(`\b[\w']+\b`)
	termPattern  = regexp.MustCompile(`\b[a-z]{3,}\b`)
	// marked matches text already wrapped in markers so later replacements
	// never touch it.
	marked = regexp.MustCompile(regexp.QuoteMeta(Open) + `.*?` + regexp.QuoteMeta(Close))

	stripper = strings.NewReplacer(Open, "", Close, "")
)

// Candidate is a token eligible for highlighting, ranked by document
// frequency and then by length.
type Candidate struct {
	Token     string
	Frequency int
	Length    int
}

// Highlighter marks salient tokens of sentences taken from one document.
type Highlighter struct {
	freq map[string]int
}

// New builds the term frequency table of the normalized document text.
func New(text string) *Highlighter {
	freq := make(map[string]int)
	for _, w := range termPattern.FindAllString(strings.ToLower(text), -1) {
		freq[w]++
	}
	return &Highlighter{freq: freq}
}

// Frequency returns how often the lowercase term occurs in the document.
func (h *Highlighter) Frequency(term string) int {
	return h.freq[strings.ToLower(term)]
}

// Candidates returns the highlight candidates of sentence in rank order.
func (h *Highlighter) Candidates(sentence string) []Candidate {
	seen := make(map[string]struct{})
	var out []Candidate
	for _, w := range tokenPattern.FindAllString(sentence, -1) {
		if _, dup := seen[w]; dup || !h.eligible(w) {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, Candidate{Token: w, Frequency: h.Frequency(w), Length: len(w)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Length > out[j].Length
	})
	return out
}

func (h *Highlighter) eligible(w string) bool {
	lower := strings.ToLower(w)
	if stopWords.has(lower) || len(w) < minTokenLen {
		return false
	}
	switch {
	case isUpper(w[0]) && len(w) > 3:
		return true
	case h.freq[lower] >= 2:
		return true
	case strings.ContainsAny(w, "0123456789"):
		return true
	case allUpper(w):
		return true
	case len(w) >= 7:
		return true
	}
	return notable.has(lower)
}

// Apply wraps up to min(4, ceil(tokens/4)) distinct candidates of sentence in
// emphasis markers. Every whole-word occurrence of a candidate is wrapped
// but counts once against the cap. On failure the sentence is returned
// unchanged.
func (h *Highlighter) Apply(sentence string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("error", fmt.Sprint(r)).Msg("highlight failed; returning sentence unmodified")
			result = sentence
		}
	}()

	limit := (len(tokenPattern.FindAllStringIndex(sentence, -1)) + 3) / 4
	if limit > MaxPerSentence {
		limit = MaxPerSentence
	}
	result = sentence
	applied := 0
	for _, c := range h.Candidates(sentence) {
		if applied >= limit {
			break
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(c.Token) + `\b`)
		var ok bool
		if result, ok = wrapOutsideMarkers(result, re, Open+c.Token+Close); ok {
			applied++
		}
	}
	return result
}

// wrapOutsideMarkers replaces matches of re with repl in the parts of s that
// are not already highlighted.
func wrapOutsideMarkers(s string, re *regexp.Regexp, repl string) (string, bool) {
	var b strings.Builder
	changed := false
	last := 0
	apply := func(part string) {
		if re.MatchString(part) {
			changed = true
			part = re.ReplaceAllLiteralString(part, repl)
		}
		b.WriteString(part)
	}
	for _, m := range marked.FindAllStringIndex(s, -1) {
		apply(s[last:m[0]])
		b.WriteString(s[m[0]:m[1]])
		last = m[1]
	}
	apply(s[last:])
	return b.String(), changed
}

// Strip removes emphasis markers from a summary line.
func Strip(line string) string {
	return stripper.Replace(line)
}

// Count returns the number of distinct highlighted tokens in a line.
func Count(line string) int {
	seen := make(map[string]struct{})
	for _, m := range marked.FindAllString(line, -1) {
		seen[m] = struct{}{}
	}
	return len(seen)
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func allUpper(w string) bool {
	for i := 0; i < len(w); i++ {
		if !isUpper(w[i]) {
			return false
		}
	}
	return len(w) >= 2
}
