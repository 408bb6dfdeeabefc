package highlight

type set map[string]struct{}

func newSet(words ...string) set {
	s := make(set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// stopWords are never highlighted.
var stopWords = newSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "had", "was", "one", "our", "has", "have",
	"this", "that", "with", "from", "they", "she", "her", "his", "him", "been", "than", "who", "oil", "its",
	"now", "find", "may", "say", "use", "way", "will", "each", "which", "their", "time", "what", "about",
	"would", "there", "could", "other", "after", "first", "well", "also", "new", "want", "because", "any",
	"these", "give", "day", "most", "us", "or", "just", "where", "much", "good", "some", "come", "very",
	"when", "how", "many", "them", "being", "if", "should", "said", "get", "here", "more", "like", "take",
	"into", "year", "your", "know", "work", "only", "think", "over", "back", "see", "go",
	"make", "even", "before", "look", "too", "means", "people", "such", "through", "under", "does",
)

// notable are business and technical terms that are always worth a highlight.
var notable = newSet(
	"developed", "created", "implemented", "designed", "built", "established", "achieved", "improved",
	"increased", "decreased", "reduced", "enhanced", "optimized", "launched", "published", "completed",
	"successful", "effective", "significant", "important", "critical", "essential", "innovative",
	"advanced", "revolutionary", "breakthrough", "solution", "problem", "challenge", "opportunity",
	"strategy", "approach", "method", "technique", "process", "system", "technology", "platform",
	"framework", "model", "theory", "concept", "principle", "factor", "element", "component", "feature",
	"benefit", "advantage", "result", "outcome", "impact", "effect", "consequence",
)

func (s set) has(w string) bool {
	_, ok := s[w]
	return ok
}
