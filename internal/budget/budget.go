package budget

import (
	"math"
	"strings"

	"github.com/hyperifyio/tldr/internal/segment"
)

// EstimateTokensFromChars converts a character count into an estimated token
// count at roughly four characters per token, rounded up.
func EstimateTokensFromChars(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / 4.0))
}

// EstimateTokens returns the estimated token count of s.
func EstimateTokens(s string) int {
	return EstimateTokensFromChars(segment.Len(s))
}

const defaultContext = 8192

// ModelContextTokens returns an estimated input window for a model name.
// Unknown models fall back to 8192.
func ModelContextTokens(modelName string) int {
	name := strings.ToLower(strings.TrimSpace(modelName))
	if v, ok := knownModelMax[name]; ok {
		return v
	}
	switch {
	case strings.Contains(name, "bart"), strings.Contains(name, "pegasus"):
		return 1024
	case strings.HasSuffix(name, "128k"), strings.Contains(name, "-mini"):
		return 128_000
	case strings.HasSuffix(name, "32k"):
		return 32_768
	}
	return defaultContext
}

// InputChars returns how many characters of input fit model's window after
// reserving reservedForOutput tokens and a headroom of 5% (at least 64
// tokens) for framing.
func InputChars(modelName string, reservedForOutput int) int {
	max := ModelContextTokens(modelName)
	headroom := int(math.Ceil(float64(max) * 0.05))
	if headroom < 64 {
		headroom = 64
	}
	if reservedForOutput < 0 {
		reservedForOutput = 0
	}
	remaining := max - reservedForOutput - headroom
	if remaining <= 0 {
		return 0
	}
	return remaining * 4
}

// Fit shortens text to at most maxChars characters, cutting after the last
// sentence terminator in its last two thirds or, failing that, the last
// space inside the limit. It reports whether text was shortened.
func Fit(text string, maxChars int) (string, bool) {
	r := []rune(text)
	if maxChars <= 0 || len(r) <= maxChars {
		return text, false
	}
	head := string(r[:maxChars])
	if i := strings.LastIndexAny(head, ".!?"); i >= 0 && i+1 >= len(head)/3 {
		return head[:i+1], true
	}
	if i := strings.LastIndexByte(head, ' '); i > 0 {
		return strings.TrimRight(head[:i], " "), true
	}
	return head, true
}

// knownModelMax holds rough context sizes for common model identifiers.
var knownModelMax = map[string]int{
	"facebook/bart-large-cnn":       1024,
	"sshleifer/distilbart-cnn-12-6": 1024,
	"google/pegasus-xsum":           512,
	"gpt-4o":                        128_000,
	"gpt-4o-mini":                   128_000,
	"gpt-3.5-turbo":                 16_384,
	"llama-3":                       8_192,
	"llama-3.1":                     128_000,
	"gpt-oss-20b":                   4_096,
	"openai/gpt-oss-20b":            4_096,
}
