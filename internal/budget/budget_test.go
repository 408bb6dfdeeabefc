package budget

import (
	"strings"
	"testing"
)

func TestEstimateTokensFromChars(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 0},
		{1, 1},
		{4, 1},
		{5, 2},
		{400, 100},
	}
	for _, c := range cases {
		if got := EstimateTokensFromChars(c.in); got != c.want {
			t.Fatalf("EstimateTokensFromChars(%d) = %d, want %d", c.in, got, c.want)
		}
	}
	if EstimateTokens("éééé") != 1 {
		t.Fatalf("tokens are estimated from characters, not bytes")
	}
}

func TestModelContextTokens(t *testing.T) {
	if ModelContextTokens("") != 8192 {
		t.Fatal("empty model should default to 8192")
	}
	if ModelContextTokens("facebook/bart-large-cnn") != 1024 {
		t.Fatal("bart-large-cnn has a 1024 token window")
	}
	if ModelContextTokens("my-org/bart-finetune") != 1024 {
		t.Fatal("bart variants should use the bart window")
	}
	if ModelContextTokens("qwen-128k") != 128_000 {
		t.Fatal("128k suffix should map to 128000")
	}
}

func TestInputChars(t *testing.T) {
	// 1024 - 200 reserved - 64 headroom = 760 tokens
	if got := InputChars("facebook/bart-large-cnn", 200); got != 760*4 {
		t.Fatalf("InputChars = %d, want %d", got, 760*4)
	}
	if InputChars("google/pegasus-xsum", 10_000) != 0 {
		t.Fatal("over-reserved budget should be zero")
	}
}

func TestFit(t *testing.T) {
	text := "First sentence here. Second sentence is a bit longer than the first."
	got, cut := Fit(text, 40)
	if !cut || got != "First sentence here." {
		t.Fatalf("got %q cut=%v", got, cut)
	}
	got, cut = Fit(strings.Repeat("word ", 20), 23)
	if !cut || got != "word word word word" {
		t.Fatalf("word boundary cut: got %q", got)
	}
	if got, cut := Fit(text, 0); cut || got != text {
		t.Fatalf("zero limit must leave text alone")
	}
}
