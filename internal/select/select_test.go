package selecter

import (
	"testing"
)

func TestCount_Clamps(t *testing.T) {
	// 10 and 20 land exactly on integers; 13 and 14 sit just either side of a step.
	cases := map[int]int{0: 2, 1: 2, 3: 2, 7: 3, 10: 3, 13: 4, 14: 5, 20: 5, 40: 5}
	for n, want := range cases {
		if got := Count(n); got != want {
			t.Fatalf("Count(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestSelect_TopScoresInReadingOrder(t *testing.T) {
	text := "alpha one. beta two. gamma three. delta four."
	in := []Scored{
		{Text: "alpha one", Score: 0.1},
		{Text: "beta two", Score: 0.9},
		{Text: "gamma three", Score: 0.2},
		{Text: "delta four", Score: 0.8},
	}
	out := Select(in, text)
	if len(out) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(out))
	}
	if out[0].Text != "beta two" || out[1].Text != "delta four" {
		t.Fatalf("unexpected selection %v", out)
	}
}

func TestSelect_TiesKeepInputOrder(t *testing.T) {
	text := "first item. second item. third item. fourth item."
	in := []Scored{
		{Text: "first item", Score: 0.5},
		{Text: "second item", Score: 0.5},
		{Text: "third item", Score: 0.5},
		{Text: "fourth item", Score: 0.5},
	}
	out := Select(in, text)
	if len(out) != 2 || out[0].Text != "first item" || out[1].Text != "second item" {
		t.Fatalf("expected the first two tied sentences, got %v", out)
	}
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	in := []Scored{{Text: "a", Score: 1}, {Text: "b", Score: 2}, {Text: "c", Score: 3}}
	_ = Select(in, "a b c")
	if in[0].Text != "a" || in[2].Text != "c" {
		t.Fatalf("input was reordered: %v", in)
	}
}
