package score

import (
	"errors"
	"math"
	"testing"
)

const doc = "Go is fast. The Go compiler builds programs quickly. Developers love Go and use it daily."

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScore_Signals(t *testing.T) {
	s := New(doc)
	cases := []struct {
		sentence string
		want     float64
	}{
		// 3 words, first piece, "fast" once, one capitalized word
		{"Go is fast", 0.03 + 0.3 + 0.1 + 0.15},
		// 6 words, middle piece, four meaningful words seen once, "The" and "Go"
		{"The Go compiler builds programs quickly", 0.06 + 0.4 + 0.3},
	}
	for _, tc := range cases {
		got, err := s.Score(tc.sentence)
		if err != nil {
			t.Fatalf("score %q: %v", tc.sentence, err)
		}
		if !approx(got, tc.want) {
			t.Fatalf("score %q = %v, want %v", tc.sentence, got, tc.want)
		}
	}
}

func TestScore_LastPieceOnlyWhenTextLacksFinalPunctuation(t *testing.T) {
	withDot := New("First sentence here. Last sentence here.")
	without := New("First sentence here. Last sentence here")
	a, err := withDot.Score("Last sentence here")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	b, err := without.Score("Last sentence here")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if !approx(b-a, 0.3) {
		t.Fatalf("expected boundary bonus only without trailing punctuation: %v vs %v", a, b)
	}
}

func TestScore_FrequencyCountsSubstrings(t *testing.T) {
	text := "Data and metadata matter"
	got, err := New(text).Score(text)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	// "data" is counted twice because it also occurs inside "metadata"
	want := 0.04 + 0.3 + 0.2 + 0.1 + 0.1 + 0.15
	if !approx(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestScore_NumericAndAcronymBonus(t *testing.T) {
	s := New("plain words only here now")
	base, _ := s.Score("plain words only here now")
	s2 := New("plain words only NASA 2024")
	got, _ := s2.Score("plain words only NASA 2024")
	// NASA: acronym +0.1, no [A-Z][a-z]+ match; 2024: numeric +0.2.
	// "nasa" and "2024" add one meaningful word over "here" and "now".
	if !approx(got-base, 0.1+0.2+0.1) {
		t.Fatalf("unexpected bonus delta: %v", got-base)
	}
}

func TestScore_InvalidPatternToken(t *testing.T) {
	text := "Something (note here"
	_, err := New(text).Score(text)
	if !errors.Is(err, ErrPattern) {
		t.Fatalf("expected ErrPattern, got %v", err)
	}
}

func TestScore_MemoizedMatchesFresh(t *testing.T) {
	s := New(doc)
	first, _ := s.Score("Developers love Go and use it daily")
	second, _ := s.Score("Developers love Go and use it daily")
	fresh, _ := New(doc).Score("Developers love Go and use it daily")
	if first != second || first != fresh {
		t.Fatalf("memoized scores differ: %v %v %v", first, second, fresh)
	}
}

func BenchmarkScore(b *testing.B) {
	text := ""
	for i := 0; i < 200; i++ {
		text += "The Go compiler builds programs quickly and developers ship features daily. "
	}
	sentence := "The Go compiler builds programs quickly and developers ship features daily"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := New(text).Score(sentence); err != nil {
			b.Fatal(err)
		}
	}
}
