package segment

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalize_CollapsesAllWhitespace(t *testing.T) {
	in := "  Hello\t\tworld\n\nagain  now   "
	got := Normalize(in)
	if got != "Hello world again now" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if Normalize(" \n\t ") != "" {
		t.Fatalf("expected whitespace-only input to normalize to empty")
	}
}

func TestFullSegment_AttachesConsecutivePunctuation(t *testing.T) {
	got := FullSegment("Wait... What?! Fine. no end")
	want := []string{"Wait...", "What?!", "Fine.", "no end"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFullSegment_NoPunctuationIsOneSentence(t *testing.T) {
	got := FullSegment("just one long line of text")
	if len(got) != 1 || got[0] != "just one long line of text" {
		t.Fatalf("expected a single sentence, got %q", got)
	}
}

func TestFullSegment_OnlyPunctuationYieldsNothing(t *testing.T) {
	if got := FullSegment("...!?"); len(got) != 0 {
		t.Fatalf("expected no sentences, got %q", got)
	}
	if got := FullSegment(""); len(got) != 0 {
		t.Fatalf("expected no sentences for empty text, got %q", got)
	}
}

func TestFilterSegment_DropsShortPieces(t *testing.T) {
	got := FilterSegment("Hi. This sentence is long enough! Short one? Another long sentence here")
	want := []string{"This sentence is long enough", "Another long sentence here"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFilterSegment_BoundaryLength(t *testing.T) {
	// exactly 10 characters is dropped, 11 is kept
	got := FilterSegment("abcdefghij. abcdefghijk.")
	if len(got) != 1 || got[0] != "abcdefghijk" {
		t.Fatalf("unexpected pieces: %q", got)
	}
}

func TestFilterSegment_CountsCharactersNotBytes(t *testing.T) {
	// ten runes but more than ten bytes
	if got := FilterSegment(strings.Repeat("é", 10) + "."); len(got) != 0 {
		t.Fatalf("expected rune length to be used, got %q", got)
	}
}

func TestBoundaries_KeepsTrailingEmptyPiece(t *testing.T) {
	got := Boundaries("One. Two!")
	want := []string{"One", " Two", ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestChunks_SplitsOnEachSeparator(t *testing.T) {
	got := Chunks("a, b;c.d!e?f")
	want := []string{"a", " b", "c", "d", "e", "f"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWords(t *testing.T) {
	got := Words("one two  three")
	if len(got) != 3 {
		t.Fatalf("expected 3 words, got %q", got)
	}
	if len(Words("")) != 0 {
		t.Fatalf("expected no words for empty text")
	}
}
