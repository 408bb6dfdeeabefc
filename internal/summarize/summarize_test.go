package summarize

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperifyio/tldr/internal/highlight"
	"github.com/hyperifyio/tldr/internal/segment"
)

const launchText = "The API was launched in 2023 and improved by 40%. It was a significant breakthrough for the team."

const acmeText = `Acme Corporation announced a new cloud platform on Monday.   The platform lets developers deploy services in seconds!
Analysts said the launch could reshape the market for small businesses. Acme reported revenue of 12 billion dollars last year.
Competitors such as Globex have not responded yet? The company expects the platform to reach one million users by 2026.
Some customers remain cautious about migrating existing workloads. Acme says its platform strategy is a significant breakthrough for the industry.
`

func TestAll_LaunchExample(t *testing.T) {
	got := All(launchText)
	want := []string{
		"The <strong>API</strong> was <strong>launched</strong> in 2023 and <strong>improved</strong> by 40%.",
		"It was a <strong>significant</strong> <strong>breakthrough</strong> for the team.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

// Notable terms are highlighted by the summarize-all policy too, even when
// short, lowercase and seen once.
func TestAll_NotableVocabulary(t *testing.T) {
	got := All("The system works well today.")
	want := []string{"The <strong>system</strong> works well today."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRanked_ShortTextUsesKeyPhrases(t *testing.T) {
	got := Ranked(launchText)
	want := []string{
		"The <strong>API</strong> was <strong>launched</strong> in 2023 and <strong>improved</strong> by 40%",
		"It was a <strong>significant</strong> <strong>breakthrough</strong> for the team",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

// Golden outputs for both policies over a multi-line document.
func TestGolden_Acme(t *testing.T) {
	wantAll := []string{
		"<strong>Acme</strong> <strong>Corporation</strong> announced a new cloud <strong>platform</strong> on Monday.",
		"The <strong>platform</strong> lets <strong>developers</strong> deploy services in seconds!",
		"<strong>Analysts</strong> said the launch could <strong>reshape</strong> the market for small <strong>businesses</strong>.",
		"<strong>Acme</strong> <strong>reported</strong> <strong>revenue</strong> of 12 billion dollars last year.",
		"<strong>Competitors</strong> such as Globex have not <strong>responded</strong> yet?",
		"The <strong>company</strong> <strong>expects</strong> the <strong>platform</strong> to reach one million users by 2026.",
		"Some <strong>customers</strong> remain cautious about <strong>migrating</strong> existing workloads.",
		"<strong>Acme</strong> says its <strong>platform</strong> strategy is a significant <strong>breakthrough</strong> for the industry.",
	}
	wantRanked := []string{
		"<strong>Acme</strong> <strong>Corporation</strong> announced a new cloud <strong>platform</strong> on Monday",
		"The <strong>company</strong> <strong>expects</strong> the <strong>platform</strong> to reach one million users by 2026",
		"<strong>Acme</strong> says its <strong>platform</strong> strategy is a significant <strong>breakthrough</strong> for the industry",
	}
	if got := All(acmeText); !reflect.DeepEqual(got, wantAll) {
		t.Fatalf("all:\n got %q\nwant %q", got, wantAll)
	}
	if got := Ranked(acmeText); !reflect.DeepEqual(got, wantRanked) {
		t.Fatalf("ranked:\n got %q\nwant %q", got, wantRanked)
	}
}

func TestPlaceholder_WhitespaceOnly(t *testing.T) {
	for _, p := range []Policy{PolicyAll, PolicyRanked} {
		got := Run(p, " \n\t  ")
		if len(got) != 1 || got[0] != NoContentMessage {
			t.Fatalf("%s: expected placeholder, got %q", p, got)
		}
		if err := Diagnose(p, "   "); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("%s: expected ErrEmptyInput, got %v", p, err)
		}
	}
}

func TestRanked_TooShortSentence(t *testing.T) {
	got := Ranked("Hi.")
	if len(got) != 1 || got[0] != NoContentMessage {
		t.Fatalf("expected placeholder, got %q", got)
	}
	// the full policy keeps short sentences
	if got := All("Hi."); len(got) != 1 || got[0] != "Hi." {
		t.Fatalf("expected the sentence itself, got %q", got)
	}
}

func TestRanked_InvalidPatternBecomesFailureLine(t *testing.T) {
	text := "First sentence is fine here. Second one mentions (unbalanced text. Third sentence closes it."
	got := Ranked(text)
	if len(got) != 1 || got[0] != FailureMessage {
		t.Fatalf("expected failure placeholder, got %q", got)
	}
	if err := Diagnose(PolicyRanked, text); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestRanked_LineCountBounds(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("Sentence number ")
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString(" talks about distributed systems. ")
	}
	got := Ranked(b.String())
	if len(got) != 5 {
		t.Fatalf("expected 5 lines for 30 sentences, got %d", len(got))
	}
	got = Ranked("One long sentence goes here. Another long sentence here. Third long sentence here.")
	if len(got) != 2 {
		t.Fatalf("expected 2 lines for 3 sentences, got %d", len(got))
	}
}

func TestRanked_PreservesReadingOrder(t *testing.T) {
	clean := segment.Normalize(acmeText)
	last := -1
	for _, line := range Ranked(acmeText) {
		idx := strings.Index(clean, highlight.Strip(line))
		if idx < 0 {
			t.Fatalf("line is not a substring of the input: %q", line)
		}
		if idx <= last {
			t.Fatalf("line out of order: %q", line)
		}
		last = idx
	}
}

func TestHighlightSafety(t *testing.T) {
	for _, text := range []string{launchText, acmeText} {
		clean := segment.Normalize(text)
		for _, p := range []Policy{PolicyAll, PolicyRanked} {
			for _, line := range Run(p, text) {
				if !strings.Contains(clean, highlight.Strip(line)) {
					t.Fatalf("%s: stripped line not in input: %q", p, line)
				}
				if n := highlight.Count(line); n > highlight.MaxPerSentence {
					t.Fatalf("%s: %d highlights in %q", p, n, line)
				}
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	for _, p := range []Policy{PolicyAll, PolicyRanked} {
		a := Run(p, acmeText)
		b := Run(p, acmeText)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("%s: non-deterministic output", p)
		}
	}
}

func TestAll_OneLinePerSentence(t *testing.T) {
	got := All(acmeText)
	if len(got) != len(segment.FullSegment(segment.Normalize(acmeText))) {
		t.Fatalf("expected one line per sentence, got %d", len(got))
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy("ALL"); err != nil || p != PolicyAll {
		t.Fatalf("expected all, got %q %v", p, err)
	}
	if p, err := ParsePolicy(""); err != nil || p != PolicyRanked {
		t.Fatalf("expected ranked default, got %q %v", p, err)
	}
	if _, err := ParsePolicy("abstractive"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
	if got := Run(Policy("bogus"), launchText); len(got) != 1 || got[0] != FailureMessage {
		t.Fatalf("expected failure line for unknown policy, got %q", got)
	}
}
