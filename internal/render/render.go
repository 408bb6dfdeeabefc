package render

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/hyperifyio/tldr/internal/highlight"
)

// Format names an output encoding for summary lines.
type Format string

const (
	FormatHTML     Format = "html"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt", "plain":
		return FormatText, nil
	case "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// OriginalPreviewChars is the length of the original-text header.
const OriginalPreviewChars = 200

// Document is a rendered summary.
type Document struct {
	// Source identifies what produced the lines: nlp, nlp-fallback, bart or llm.
	Source string
	// Original, when set, is shown as a truncated header.
	Original string
	Lines    []string
}

// Preview returns the first OriginalPreviewChars characters of s followed by
// "..." when s is longer.
func Preview(s string) string {
	r := []rune(s)
	if len(r) <= OriginalPreviewChars {
		return s
	}
	return string(r[:OriginalPreviewChars]) + "..."
}

// Write encodes doc to w in format f.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatHTML:
		return writeHTML(w, doc)
	case FormatMarkdown:
		return writeMarkdown(w, doc)
	case FormatJSON:
		return writeJSON(w, doc)
	case FormatText, "":
		return writeText(w, doc)
	}
	return fmt.Errorf("unknown output format %q", f)
}

func writeText(w io.Writer, doc Document) error {
	var b strings.Builder
	if doc.Original != "" {
		b.WriteString("Original: ")
		b.WriteString(Preview(doc.Original))
		b.WriteString("\n\n")
	}
	for _, l := range doc.Lines {
		b.WriteString("• ")
		b.WriteString(highlight.Strip(l))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdown(w io.Writer, doc Document) error {
	var b strings.Builder
	if doc.Original != "" {
		b.WriteString("> ")
		b.WriteString(Preview(doc.Original))
		b.WriteString("\n\n")
	}
	md := strings.NewReplacer(highlight.Open, "**", highlight.Close, "**")
	for _, l := range doc.Lines {
		b.WriteString("- ")
		b.WriteString(md.Replace(l))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeHTML(w io.Writer, doc Document) error {
	var b strings.Builder
	if doc.Original != "" {
		b.WriteString(`<p class="original">`)
		b.WriteString(html.EscapeString(Preview(doc.Original)))
		b.WriteString("</p>\n")
	}
	b.WriteString("<ul>\n")
	for _, l := range doc.Lines {
		b.WriteString("<li>")
		for _, r := range Runs(l) {
			if r.Bold {
				b.WriteString(highlight.Open)
				b.WriteString(html.EscapeString(r.Text))
				b.WriteString(highlight.Close)
				continue
			}
			b.WriteString(html.EscapeString(r.Text))
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, doc Document) error {
	out := struct {
		Source   string   `json:"source"`
		Original string   `json:"original,omitempty"`
		Lines    []string `json:"lines"`
	}{Source: doc.Source, Lines: doc.Lines}
	if doc.Original != "" {
		out.Original = Preview(doc.Original)
	}
	if out.Lines == nil {
		out.Lines = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// Run is a span of a summary line with or without emphasis.
type Run struct {
	Text string
	Bold bool
}

// Runs splits a highlighted line into plain and emphasized spans.
func Runs(line string) []Run {
	var out []Run
	for line != "" {
		i := strings.Index(line, highlight.Open)
		if i < 0 {
			out = append(out, Run{Text: line})
			break
		}
		rest := line[i+len(highlight.Open):]
		j := strings.Index(rest, highlight.Close)
		if j < 0 {
			out = append(out, Run{Text: line})
			break
		}
		if i > 0 {
			out = append(out, Run{Text: line[:i]})
		}
		out = append(out, Run{Text: rest[:j], Bold: true})
		line = rest[j+len(highlight.Close):]
	}
	return out
}
