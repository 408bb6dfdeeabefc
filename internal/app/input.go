package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/tldr/internal/extract"
	"github.com/hyperifyio/tldr/internal/segment"
)

// ErrNoInput is returned when no usable text was supplied.
var ErrNoInput = errors.New("no text selected")

// MinInputChars is the trimmed length input must exceed.
const MinInputChars = 10

const maxInputBytes = 8 << 20

// readInput returns the text to summarize from the configured source.
func (a *App) readInput(ctx context.Context) (string, error) {
	var text string
	switch {
	case a.cfg.Text != "":
		text = a.cfg.Text
	case a.cfg.URL != "":
		page, err := a.fetcher.Get(ctx, a.cfg.URL)
		if err != nil {
			return "", fmt.Errorf("fetch %s: %w", a.cfg.URL, err)
		}
		if page.IsHTML() {
			doc := extract.FromHTML(page.Body)
			log.Debug().Str("title", doc.Title).Int("blocks", len(doc.Blocks)).Msg("extracted page")
			text = doc.Text()
		} else {
			text = string(page.Body)
		}
	case a.cfg.InputPath != "":
		b, err := a.readSource(a.cfg.InputPath)
		if err != nil {
			return "", err
		}
		if a.cfg.InputHTML {
			text = htmlText(b)
		} else {
			text = string(b)
		}
	default:
		return "", ErrNoInput
	}
	if segment.Len(segment.Trim(text)) <= MinInputChars {
		return "", ErrNoInput
	}
	return text, nil
}

func (a *App) readSource(path string) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = a.stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(io.LimitReader(r, maxInputBytes))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return []byte(strings.ToValidUTF8(string(b), "�")), nil
}

// htmlText extracts a full page when the input has document markup and treats
// it as a copied selection otherwise.
func htmlText(b []byte) string {
	head := strings.ToLower(string(b[:min(len(b), 1024)]))
	if strings.Contains(head, "<html") || strings.Contains(head, "<body") || strings.Contains(head, "<!doctype") {
		return extract.FromHTML(b).Text()
	}
	return extract.FromFragment(b).Text()
}
