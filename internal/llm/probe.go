package llm

import (
	"context"
	"fmt"
)

// ProbeText is the sample sent by TestConnection.
const ProbeText = "This is a test text to verify the API connection is working properly."

// TestConnection sends ProbeText and reports whether a summary came back.
func TestConnection(ctx context.Context, s Summarizer) error {
	if s == nil {
		return ErrNotConfigured
	}
	if _, err := s.Summarize(ctx, ProbeText); err != nil {
		return fmt.Errorf("%s connection test: %w", s.Name(), err)
	}
	return nil
}
