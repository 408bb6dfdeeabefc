package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const defaultSystemPrompt = "You summarize text. Reply with three to five short plain sentences that state the main points. Use only facts from the text. Do not add headings, lists or commentary."

// ChatSummarizer summarizes through a chat-completion model.
type ChatSummarizer struct {
	Client    Client
	ModelName string
	// SystemPrompt, when non-empty, overrides the default system message.
	SystemPrompt string
	// RetryDelay is the pause before the single retry of a failed call.
	RetryDelay time.Duration
}

func (s *ChatSummarizer) Name() string  { return "llm" }
func (s *ChatSummarizer) Model() string { return s.ModelName }

// Summarize asks the model for a summary. A failed call is retried once.
func (s *ChatSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if s.Client == nil || strings.TrimSpace(s.ModelName) == "" {
		return "", ErrNotConfigured
	}
	system := defaultSystemPrompt
	if strings.TrimSpace(s.SystemPrompt) != "" {
		system = s.SystemPrompt
	}
	req := openai.ChatCompletionRequest{
		Model: s.ModelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: "Summarize the following text:\n\n" + text},
		},
		Temperature: 0.1,
		N:           1,
	}
	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Debug().Err(err).Str("model", s.ModelName).Msg("chat completion failed; retrying once")
		if err := sleep(ctx, s.RetryDelay); err != nil {
			return "", err
		}
		resp, err = s.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("summary call (after retry): %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptySummary
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptySummary
	}
	return out, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
