package llm

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal chat-completion surface used by ChatSummarizer. Any
// OpenAI-compatible backend can be adapted to it.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider adapts *openai.Client to Client.
type OpenAIProvider struct {
	Inner *openai.Client
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return p.Inner.CreateChatCompletion(ctx, request)
}

// NewOpenAIProvider builds a provider for an OpenAI-compatible endpoint. A nil
// httpClient uses the library default.
func NewOpenAIProvider(baseURL, apiKey string, httpClient *http.Client) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIProvider{Inner: openai.NewClientWithConfig(cfg)}
}

// Summarizer produces an abstractive summary of text.
type Summarizer interface {
	// Name identifies the provider, for example "bart" or "llm".
	Name() string
	// Model is the remote model identifier.
	Model() string
	Summarize(ctx context.Context, text string) (string, error)
}

// Remote failure classes.
var (
	ErrUnauthorized  = errors.New("invalid API key")
	ErrRateLimited   = errors.New("rate limit exceeded, try again later")
	ErrModelLoading  = errors.New("model is loading, try again in a few moments")
	ErrEmptySummary  = errors.New("no summary in response")
	ErrInvalidKey    = errors.New("bad API key")
	ErrNotConfigured = errors.New("summarizer not configured")
)
