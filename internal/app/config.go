package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/tldr/internal/llm"
	"github.com/hyperifyio/tldr/internal/render"
	"github.com/hyperifyio/tldr/internal/summarize"
)

// Summarization modes. Remote modes fall back to the offline ranked policy
// when the provider fails.
const (
	ModeNLP  = "nlp"
	ModeBART = "bart"
	ModeLLM  = "llm"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Input. Exactly one of Text, URL and InputPath is used, in that order.
	// InputPath "-" reads stdin.
	InputPath string
	Text      string
	URL       string
	// InputHTML treats file or stdin input as HTML.
	InputHTML bool

	// Output. OutputPath "" or "-" writes to stdout.
	OutputPath   string
	Format       string
	PDFPath      string
	ShowOriginal bool

	// Summarization
	Mode   string
	Policy string

	// OpenAI-compatible endpoint for llm mode
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// HuggingFace inference for bart mode
	HFBaseURL string
	HFAPIKey  string
	HFModel   string

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	// Behavior
	UserAgent string
	Delay     time.Duration
	Verbose   bool
}

// Defaults used when neither flags, env, file config nor settings supply a value.
const (
	DefaultMode      = ModeNLP
	DefaultFormat    = string(render.FormatText)
	DefaultUserAgent = "tldr/1.0 (+https://github.com/hyperifyio/tldr)"
)

// ApplyDefaults fills fields that are still empty.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Mode == "" {
		cfg.Mode = DefaultMode
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.Policy == "" {
		cfg.Policy = string(summarize.PolicyRanked)
	}
	if cfg.HFModel == "" {
		cfg.HFModel = llm.DefaultHFModel
	}
	if cfg.HFBaseURL == "" {
		cfg.HFBaseURL = llm.DefaultHFBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
}

// ValidateConfig rejects unknown modes, policies and formats, and remote modes
// that lack credentials.
func ValidateConfig(cfg Config) error {
	if _, err := render.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := summarize.ParsePolicy(cfg.Policy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case ModeNLP, "":
	case ModeBART:
		if err := llm.ValidateHFKey(cfg.HFAPIKey); err != nil {
			return fmt.Errorf("config: bart mode needs a HuggingFace key (or set HF_API_KEY): %w", err)
		}
	case ModeLLM:
		if strings.TrimSpace(cfg.LLMModel) == "" {
			return errors.New("config: llm.model is required in llm mode (or set LLM_MODEL)")
		}
	default:
		return fmt.Errorf("config: unknown mode %q", cfg.Mode)
	}
	if cfg.CacheMaxAge < 0 || cfg.Delay < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	return nil
}
