package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/tldr/internal/budget"
	"github.com/hyperifyio/tldr/internal/cache"
	"github.com/hyperifyio/tldr/internal/fetch"
	"github.com/hyperifyio/tldr/internal/llm"
	"github.com/hyperifyio/tldr/internal/render"
	"github.com/hyperifyio/tldr/internal/segment"
	"github.com/hyperifyio/tldr/internal/summarize"
)

// Result sources.
const (
	SourceNLP         = "nlp"
	SourceNLPFallback = "nlp-fallback"
)

// Result is a summary ready for rendering.
type Result struct {
	// Source is nlp, nlp-fallback, or the remote provider name.
	Source string
	Lines  []string
}

// App runs one summarization from input to rendered output.
type App struct {
	cfg     Config
	policy  summarize.Policy
	format  render.Format
	remote  llm.Summarizer
	cache   *cache.SummaryCache
	fetcher *fetch.Client

	stdin  io.Reader
	stdout io.Writer
}

// New validates cfg and wires the fetcher, caches and remote provider.
func New(cfg Config) (*App, error) {
	ApplyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	policy, _ := summarize.ParsePolicy(cfg.Policy)
	format, _ := render.ParseFormat(cfg.Format)
	hc := newHTTPClient()

	a := &App{
		cfg:    cfg,
		policy: policy,
		format: format,
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}

	var httpCache *cache.HTTPCache
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			// ignore errors to avoid failing startup
			if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err == nil && n > 0 {
				log.Debug().Int("removed", n).Msg("purged stale cache entries")
			}
		}
		httpCache = &cache.HTTPCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
		a.cache = &cache.SummaryCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}
	a.fetcher = &fetch.Client{
		HTTPClient:        hc,
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       2,
		PerRequestTimeout: 15 * time.Second,
		Cache:             httpCache,
	}
	a.remote = newRemote(cfg, hc)
	return a, nil
}

func newRemote(cfg Config, hc *http.Client) llm.Summarizer {
	switch strings.ToLower(cfg.Mode) {
	case ModeBART:
		h := llm.NewHuggingFace(cfg.HFAPIKey)
		h.HTTPClient = hc
		h.BaseURL = cfg.HFBaseURL
		h.ModelName = cfg.HFModel
		return h
	case ModeLLM:
		return &llm.ChatSummarizer{
			Client:     llm.NewOpenAIProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, hc),
			ModelName:  cfg.LLMModel,
			RetryDelay: 100 * time.Millisecond,
		}
	}
	return nil
}

// SetStdio replaces the reader used for "-" input and the writer used when
// no output path is set.
func (a *App) SetStdio(in io.Reader, out io.Writer) {
	a.stdin, a.stdout = in, out
}

// Close releases resources held by the app.
func (a *App) Close() {
	if a.fetcher != nil && a.fetcher.HTTPClient != nil {
		a.fetcher.HTTPClient.CloseIdleConnections()
	}
}

// Run reads the input, summarizes it and writes the configured outputs.
func (a *App) Run(ctx context.Context) error {
	text, err := a.readInput(ctx)
	if err != nil {
		return err
	}
	res := a.Summarize(ctx, text)
	log.Info().Str("source", res.Source).Int("lines", len(res.Lines)).Msg("summary ready")

	if err := sleep(ctx, a.cfg.Delay); err != nil {
		return err
	}

	doc := render.Document{Source: res.Source, Lines: res.Lines}
	if a.cfg.ShowOriginal {
		doc.Original = segment.Normalize(text)
	}
	if err := a.writeOutput(doc); err != nil {
		return err
	}
	if a.cfg.PDFPath != "" {
		if err := render.WritePDF(doc, a.cfg.PDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", a.cfg.PDFPath).Msg("wrote pdf")
	}
	return nil
}

func (a *App) writeOutput(doc render.Document) error {
	if a.cfg.OutputPath == "" || a.cfg.OutputPath == "-" {
		return render.Write(a.stdout, a.format, doc)
	}
	f, err := os.Create(a.cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := render.Write(f, a.format, doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}

// Summarize produces summary lines for text in the configured mode. It never
// fails: remote errors fall back to the offline ranked policy.
func (a *App) Summarize(ctx context.Context, text string) Result {
	if a.remote == nil {
		return Result{Source: SourceNLP, Lines: summarize.Run(a.policy, text)}
	}
	clean := segment.Normalize(text)
	summary, err := a.remoteSummary(ctx, clean)
	if err == nil {
		if lines := segment.FullSegment(segment.Normalize(summary)); len(lines) > 0 {
			return Result{Source: a.remote.Name(), Lines: lines}
		}
		err = llm.ErrEmptySummary
	}
	log.Warn().Err(err).Str("provider", a.remote.Name()).Msg("remote summary failed; using offline summary")
	return Result{Source: SourceNLPFallback, Lines: summarize.Ranked(text)}
}

// reservedOutputTokens matches the HuggingFace max_length parameter.
const reservedOutputTokens = 200

func (a *App) remoteSummary(ctx context.Context, clean string) (string, error) {
	if fitted, cut := budget.Fit(clean, budget.InputChars(a.remote.Model(), reservedOutputTokens)); cut {
		log.Debug().Int("tokens", budget.EstimateTokens(clean)).Str("model", a.remote.Model()).Msg("input shortened to fit model context")
		clean = fitted
	}
	var key string
	if a.cache != nil {
		key = cache.SummaryKey(a.remote.Name(), a.remote.Model(), clean)
		if e, ok, err := a.cache.Get(ctx, key); err == nil && ok && strings.TrimSpace(e.Summary) != "" {
			log.Debug().Str("provider", e.Provider).Msg("summary cache hit")
			return e.Summary, nil
		}
	}
	summary, err := a.remote.Summarize(ctx, clean)
	if err != nil {
		return "", err
	}
	if a.cache != nil {
		entry := cache.SummaryEntry{Provider: a.remote.Name(), Model: a.remote.Model(), Summary: summary}
		if err := a.cache.Save(ctx, key, entry); err != nil {
			log.Warn().Err(err).Msg("summary cache write failed")
		}
	}
	return summary, nil
}

// ErrOfflineMode is returned by TestConnection when no remote provider is
// configured.
var ErrOfflineMode = errors.New("connection test needs bart or llm mode")

// TestConnection probes the configured remote provider.
func (a *App) TestConnection(ctx context.Context) error {
	if a.remote == nil {
		return ErrOfflineMode
	}
	return llm.TestConnection(ctx, a.remote)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
