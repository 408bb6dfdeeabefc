package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hyperifyio/tldr/internal/app"
	"github.com/hyperifyio/tldr/internal/llm"
)

// Exit codes.
const (
	exitOK      = 0
	exitError   = 1
	exitNoInput = 2
)

type options struct {
	cfg app.Config
	set map[string]bool

	configPath    string
	envFiles      string
	settingsPath  string
	saveSettings  bool
	resetSettings bool
	testAPI       bool
	version       bool

	logFile       string
	logMaxSizeMB  int
	logMaxBackups int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("tldr", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.cfg.InputPath, "input", "", "Path to a text file to summarize, or - for stdin")
	fs.StringVar(&o.cfg.Text, "text", "", "Text to summarize")
	fs.StringVar(&o.cfg.URL, "url", "", "Fetch and summarize the main text of a web page")
	fs.BoolVar(&o.cfg.InputHTML, "html", false, "Treat file or stdin input as HTML")
	fs.StringVar(&o.cfg.OutputPath, "output", "", "Write the summary to this path instead of stdout")
	fs.StringVar(&o.cfg.Format, "format", "", "Output format: text, html, markdown or json (default text)")
	fs.StringVar(&o.cfg.PDFPath, "pdf", "", "Also write the summary as a PDF to this path")
	fs.BoolVar(&o.cfg.ShowOriginal, "show.original", false, "Include the start of the original text above the summary")
	fs.StringVar(&o.cfg.Mode, "mode", "", "Summarizer: nlp (offline), bart (HuggingFace) or llm (OpenAI-compatible)")
	fs.StringVar(&o.cfg.Policy, "policy", "", "Offline policy: ranked or all (default ranked)")
	fs.StringVar(&o.cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	fs.StringVar(&o.cfg.LLMModel, "llm.model", "", "Model name for llm mode")
	fs.StringVar(&o.cfg.LLMAPIKey, "llm.key", "", "API key for the OpenAI-compatible server")
	fs.StringVar(&o.cfg.HFBaseURL, "hf.base", "", "HuggingFace inference base URL")
	fs.StringVar(&o.cfg.HFModel, "hf.model", "", "HuggingFace model for bart mode")
	fs.StringVar(&o.cfg.HFAPIKey, "hf.key", "", "HuggingFace API key (hf_...)")
	fs.StringVar(&o.cfg.CacheDir, "cache.dir", "", "Cache directory for fetched pages and remote summaries")
	fs.DurationVar(&o.cfg.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this (e.g. 24h); 0 disables")
	fs.BoolVar(&o.cfg.CacheClear, "cache.clear", false, "Clear the cache directory before running")
	fs.BoolVar(&o.cfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	fs.StringVar(&o.cfg.UserAgent, "ua", "", "User-Agent for page fetches")
	fs.DurationVar(&o.cfg.Delay, "delay", 0, "Wait this long before printing the summary")
	fs.BoolVar(&o.cfg.Verbose, "v", false, "Verbose logging")

	fs.StringVar(&o.configPath, "config", "", "YAML or JSON config file")
	fs.StringVar(&o.envFiles, "env", ".env", "Comma-separated dotenv files to load")
	fs.StringVar(&o.settingsPath, "settings", "", "Settings file (default $XDG_CONFIG_HOME/tldr/settings.yaml)")
	fs.BoolVar(&o.saveSettings, "settings.save", false, "Persist the effective mode and HuggingFace key")
	fs.BoolVar(&o.resetSettings, "settings.reset", false, "Restore default settings and exit")
	fs.BoolVar(&o.testAPI, "test-api", false, "Test the remote summarizer connection and exit")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")

	fs.StringVar(&o.logFile, "log.file", "", "Also write JSON logs to this rotating file")
	fs.IntVar(&o.logMaxSizeMB, "log.maxSizeMB", 10, "Rotate the log file at this size")
	fs.IntVar(&o.logMaxBackups, "log.maxBackups", 3, "Rotated log files to keep")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// setupLogging installs the global logger and returns a func that closes the
// log file, if any.
func setupLogging(verbose bool, o options, stderr io.Writer) func() error {
	zerolog.TimeFieldFormat = time.RFC3339
	var w io.Writer = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}
	closer := func() error { return nil }
	if o.logFile != "" {
		lj := &lumberjack.Logger{
			Filename:   o.logFile,
			MaxSize:    o.logMaxSizeMB,
			MaxBackups: o.logMaxBackups,
		}
		w = zerolog.MultiLevelWriter(w, lj)
		closer = lj.Close
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return closer
}

// resolveConfig layers settings, config file, env and explicit flags, lowest
// precedence first.
func resolveConfig(o options) (app.Config, string, error) {
	var cfg app.Config
	settingsPath := o.settingsPath
	if settingsPath == "" {
		p, err := app.DefaultSettingsPath()
		if err != nil {
			return cfg, "", fmt.Errorf("settings path: %w", err)
		}
		settingsPath = p
	}
	s, err := app.LoadSettings(settingsPath)
	if err != nil {
		log.Warn().Err(err).Str("path", settingsPath).Msg("ignoring unreadable settings")
	}
	app.ApplySettings(&cfg, s)

	if o.configPath != "" {
		fc, err := app.LoadConfigFile(o.configPath)
		if err != nil {
			return cfg, settingsPath, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	applyFlags(&cfg, o.cfg, o.set)
	return cfg, settingsPath, nil
}

func applyFlags(dst *app.Config, src app.Config, set map[string]bool) {
	str := map[string][2]*string{
		"input":     {&dst.InputPath, &src.InputPath},
		"text":      {&dst.Text, &src.Text},
		"url":       {&dst.URL, &src.URL},
		"output":    {&dst.OutputPath, &src.OutputPath},
		"format":    {&dst.Format, &src.Format},
		"pdf":       {&dst.PDFPath, &src.PDFPath},
		"mode":      {&dst.Mode, &src.Mode},
		"policy":    {&dst.Policy, &src.Policy},
		"llm.base":  {&dst.LLMBaseURL, &src.LLMBaseURL},
		"llm.model": {&dst.LLMModel, &src.LLMModel},
		"llm.key":   {&dst.LLMAPIKey, &src.LLMAPIKey},
		"hf.base":   {&dst.HFBaseURL, &src.HFBaseURL},
		"hf.model":  {&dst.HFModel, &src.HFModel},
		"hf.key":    {&dst.HFAPIKey, &src.HFAPIKey},
		"cache.dir": {&dst.CacheDir, &src.CacheDir},
		"ua":        {&dst.UserAgent, &src.UserAgent},
	}
	for name, p := range str {
		if set[name] {
			*p[0] = *p[1]
		}
	}
	boolean := map[string][2]*bool{
		"html":              {&dst.InputHTML, &src.InputHTML},
		"show.original":     {&dst.ShowOriginal, &src.ShowOriginal},
		"cache.clear":       {&dst.CacheClear, &src.CacheClear},
		"cache.strictPerms": {&dst.CacheStrictPerms, &src.CacheStrictPerms},
		"v":                 {&dst.Verbose, &src.Verbose},
	}
	for name, p := range boolean {
		if set[name] {
			*p[0] = *p[1]
		}
	}
	if set["cache.maxAge"] {
		dst.CacheMaxAge = src.CacheMaxAge
	}
	if set["delay"] {
		dst.Delay = src.Delay
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	if o.version {
		fmt.Fprintln(stdout, app.VersionString())
		return exitOK
	}
	closeLog := setupLogging(o.cfg.Verbose, o, stderr)
	defer closeLog()

	if err := app.LoadEnvFiles(strings.Split(o.envFiles, ",")...); err != nil {
		log.Error().Err(err).Msg("load env files")
		return exitError
	}
	cfg, settingsPath, err := resolveConfig(o)
	if err != nil {
		log.Error().Err(err).Msg("config")
		return exitError
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if o.resetSettings {
		if err := app.ResetSettings(settingsPath); err != nil {
			log.Error().Err(err).Msg("reset settings")
			return exitError
		}
		fmt.Fprintln(stdout, "Settings reset to defaults.")
		return exitOK
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("init app")
		return exitError
	}
	defer a.Close()
	a.SetStdio(os.Stdin, stdout)

	if o.saveSettings {
		if err := app.SaveSettings(settingsPath, app.Settings{Mode: cfg.Mode, APIKey: cfg.HFAPIKey}); err != nil {
			log.Error().Err(err).Msg("save settings")
			return exitError
		}
		log.Info().Str("path", settingsPath).Str("mode", cfg.Mode).Msg("settings saved")
	}

	if o.testAPI {
		err := a.TestConnection(ctx)
		fmt.Fprintln(stdout, connectionMessage(err))
		if err != nil {
			return exitError
		}
		return exitOK
	}

	if err := a.Run(ctx); err != nil {
		if errors.Is(err, app.ErrNoInput) {
			log.Error().Msg("no text selected: pass -text, -input or -url with more than 10 characters")
			return exitNoInput
		}
		log.Error().Err(err).Msg("run failed")
		return exitError
	}
	return exitOK
}

// connectionMessage is the one-line status printed by -test-api.
func connectionMessage(err error) string {
	switch {
	case err == nil:
		return "API connection successful."
	case errors.Is(err, llm.ErrUnauthorized):
		return "Invalid API key."
	case errors.Is(err, llm.ErrRateLimited):
		return "Rate limit exceeded. Try again later."
	case errors.Is(err, llm.ErrModelLoading):
		return "Model is loading. Try again in a few moments."
	case errors.Is(err, app.ErrOfflineMode):
		return "Connection test needs -mode bart or -mode llm."
	}
	return "Connection failed: " + err.Error()
}
