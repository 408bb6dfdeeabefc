package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HuggingFace inference defaults.
const (
	DefaultHFBaseURL = "https://api-inference.huggingface.co"
	DefaultHFModel   = "facebook/bart-large-cnn"
)

// HFParameters are the generation parameters sent with every request.
type HFParameters struct {
	MaxLength     int  `json:"max_length"`
	MinLength     int  `json:"min_length"`
	DoSample      bool `json:"do_sample"`
	NumBeams      int  `json:"num_beams"`
	EarlyStopping bool `json:"early_stopping"`
}

// DefaultHFParameters returns the parameters used for summarization.
func DefaultHFParameters() HFParameters {
	return HFParameters{MaxLength: 200, MinLength: 30, DoSample: false, NumBeams: 4, EarlyStopping: true}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters HFParameters `json:"parameters"`
}

type hfOutput struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
}

func (o hfOutput) text() string {
	if s := strings.TrimSpace(o.SummaryText); s != "" {
		return s
	}
	return strings.TrimSpace(o.GeneratedText)
}

// HuggingFace summarizes through the HuggingFace inference API.
type HuggingFace struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	ModelName  string
	Parameters HFParameters
}

// NewHuggingFace returns a client with default endpoint, model and parameters.
func NewHuggingFace(apiKey string) *HuggingFace {
	return &HuggingFace{
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		BaseURL:    DefaultHFBaseURL,
		APIKey:     apiKey,
		ModelName:  DefaultHFModel,
		Parameters: DefaultHFParameters(),
	}
}

func (h *HuggingFace) Name() string { return "bart" }

func (h *HuggingFace) Model() string {
	if h.ModelName == "" {
		return DefaultHFModel
	}
	return h.ModelName
}

// ValidateHFKey reports whether key looks like a HuggingFace token.
func ValidateHFKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: enter your API key", ErrInvalidKey)
	}
	if !strings.HasPrefix(key, "hf_") {
		return fmt.Errorf("%w: invalid format, keys start with hf_", ErrInvalidKey)
	}
	return nil
}

// Summarize posts text to the model endpoint and returns the summary.
func (h *HuggingFace) Summarize(ctx context.Context, text string) (string, error) {
	if err := ValidateHFKey(h.APIKey); err != nil {
		return "", err
	}
	base := strings.TrimRight(h.BaseURL, "/")
	if base == "" {
		base = DefaultHFBaseURL
	}
	body, err := json.Marshal(hfRequest{Inputs: text, Parameters: h.Parameters})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/models/"+h.Model(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(h.APIKey))
	req.Header.Set("Content-Type", "application/json")

	client := h.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusServiceUnavailable:
		return "", ErrModelLoading
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return parseHFResponse(raw)
}

// parseHFResponse accepts either an array of outputs or a single object.
func parseHFResponse(raw []byte) (string, error) {
	var list []hfOutput
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) > 0 {
			if s := list[0].text(); s != "" {
				return s, nil
			}
		}
		return "", ErrEmptySummary
	}
	var one hfOutput
	if err := json.Unmarshal(raw, &one); err != nil {
		return "", fmt.Errorf("unexpected response format: %w", err)
	}
	if s := one.text(); s != "" {
		return s, nil
	}
	return "", ErrEmptySummary
}
