package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type fakeChat struct {
	calls   int
	failFor int
	content string
	lastReq openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.calls <= f.failFor {
		return openai.ChatCompletionResponse{}, errors.New("transient")
	}
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.content}}}}, nil
}

func TestChatSummarizer_RetriesOnce(t *testing.T) {
	f := &fakeChat{failFor: 1, content: "  A summary.  "}
	s := &ChatSummarizer{Client: f, ModelName: "m"}
	got, err := s.Summarize(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "A summary." || f.calls != 2 {
		t.Fatalf("got %q after %d calls", got, f.calls)
	}
	if f.lastReq.Temperature != 0.1 || f.lastReq.N != 1 || len(f.lastReq.Messages) != 2 {
		t.Fatalf("unexpected request: %+v", f.lastReq)
	}
}

func TestChatSummarizer_FailsAfterRetry(t *testing.T) {
	f := &fakeChat{failFor: 5}
	s := &ChatSummarizer{Client: f, ModelName: "m"}
	if _, err := s.Summarize(context.Background(), "text"); err == nil || f.calls != 2 {
		t.Fatalf("expected failure after 2 calls, got err=%v calls=%d", err, f.calls)
	}
}

func TestChatSummarizer_EmptyContent(t *testing.T) {
	s := &ChatSummarizer{Client: &fakeChat{content: "  "}, ModelName: "m"}
	if _, err := s.Summarize(context.Background(), "text"); !errors.Is(err, ErrEmptySummary) {
		t.Fatalf("expected ErrEmptySummary, got %v", err)
	}
	if _, err := (&ChatSummarizer{}).Summarize(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestHuggingFace_Request(t *testing.T) {
	var got hfRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/models/"+DefaultHFModel {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer hf_test" {
			t.Errorf("missing bearer token")
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		_, _ = w.Write([]byte(`[{"summary_text":"Short summary."}]`))
	}))
	defer srv.Close()

	h := NewHuggingFace("hf_test")
	h.BaseURL = srv.URL
	out, err := h.Summarize(context.Background(), "long input text")
	if err != nil || out != "Short summary." {
		t.Fatalf("got %q err=%v", out, err)
	}
	if got.Inputs != "long input text" || got.Parameters != DefaultHFParameters() {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestHuggingFace_StatusErrors(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusServiceUnavailable, ErrModelLoading},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		h := NewHuggingFace("hf_x")
		h.BaseURL = srv.URL
		_, err := h.Summarize(context.Background(), "text")
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	h := NewHuggingFace("hf_x")
	h.BaseURL = srv.URL
	if _, err := h.Summarize(context.Background(), "text"); err == nil || !strings.Contains(err.Error(), "HTTP 502") {
		t.Fatalf("expected HTTP 502 error, got %v", err)
	}
}

func TestParseHFResponse(t *testing.T) {
	if s, err := parseHFResponse([]byte(`{"generated_text":"gen"}`)); err != nil || s != "gen" {
		t.Fatalf("object form: %q %v", s, err)
	}
	if _, err := parseHFResponse([]byte(`[]`)); !errors.Is(err, ErrEmptySummary) {
		t.Fatalf("expected ErrEmptySummary, got %v", err)
	}
	if _, err := parseHFResponse([]byte(`not json`)); err == nil || !strings.Contains(err.Error(), "unexpected response format") {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestValidateHFKey(t *testing.T) {
	if err := ValidateHFKey("hf_abc"); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := ValidateHFKey("sk-abc"); !errors.Is(err, ErrInvalidKey) || !strings.Contains(err.Error(), "invalid format") {
		t.Fatalf("expected invalid format, got %v", err)
	}
	if err := ValidateHFKey("  "); !errors.Is(err, ErrInvalidKey) || !strings.Contains(err.Error(), "enter your API key") {
		t.Fatalf("expected missing key, got %v", err)
	}
	if _, err := NewHuggingFace("bad").Summarize(context.Background(), "x"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey before any request, got %v", err)
	}
}

func TestTestConnection(t *testing.T) {
	f := &fakeChat{content: "ok"}
	if err := TestConnection(context.Background(), &ChatSummarizer{Client: f, ModelName: "m"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if !strings.Contains(f.lastReq.Messages[1].Content, ProbeText) {
		t.Fatalf("probe text not sent")
	}
	err := TestConnection(context.Background(), &ChatSummarizer{Client: &fakeChat{failFor: 9}, ModelName: "m"})
	if err == nil || !strings.HasPrefix(err.Error(), "llm connection test") {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
}
