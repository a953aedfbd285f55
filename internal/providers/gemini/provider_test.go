package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers"
)

func newTestProvider(t *testing.T, retries int) *Provider {
	t.Helper()
	p := New(&appconfig.Config{TimeoutSeconds: 5, RetryCount: retries}, "test-key")
	p.backoff = time.Millisecond
	return p
}

// TestGenerateSendsGenerationConfig verifies the request shape and that candidate parts are concatenated.
func TestGenerateSendsGenerationConfig(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-1.5-flash:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		if r.URL.Query().Get("key") != "" {
			t.Errorf("api key must not be sent in the query string")
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("unmarshal: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Use the "},{"text":"booking system."}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":12,"candidatesTokenCount":4}}`))
	}))
	defer server.Close()

	temp := 0.3
	resp, err := newTestProvider(t, 0).Generate(context.Background(), providers.GenerateRequest{
		Host:            appconfig.Host{Name: "gemini", URL: server.URL, Type: "gemini"},
		Model:           "models/gemini-1.5-flash",
		Prompt:          "hello",
		Temperature:     &temp,
		MaxOutputTokens: 150,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != "Use the booking system." {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if resp.PromptTokens != 12 || resp.OutputTokens != 4 || resp.FinishReason != "STOP" {
		t.Fatalf("unexpected usage %+v", resp)
	}

	cfg, ok := captured["generationConfig"].(map[string]any)
	if !ok {
		t.Fatalf("expected generationConfig in payload, got %v", captured)
	}
	if cfg["temperature"] != 0.3 || cfg["maxOutputTokens"] != float64(150) {
		t.Fatalf("unexpected generationConfig %v", cfg)
	}
	if _, ok := captured["systemInstruction"]; ok {
		t.Fatalf("systemInstruction should be omitted when empty")
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"busy"}`))
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer server.Close()

	resp, err := newTestProvider(t, 2).Generate(context.Background(), providers.GenerateRequest{
		Host:  appconfig.Host{URL: server.URL},
		Model: "gemini-1.5-flash",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != "ok" || calls.Load() != 3 {
		t.Fatalf("expected success on third call, got %q after %d calls", resp.Text, calls.Load())
	}
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer server.Close()

	_, err := newTestProvider(t, 3).Generate(context.Background(), providers.GenerateRequest{
		Host:  appconfig.Host{URL: server.URL},
		Model: "gemini-1.5-flash",
	})
	if err == nil || !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("expected client error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestGenerateBlockedPrompt(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	_, err := newTestProvider(t, 0).Generate(context.Background(), providers.GenerateRequest{
		Host:  appconfig.Host{URL: server.URL},
		Model: "gemini-1.5-flash",
	})
	if err == nil || !strings.Contains(err.Error(), "SAFETY") {
		t.Fatalf("expected blocked error, got %v", err)
	}
}

func TestEmbedBatches(t *testing.T) {
	t.Parallel()

	var batchSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/text-embedding-004:batchEmbedContents" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		batchSizes = append(batchSizes, len(req.Requests))
		var resp embedResponse
		for range req.Requests {
			resp.Embeddings = append(resp.Embeddings, struct {
				Values []float64 `json:"values"`
			}{Values: []float64{1, 0, 0}})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	texts := make([]string, 150)
	for i := range texts {
		texts[i] = "chunk"
	}
	vectors, err := newTestProvider(t, 0).Embed(context.Background(), appconfig.Host{URL: server.URL}, "text-embedding-004", texts)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vectors) != 150 {
		t.Fatalf("expected 150 vectors, got %d", len(vectors))
	}
	if len(batchSizes) != 2 || batchSizes[0] != 100 || batchSizes[1] != 50 {
		t.Fatalf("unexpected batch sizes %v", batchSizes)
	}
}

func TestRequestsWithoutKeyFail(t *testing.T) {
	t.Parallel()

	p := New(&appconfig.Config{}, "")
	_, err := p.Generate(context.Background(), providers.GenerateRequest{Model: "gemini-1.5-flash"})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}
