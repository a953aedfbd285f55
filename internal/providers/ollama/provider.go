// internal/providers/ollama/provider.go
// Package ollama provides a Provider backed by Ollama-compatible HTTP endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/logging"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers"
)

// Provider implements providers.Provider using the Ollama HTTP API.
type Provider struct {
	client  *http.Client
	timeout time.Duration
}

// New constructs a Provider configured with the application's request timeout.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
	}
}

type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	DoneReason      string `json:"done_reason"`
	TotalDuration   int64  `json:"total_duration"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Generate issues a non-streaming /api/generate request.
func (p *Provider) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	payload := map[string]any{
		"model":   req.Model,
		"prompt":  req.Prompt,
		"stream":  false,
		"options": buildOptions(req),
	}
	if req.SystemPrompt != "" {
		payload["system"] = req.SystemPrompt
	}

	start := time.Now()
	var parsed generateResponse
	if err := p.post(ctx, req.Host, req.Model, "/api/generate", payload, &parsed); err != nil {
		return providers.GenerateResponse{}, err
	}

	model := parsed.Model
	if model == "" {
		model = req.Model
	}
	return providers.GenerateResponse{
		Model:        model,
		Text:         parsed.Response,
		FinishReason: parsed.DoneReason,
		PromptTokens: parsed.PromptEvalCount,
		OutputTokens: parsed.EvalCount,
		Duration:     time.Since(start),
	}, nil
}

// Embed requests one embedding per text from /api/embeddings.
func (p *Provider) Embed(ctx context.Context, host appconfig.Host, model string, texts []string) ([][]float64, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("ollama: embedding model is empty")
	}
	out := make([][]float64, 0, len(texts))
	for i, text := range texts {
		var parsed embeddingResponse
		payload := map[string]any{
			"model":  model,
			"prompt": text,
		}
		if err := p.post(ctx, host, model, "/api/embeddings", payload, &parsed); err != nil {
			return nil, fmt.Errorf("embed input %d: %w", i, err)
		}
		if len(parsed.Embedding) == 0 {
			return nil, fmt.Errorf("ollama: embedding response returned empty vector for input %d", i)
		}
		out = append(out, parsed.Embedding)
	}
	return out, nil
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func (p *Provider) post(ctx context.Context, host appconfig.Host, model, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ollama: marshal request: %w", err)
	}
	hostID := providers.HostIdentifier(host)
	logging.LogRequest("AGENT->LLM", hostID, model, body)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(host.URL, "/")+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: %s request failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ollama: read %s response: %w", path, err)
	}
	logging.LogRequest("LLM->AGENT", hostID, model, raw)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: %s returned %s: %s", path, resp.Status, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("ollama: parse %s response: %w", path, err)
	}
	return nil
}

func buildOptions(req providers.GenerateRequest) map[string]any {
	options := map[string]any{}
	if req.Temperature != nil {
		options["temperature"] = *req.Temperature
	}
	if req.MaxOutputTokens > 0 {
		options["num_predict"] = req.MaxOutputTokens
	}
	return options
}
