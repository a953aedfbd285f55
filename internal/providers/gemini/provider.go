// Package gemini provides a Provider backed by the Google Generative Language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/logging"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers"
)

// ErrNoAPIKey is returned when a request is attempted without an API key.
var ErrNoAPIKey = errors.New("gemini: api key is empty")

// maxBatchEmbed is the batchEmbedContents request limit.
const maxBatchEmbed = 100

// Provider implements providers.Provider against generateContent and batchEmbedContents.
type Provider struct {
	client     *http.Client
	apiKey     string
	maxRetries int
	backoff    time.Duration
	limiter    *rate.Limiter
}

// New constructs a Provider configured with the application's timeout, retry and rate settings.
func New(cfg *appconfig.Config, apiKey string) *Provider {
	limit := rate.Inf
	if cfg.RequestsPerMin > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMin) / 60.0)
	}
	return &Provider{
		client:     &http.Client{Timeout: cfg.RequestTimeout()},
		apiKey:     apiKey,
		maxRetries: cfg.RetryAttempts(),
		backoff:    500 * time.Millisecond,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type embedRequest struct {
	Requests []embedContentRequest `json:"requests"`
}

type embedContentRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

type embedResponse struct {
	Embeddings []struct {
		Values []float64 `json:"values"`
	} `json:"embeddings"`
}

// Generate issues a generateContent request and returns the text of the first candidate.
func (p *Provider) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	if strings.TrimSpace(req.Model) == "" {
		return providers.GenerateResponse{}, fmt.Errorf("gemini: model is empty")
	}
	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxOutputTokens,
		},
	}
	if req.SystemPrompt != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: req.SystemPrompt}}}
	}

	start := time.Now()
	var parsed generateResponse
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", baseURL(req.Host), modelID(req.Model))
	if err := p.post(ctx, req.Host, req.Model, endpoint, payload, &parsed); err != nil {
		return providers.GenerateResponse{}, err
	}

	if len(parsed.Candidates) == 0 {
		if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
			return providers.GenerateResponse{}, fmt.Errorf("gemini: prompt blocked: %s", parsed.PromptFeedback.BlockReason)
		}
		return providers.GenerateResponse{}, fmt.Errorf("gemini: response contained no candidates")
	}
	candidate := parsed.Candidates[0]
	var text strings.Builder
	for _, pt := range candidate.Content.Parts {
		text.WriteString(pt.Text)
	}

	return providers.GenerateResponse{
		Model:        req.Model,
		Text:         text.String(),
		FinishReason: candidate.FinishReason,
		PromptTokens: parsed.UsageMetadata.PromptTokenCount,
		OutputTokens: parsed.UsageMetadata.CandidatesTokenCount,
		Duration:     time.Since(start),
	}, nil
}

// Embed embeds texts with batchEmbedContents, splitting into API-sized batches.
func (p *Provider) Embed(ctx context.Context, host appconfig.Host, model string, texts []string) ([][]float64, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("gemini: embedding model is empty")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float64, 0, len(texts))
	endpoint := fmt.Sprintf("%s/models/%s:batchEmbedContents", baseURL(host), modelID(model))
	for start := 0; start < len(texts); start += maxBatchEmbed {
		end := start + maxBatchEmbed
		if end > len(texts) {
			end = len(texts)
		}
		batch := embedRequest{Requests: make([]embedContentRequest, 0, end-start)}
		for _, text := range texts[start:end] {
			batch.Requests = append(batch.Requests, embedContentRequest{
				Model:   "models/" + modelID(model),
				Content: content{Parts: []part{{Text: text}}},
			})
		}

		var parsed embedResponse
		if err := p.post(ctx, host, model, endpoint, batch, &parsed); err != nil {
			return nil, err
		}
		if len(parsed.Embeddings) != end-start {
			return nil, fmt.Errorf("gemini: expected %d embeddings, got %d", end-start, len(parsed.Embeddings))
		}
		for i, emb := range parsed.Embeddings {
			if len(emb.Values) == 0 {
				return nil, fmt.Errorf("gemini: empty embedding for input %d", start+i)
			}
			out = append(out, emb.Values)
		}
	}
	return out, nil
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// post marshals payload, sends it with retries and decodes the JSON response into out.
func (p *Provider) post(ctx context.Context, host appconfig.Host, model, endpoint string, payload, out any) error {
	if p.apiKey == "" {
		return ErrNoAPIKey
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("gemini: marshal request: %w", err)
	}
	hostID := providers.HostIdentifier(host)
	logging.LogRequest("AGENT->LLM", hostID, model, body)

	respBody, err := p.doWithRetry(ctx, endpoint, body)
	if err != nil {
		return err
	}
	logging.LogRequest("LLM->AGENT", hostID, model, respBody)

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("gemini: parse response: %w", err)
	}
	return nil
}

// doWithRetry retries transport errors and 5xx/429 responses with linear backoff.
func (p *Provider) doWithRetry(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			logging.LogEvent("gemini: retrying request (attempt %d/%d): %v", attempt+1, p.maxRetries+1, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * p.backoff):
			}
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("gemini: rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gemini: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", p.apiKey)

		resp, err := p.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return raw, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("gemini: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
		default:
			return nil, fmt.Errorf("gemini: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
		}
	}
	return nil, fmt.Errorf("gemini: request failed after %d attempts: %w", p.maxRetries+1, lastErr)
}

func baseURL(host appconfig.Host) string {
	if u := strings.TrimRight(strings.TrimSpace(host.URL), "/"); u != "" {
		return u
	}
	return appconfig.GeminiBaseURL
}

func modelID(model string) string {
	return strings.TrimPrefix(strings.TrimSpace(model), "models/")
}
