// internal/metrics/provider.go
package metrics

import (
	"context"
	"time"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/logging"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers"
)

// Provider is a decorator that wraps a providers.Provider to record metrics.
type Provider struct {
	wrapped    providers.Provider
	aggregator *Aggregator
}

// NewProvider creates a new metrics-enabled provider that wraps an existing Provider.
func NewProvider(wrapped providers.Provider, aggregator *Aggregator) *Provider {
	logging.LogEvent("[METRICS] Wrapping provider with metrics provider")
	return &Provider{wrapped: wrapped, aggregator: aggregator}
}

// Generate times the wrapped call and records token usage.
func (p *Provider) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	start := time.Now()
	resp, err := p.wrapped.Generate(ctx, req)
	p.aggregator.Record(req.Model, OperationGenerate, time.Since(start), resp.PromptTokens, resp.OutputTokens, err)
	return resp, err
}

// Embed times the wrapped call. Token counts are not reported by embedding APIs.
func (p *Provider) Embed(ctx context.Context, host appconfig.Host, model string, texts []string) ([][]float64, error) {
	start := time.Now()
	vectors, err := p.wrapped.Embed(ctx, host, model, texts)
	p.aggregator.Record(model, OperationEmbed, time.Since(start), len(texts), len(vectors), err)
	return vectors, err
}

// Close passes the call through to the wrapped provider.
func (p *Provider) Close() error {
	return p.wrapped.Close()
}
