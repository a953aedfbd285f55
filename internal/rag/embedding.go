package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers"
)

// Embedder turns text into vectors.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float64, error)
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
}

// HostEmbedder embeds through a provider against a fixed host and model.
type HostEmbedder struct {
	provider providers.EmbeddingProvider
	host     appconfig.Host
	model    string
}

// NewHostEmbedder binds provider to host and model.
func NewHostEmbedder(provider providers.EmbeddingProvider, host appconfig.Host, model string) *HostEmbedder {
	return &HostEmbedder{provider: provider, host: host, model: model}
}

// Model returns the embedding model name.
func (e *HostEmbedder) Model() string {
	return e.model
}

// EmbedDocuments embeds texts in order.
func (e *HostEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float64, error) {
	if strings.TrimSpace(e.model) == "" {
		return nil, fmt.Errorf("rag embedding model is empty")
	}
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := e.provider.Embed(ctx, e.host, e.model, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding returned %d vectors for %d texts", len(vectors), len(texts))
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("embedding response returned empty vector for input %d", i)
		}
	}
	return vectors, nil
}

// EmbedQuery embeds a single query string.
func (e *HostEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
