// internal/providers/provider.go

// Package providers defines the interfaces for talking to model hosts.
// A provider generates text from a prompt and embeds text into vectors,
// regardless of the underlying API (Gemini, Ollama).
package providers

import (
	"context"
	"time"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
)

// GenerateRequest carries a single-turn generation call.
type GenerateRequest struct {
	Host            appconfig.Host
	Model           string
	Prompt          string
	SystemPrompt    string
	Temperature     *float64
	MaxOutputTokens int
}

// GenerateResponse is the text a model produced plus usage details.
type GenerateResponse struct {
	Model        string
	Text         string
	FinishReason string
	PromptTokens int
	OutputTokens int
	Duration     time.Duration
}

// ChatProvider generates text.
type ChatProvider interface {
	// Generate sends one prompt and returns the complete response.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	// Close cleans up any resources used by the provider.
	Close() error
}

// EmbeddingProvider turns texts into vectors. The returned slice is parallel to texts.
type EmbeddingProvider interface {
	Embed(ctx context.Context, host appconfig.Host, model string, texts []string) ([][]float64, error)
}

// Provider is implemented by every backend in this module.
type Provider interface {
	ChatProvider
	EmbeddingProvider
}

// HostIdentifier returns a printable name for host.
func HostIdentifier(host appconfig.Host) string {
	if host.Name != "" {
		return host.Name
	}
	if host.URL != "" {
		return host.URL
	}
	return "unknown-host"
}
