// internal/providers/multiplex/provider.go
// Package multiplex routes provider calls based on host type.
package multiplex

import (
	"context"
	"fmt"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers"
)

// Provider delegates calls to an underlying provider based on host type.
type Provider struct {
	providers map[string]providers.Provider
}

// New constructs a Provider from a map of host type to provider implementation.
func New(providerMap map[string]providers.Provider) *Provider {
	normalized := make(map[string]providers.Provider, len(providerMap))
	for key, provider := range providerMap {
		normalized[appconfig.NormalizeHostType(key)] = provider
	}
	return &Provider{providers: normalized}
}

// Generate routes to the provider registered for req.Host.Type.
func (p *Provider) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	provider, err := p.providerForHost(req.Host)
	if err != nil {
		return providers.GenerateResponse{}, err
	}
	return provider.Generate(ctx, req)
}

// Embed routes to the provider registered for host.Type.
func (p *Provider) Embed(ctx context.Context, host appconfig.Host, model string, texts []string) ([][]float64, error) {
	provider, err := p.providerForHost(host)
	if err != nil {
		return nil, err
	}
	return provider.Embed(ctx, host, model, texts)
}

// Close cleans up any resources used by the underlying providers.
func (p *Provider) Close() error {
	var firstErr error
	seen := map[providers.Provider]struct{}{}
	for _, provider := range p.providers {
		if _, ok := seen[provider]; ok {
			continue
		}
		seen[provider] = struct{}{}
		if err := provider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *Provider) providerForHost(host appconfig.Host) (providers.Provider, error) {
	hostType := appconfig.NormalizeHostType(host.Type)
	if provider, ok := p.providers[hostType]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("no provider registered for host type %q", host.Type)
}
