// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/logging"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/metrics"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers/gemini"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers/multiplex"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers/ollama"
)

// NewProvider builds a provider for every host type referenced by the
// generation and embedding hosts, routes between them by host type, and
// wraps the result with metrics collection when an aggregator is supplied.
func NewProvider(cfg *appconfig.Config, apiKey string, aggregator *metrics.Aggregator) (providers.Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	types, err := collectHostTypes(cfg)
	if err != nil {
		return nil, err
	}

	registry := make(map[string]providers.Provider, len(types))
	for hostType := range types {
		switch hostType {
		case "gemini":
			registry[hostType] = gemini.New(cfg, apiKey)
		case "ollama":
			registry[hostType] = ollama.New(cfg)
		}
		logging.LogEvent("provider ready: %s", hostType)
	}

	var provider providers.Provider = multiplex.New(registry)
	if aggregator != nil {
		provider = metrics.NewProvider(provider, aggregator)
	}
	return provider, nil
}

// collectHostTypes returns the normalized types of the hosts used for
// generation and embedding.
func collectHostTypes(cfg *appconfig.Config) (map[string]bool, error) {
	genHost, err := cfg.GenerationHost()
	if err != nil {
		return nil, err
	}
	embedHost, err := cfg.EmbeddingHost()
	if err != nil {
		return nil, err
	}

	types := map[string]bool{}
	for _, host := range []appconfig.Host{genHost, embedHost} {
		hostType := appconfig.NormalizeHostType(host.Type)
		switch hostType {
		case "gemini", "ollama":
			types[hostType] = true
		default:
			return nil, fmt.Errorf("unsupported host type %q for host %q", host.Type, host.Name)
		}
	}
	return types, nil
}
