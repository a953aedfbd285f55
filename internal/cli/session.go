// internal/cli/session.go
package ragagent

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/agent"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/booking"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/cache"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/logging"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/metrics"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providerfactory"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/rag"
)

// session holds everything built once at startup: the provider, the index
// and the agent that uses them.
type session struct {
	cfg        *appconfig.Config
	provider   providers.Provider
	retriever  *rag.Retriever
	agent      *agent.Agent
	aggregator *metrics.Aggregator
	cache      *cache.QueryCache
	genHost    appconfig.Host
}

type sessionOptions struct {
	// status receives [RAG] progress lines.
	status io.Writer
	// rebuildIndex ignores a reusable index on disk.
	rebuildIndex bool
}

// newSession loads .env, checks the API key, then builds the provider,
// the vector index and the agent.
func newSession(ctx context.Context, cfg *appconfig.Config, opts sessionOptions) (*session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	envPath, err := appconfig.LoadDotEnv("")
	if err != nil {
		return nil, err
	}
	if envPath != "" {
		logging.LogEvent("loaded environment from %s", envPath)
	}

	apiKey, err := appconfig.RequireAPIKey()
	if err != nil {
		return nil, err
	}

	genHost, err := cfg.GenerationHost()
	if err != nil {
		return nil, err
	}
	embedHost, err := cfg.EmbeddingHost()
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, genHost: genHost}
	if cfg.Metrics {
		s.aggregator = metrics.NewAggregator()
	}

	s.provider, err = providerfactory.NewProvider(cfg, apiKey, s.aggregator)
	if err != nil {
		return nil, err
	}

	if err := s.build(ctx, embedHost, opts); err != nil {
		_ = s.provider.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) build(ctx context.Context, embedHost appconfig.Host, opts sessionOptions) error {
	cfg := s.cfg
	doc, err := rag.LoadDocument(cfg.PolicyFilePath())
	if err != nil {
		return err
	}

	embedder := rag.NewHostEmbedder(s.provider, embedHost, cfg.EmbeddingModel())
	index, err := rag.Build(ctx, rag.BuildOptions{
		Document: doc,
		Split: rag.SplitOptions{
			ChunkSize: cfg.ChunkSize(),
			Overlap:   cfg.ChunkOverlap(),
			Separator: cfg.Separator(),
		},
		Embedder:  embedder,
		Model:     cfg.EmbeddingModel(),
		IndexPath: cfg.RagIndexPath,
		Reuse:     cfg.RagReuseIndex && !opts.rebuildIndex,
		Status:    opts.status,
	})
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	s.retriever = rag.NewRetriever(index, embedder)

	schedule := booking.NewSchedule(cfg.Booking.BookedSlots, cfg.Booking.Suggestion)
	s.agent = agent.New(s.retriever, s.provider, schedule, agent.Options{
		Host:            s.genHost,
		Model:           cfg.Model(),
		Temperature:     cfg.GenerationTemperature(),
		MaxOutputTokens: cfg.MaxTokens(),
		TopK:            cfg.TopK(),
		CacheScope:      answerCacheScope(doc, cfg),
	})

	if cfg.Redis.Enabled {
		client, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			logging.LogEvent("answer cache disabled: %v", err)
			return nil
		}
		s.cache = cache.NewQueryCache(client, cfg.CacheTTL(), cfg.Redis.KeyPrefix)
		s.agent.WithCache(s.cache)
	}
	return nil
}

// reportMetrics logs the metrics summary and writes it to metricsPath when set.
func (s *session) reportMetrics(out io.Writer) {
	if s.aggregator == nil {
		return
	}
	summary := s.aggregator.Summary()
	logging.LogEvent("[METRICS]\n%s", summary)
	if s.cfg.Debug {
		fmt.Fprintln(out, summary)
	}
	if path := strings.TrimSpace(s.cfg.MetricsPath); path != "" {
		if err := s.aggregator.Save(path); err != nil {
			logging.LogEvent("[METRICS] save failed: %v", err)
		}
	}
}

// Close releases the provider and cache connections.
func (s *session) Close() error {
	var firstErr error
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			firstErr = err
		}
	}
	if s.provider != nil {
		if err := s.provider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// answerCacheScope ties cached answers to the policy contents and the retrieval settings.
func answerCacheScope(doc rag.Document, cfg *appconfig.Config) string {
	return fmt.Sprintf("doc=%s|embed=%s|chunk=%d/%d|k=%d",
		doc.Hash(), cfg.EmbeddingModel(), cfg.ChunkSize(), cfg.ChunkOverlap(), cfg.TopK())
}
