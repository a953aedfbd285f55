// Package agent routes booking questions to the time-slot rule and
// everything else through retrieval and a single model call.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/booking"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/cache"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/logging"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/rag"
)

// Route names how an answer was produced.
type Route string

const (
	RouteBooking   Route = "booking"
	RouteRetrieval Route = "retrieval"
)

// Retriever finds the chunks closest to a question.
type Retriever interface {
	SimilaritySearch(ctx context.Context, query string, k int) (rag.RetrievalResult, error)
}

// AnswerCache stores retrieval answers between runs. scope identifies everything
// besides the question that shaped the answer.
type AnswerCache interface {
	Get(ctx context.Context, scope, question string) (cache.Entry, bool, error)
	Set(ctx context.Context, scope, question string, entry cache.Entry) error
}

// Options configures generation.
type Options struct {
	Host            appconfig.Host
	Model           string
	Temperature     float64
	MaxOutputTokens int
	TopK            int
	// Fallback replaces responses that are too short or echo the question.
	Fallback string
	// CacheScope is mixed into answer cache keys with the model, so answers built
	// from another policy document or retrieval setup are never reused.
	CacheScope string
}

// Answer is the result of Ask.
type Answer struct {
	Question string
	Text     string
	Route    Route
	Slot     string
	Sources  []rag.RetrievedChunk
	Cached   bool
}

// Agent answers questions about the booking policy.
type Agent struct {
	retriever Retriever
	provider  providers.ChatProvider
	schedule  *booking.Schedule
	cache     AnswerCache
	opts      Options
}

// New builds an Agent. A nil schedule uses the default booked slots.
func New(retriever Retriever, provider providers.ChatProvider, schedule *booking.Schedule, opts Options) *Agent {
	if schedule == nil {
		schedule = booking.DefaultSchedule()
	}
	if opts.TopK <= 0 {
		opts.TopK = 2
	}
	if opts.Fallback == "" {
		opts.Fallback = DefaultFallback
	}
	return &Agent{
		retriever: retriever,
		provider:  provider,
		schedule:  schedule,
		opts:      opts,
	}
}

// WithCache enables the answer cache for retrieval answers.
func (a *Agent) WithCache(c AnswerCache) *Agent {
	a.cache = c
	return a
}

// Ask answers one question.
func (a *Agent) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, fmt.Errorf("question is empty")
	}

	if result, ok := a.schedule.Lookup(question); ok {
		logging.LogEvent("booking rule matched slot %q available=%v", result.Slot, result.Available)
		return Answer{
			Question: question,
			Text:     result.Answer(),
			Route:    RouteBooking,
			Slot:     result.Slot,
		}, nil
	}

	if cached, ok := a.lookupCache(ctx, question); ok {
		return Answer{
			Question: question,
			Text:     cached.Answer,
			Route:    RouteRetrieval,
			Cached:   true,
		}, nil
	}

	if a.retriever == nil || a.provider == nil {
		return Answer{}, fmt.Errorf("retrieval is not configured")
	}

	retrieved, err := a.retriever.SimilaritySearch(ctx, question, a.opts.TopK)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve: %w", err)
	}
	logging.LogEvent("retrieved %d chunks in %dms", len(retrieved.Chunks), retrieved.RetrievalMs)

	temp := a.opts.Temperature
	resp, err := a.provider.Generate(ctx, providers.GenerateRequest{
		Host:            a.opts.Host,
		Model:           a.opts.Model,
		Prompt:          BuildPrompt(retrieved.Context, question),
		Temperature:     &temp,
		MaxOutputTokens: a.opts.MaxOutputTokens,
	})
	if err != nil {
		return Answer{}, fmt.Errorf("generate: %w", err)
	}

	text := CleanResponse(question, resp.Text, a.opts.Fallback)
	answer := Answer{
		Question: question,
		Text:     text,
		Route:    RouteRetrieval,
		Sources:  retrieved.Chunks,
	}
	a.storeCache(ctx, answer)
	return answer, nil
}

func (a *Agent) lookupCache(ctx context.Context, question string) (cache.Entry, bool) {
	if a.cache == nil {
		return cache.Entry{}, false
	}
	entry, ok, err := a.cache.Get(ctx, a.cacheScope(), question)
	if err != nil {
		logging.LogEvent("answer cache unavailable: %v", err)
		return cache.Entry{}, false
	}
	return entry, ok
}

func (a *Agent) storeCache(ctx context.Context, answer Answer) {
	if a.cache == nil {
		return
	}
	err := a.cache.Set(ctx, a.cacheScope(), answer.Question, cache.Entry{
		Question: answer.Question,
		Answer:   answer.Text,
		Route:    string(answer.Route),
		Model:    a.opts.Model,
	})
	if err != nil {
		logging.LogEvent("answer cache write failed: %v", err)
	}
}

func (a *Agent) cacheScope() string {
	if a.opts.CacheScope == "" {
		return a.opts.Model
	}
	return a.opts.Model + "\x00" + a.opts.CacheScope
}
