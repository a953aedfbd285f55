package rag

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RetrievalResult includes the retrieved chunks and telemetry.
type RetrievalResult struct {
	Context        string
	Chunks         []RetrievedChunk
	RetrievalMs    int
	ContextTokens  int
	SourceCoverage int
}

// Texts returns the chunk texts in rank order.
func (r RetrievalResult) Texts() []string {
	texts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		texts[i] = c.Entry.Text
	}
	return texts
}

// Retriever embeds queries and searches an index.
type Retriever struct {
	index    *VectorIndex
	embedder Embedder
}

// NewRetriever returns a Retriever over index.
func NewRetriever(index *VectorIndex, embedder Embedder) *Retriever {
	return &Retriever{index: index, embedder: embedder}
}

// Index returns the underlying index.
func (r *Retriever) Index() *VectorIndex {
	return r.index
}

// SimilaritySearch returns the k chunks nearest to query. Context is the
// chunk texts joined by a single space.
func (r *Retriever) SimilaritySearch(ctx context.Context, query string, k int) (RetrievalResult, error) {
	start := time.Now()
	if strings.TrimSpace(query) == "" {
		return RetrievalResult{}, fmt.Errorf("query is empty")
	}
	if k <= 0 {
		return RetrievalResult{}, fmt.Errorf("k must be greater than zero")
	}
	if r.index == nil || r.index.Len() == 0 {
		return RetrievalResult{}, fmt.Errorf("rag index contains no entries")
	}

	queryVec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return RetrievalResult{}, fmt.Errorf("embed query: %w", err)
	}
	if len(queryVec) != r.index.Dimension() {
		return RetrievalResult{}, fmt.Errorf("query embedding has dimension %d, index dimension is %d", len(queryVec), r.index.Dimension())
	}

	selected := r.index.Search(queryVec, k)
	contextText := JoinContext(selected)
	return RetrievalResult{
		Context:        contextText,
		Chunks:         selected,
		RetrievalMs:    int(time.Since(start) / time.Millisecond),
		ContextTokens:  estimateTokens(contextText),
		SourceCoverage: countSources(selected),
	}, nil
}

func countSources(chunks []RetrievedChunk) int {
	seen := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		seen[c.Entry.Doc] = struct{}{}
	}
	return len(seen)
}
