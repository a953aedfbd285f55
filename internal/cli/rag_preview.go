// internal/cli/rag_preview.go
package ragagent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/rag"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/util"
)

// ragPreviewCmd previews RAG retrieval and context assembly for a query.
var ragPreviewCmd = &cobra.Command{
	Use:   "preview <query>",
	Short: "Preview RAG retrieval and context assembly",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return fmt.Errorf("query is required")
		}

		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		out := cmd.OutOrStdout()
		status := func(format string, args ...any) {
			msg := fmt.Sprintf(format, args...)
			log.Print(msg)
			fmt.Fprintln(out, msg)
		}

		embedHost, _ := cfg.EmbeddingHost()
		status("[RAG] Preview query: %s", query)
		status("[RAG] policy: %s", cfg.PolicyFilePath())
		status("[RAG] index: %s", cfg.RagIndexPath)
		status("[RAG] embedding model: %s", cfg.EmbeddingModel())
		status("[RAG] embedding host: %s", embedHost.Name)
		status("[RAG] chunk size: %d, overlap: %d", cfg.ChunkSize(), cfg.ChunkOverlap())
		status("[RAG] topK: %d", cfg.TopK())
		status("[RAG] context token limit: %d", cfg.RagContextTokenLimit)

		s, err := newSession(ctx, cfg, sessionOptions{})
		if err != nil {
			return err
		}
		defer s.Close()

		result, err := s.retriever.SimilaritySearch(ctx, query, cfg.TopK())
		if err != nil {
			return err
		}

		status("[RAG] retrieval_ms: %d", result.RetrievalMs)
		status("[RAG] context_tokens: %d", result.ContextTokens)
		status("[RAG] source_coverage: %d", result.SourceCoverage)
		status("[RAG] chunks: %d", len(result.Chunks))

		for i, chunk := range result.Chunks {
			status("[RAG] chunk %d score=%.6f doc=%s offset=%d tokens=%d", i+1, chunk.Score, chunk.Entry.Doc, chunk.Entry.Offset, chunk.Entry.TokenCount)
			status("[RAG] chunk %d text: %s", i+1, util.TruncateRunes(chunk.Entry.Text, 200))
		}

		if formatted, _, _ := rag.FormatContext(result.Chunks, cfg.RagContextTokenLimit); formatted != "" {
			status("[RAG] context:\n%s", formatted)
		}
		return nil
	},
}

func init() {
	ragCmd.AddCommand(ragPreviewCmd)
}
