package rag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"
)

// BuildOptions describes how to turn a document into an index.
type BuildOptions struct {
	Document  Document
	Split     SplitOptions
	Embedder  Embedder
	Model     string
	IndexPath string
	// Reuse loads IndexPath instead of re-embedding when it was built from
	// the same document text and model.
	Reuse bool
	// Status receives progress lines. Nil discards them.
	Status io.Writer
}

// Build chunks and embeds the document, returning the populated index.
// When IndexPath is set the index is also written there.
func Build(ctx context.Context, opts BuildOptions) (*VectorIndex, error) {
	if opts.Embedder == nil {
		return nil, fmt.Errorf("embedder is nil")
	}
	start := time.Now()
	status := func(format string, args ...any) {
		elapsed := time.Since(start).Truncate(time.Millisecond)
		msg := fmt.Sprintf("[%s] %s", elapsed, fmt.Sprintf(format, args...))
		log.Print(msg)
		if opts.Status != nil {
			fmt.Fprintln(opts.Status, msg)
		}
	}

	docName := opts.Document.Name()
	docHash := opts.Document.Hash()

	if opts.Reuse && strings.TrimSpace(opts.IndexPath) != "" {
		index, err := loadReusable(opts.IndexPath, docHash, opts.Model)
		switch {
		case err == nil:
			status("[RAG] Reusing index %s (%d chunks)", opts.IndexPath, index.Len())
			return index, nil
		case errors.Is(err, fs.ErrNotExist):
			status("[RAG] No index at %s, building", opts.IndexPath)
		default:
			status("[RAG] Rebuilding index: %v", err)
		}
	}

	status("[RAG] Indexing document: %s", opts.Document.Source)
	status("[RAG] Embedding model: %s", opts.Model)
	status("[RAG] Chunk size: %d, overlap: %d", opts.Split.ChunkSize, opts.Split.Overlap)

	chunks, err := SplitText(opts.Document.Text, opts.Split)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s produced no chunks: %w", docName, ErrEmptyDocument)
	}
	status("[RAG] Chunked %s into %d chunks", docName, len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := opts.Embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", docName, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embed %s: got %d vectors for %d chunks", docName, len(vectors), len(chunks))
	}
	status("[RAG] Embedded %d chunks", len(chunks))

	index := NewVectorIndex()
	for i, c := range chunks {
		entry := IndexEntry{
			ChunkID:    fmt.Sprintf("%s:%d", docName, i),
			Doc:        docName,
			DocHash:    docHash,
			Model:      opts.Model,
			Offset:     c.Offset,
			Text:       c.Text,
			Embedding:  vectors[i],
			TokenCount: c.Tokens,
		}
		if err := index.Add(entry); err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(opts.IndexPath) != "" {
		if err := index.Save(opts.IndexPath); err != nil {
			return nil, err
		}
		status("[RAG] Index output: %s", opts.IndexPath)
	}

	status("[RAG] Index complete in %s", time.Since(start).Truncate(time.Millisecond))
	return index, nil
}

func loadReusable(path, docHash, model string) (*VectorIndex, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	index, err := LoadIndex(path)
	if err != nil {
		return nil, err
	}
	if index.Len() == 0 {
		return nil, fmt.Errorf("index %s is empty", path)
	}
	for _, entry := range index.Entries() {
		if entry.DocHash != docHash {
			return nil, fmt.Errorf("index %s was built from a different document", path)
		}
		if entry.Model != model {
			return nil, fmt.Errorf("index %s was built with model %q", path, entry.Model)
		}
	}
	return index, nil
}
