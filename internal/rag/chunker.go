package rag

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/logging"
)

// SplitOptions controls SplitText. Sizes are measured in runes.
type SplitOptions struct {
	ChunkSize int
	Overlap   int
	Separator string
}

// SplitText splits text on the separator and greedily merges the pieces into
// chunks of at most ChunkSize runes, carrying up to Overlap runes of trailing
// pieces into the next chunk. A single piece longer than ChunkSize becomes its
// own oversized chunk.
func SplitText(text string, opts SplitOptions) ([]Chunk, error) {
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be greater than zero")
	}
	if opts.Overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must be zero or greater")
	}
	if opts.Overlap >= opts.ChunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", opts.Overlap, opts.ChunkSize)
	}

	pieces := splitPieces(text, opts.Separator)
	merged := mergePieces(pieces, opts)

	chunks := make([]Chunk, 0, len(merged))
	cursor := 0
	for _, m := range merged {
		offset := -1
		if idx := strings.Index(text[cursor:], m); idx >= 0 {
			offset = cursor + idx
			cursor = offset + 1
		}
		chunks = append(chunks, Chunk{
			Offset: offset,
			Text:   m,
			Tokens: len(strings.Fields(m)),
		})
	}
	return chunks, nil
}

// splitPieces splits on sep, or into single runes when sep is empty, dropping empty pieces.
func splitPieces(text, sep string) []string {
	var raw []string
	if sep == "" {
		raw = strings.Split(text, "")
	} else {
		raw = strings.Split(text, sep)
	}
	pieces := raw[:0]
	for _, p := range raw {
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

func mergePieces(pieces []string, opts SplitOptions) []string {
	sepLen := utf8.RuneCountInString(opts.Separator)
	var docs []string
	var current []string
	total := 0

	// joinLen is the separator cost of appending one more piece to current.
	joinLen := func() int {
		if len(current) > 0 {
			return sepLen
		}
		return 0
	}

	for _, piece := range pieces {
		n := utf8.RuneCountInString(piece)
		if total+n+joinLen() > opts.ChunkSize {
			if total > opts.ChunkSize {
				logging.LogEvent("[RAG] created a chunk of size %d, which is longer than the specified %d", total, opts.ChunkSize)
			}
			if len(current) > 0 {
				if doc, ok := joinPieces(current, opts.Separator); ok {
					docs = append(docs, doc)
				}
				for total > opts.Overlap || (total+n+joinLen() > opts.ChunkSize && total > 0) {
					dropped := utf8.RuneCountInString(current[0])
					if len(current) > 1 {
						dropped += sepLen
					}
					total -= dropped
					current = current[1:]
				}
			}
		}
		current = append(current, piece)
		total += n
		if len(current) > 1 {
			total += sepLen
		}
	}
	if doc, ok := joinPieces(current, opts.Separator); ok {
		docs = append(docs, doc)
	}
	return docs
}

func joinPieces(pieces []string, sep string) (string, bool) {
	text := strings.TrimSpace(strings.Join(pieces, sep))
	return text, text != ""
}
