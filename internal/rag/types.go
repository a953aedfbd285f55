// Package rag chunks the policy document, embeds the chunks, and answers
// nearest-neighbour queries over an in-memory vector index.
package rag

// IndexEntry is a single JSONL record in the RAG index.
type IndexEntry struct {
	ChunkID    string    `json:"chunk_id"`
	Doc        string    `json:"doc"`
	DocHash    string    `json:"doc_hash,omitempty"`
	Model      string    `json:"model,omitempty"`
	Offset     int       `json:"offset"`
	Text       string    `json:"text"`
	Embedding  []float64 `json:"embedding"`
	TokenCount int       `json:"token_count"`
}

// Chunk is a piece of the source document produced by SplitText.
// Offset is the byte offset of Text in the source, or -1 when the merged
// chunk does not appear verbatim (runs of separators collapse on merge).
type Chunk struct {
	Offset int
	Text   string
	Tokens int
}

// RetrievedChunk is a chunk plus similarity score.
type RetrievedChunk struct {
	Entry IndexEntry
	Score float64
}
