package rag

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// VectorIndex holds embedded chunks in memory and ranks them by cosine similarity.
type VectorIndex struct {
	mu        sync.RWMutex
	entries   []IndexEntry
	dimension int
}

// NewVectorIndex returns an empty index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{}
}

// Add appends entries. Every embedding must share the dimension of the first one added.
func (v *VectorIndex) Add(entries ...IndexEntry) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, entry := range entries {
		if len(entry.Embedding) == 0 {
			return fmt.Errorf("entry %s has no embedding", entry.ChunkID)
		}
		if v.dimension == 0 {
			v.dimension = len(entry.Embedding)
		} else if len(entry.Embedding) != v.dimension {
			return fmt.Errorf("entry %s has dimension %d, index dimension is %d", entry.ChunkID, len(entry.Embedding), v.dimension)
		}
		v.entries = append(v.entries, entry)
	}
	return nil
}

// Len returns the number of entries.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

// Dimension returns the embedding dimension, or 0 for an empty index.
func (v *VectorIndex) Dimension() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dimension
}

// Entries returns a copy of the stored entries in insertion order.
func (v *VectorIndex) Entries() []IndexEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]IndexEntry(nil), v.entries...)
}

// Search returns up to k entries most similar to query, best first.
// Ties keep insertion order.
func (v *VectorIndex) Search(query []float64, k int) []RetrievedChunk {
	if k <= 0 {
		return nil
	}
	v.mu.RLock()
	chunks := scoreEntries(v.entries, query)
	v.mu.RUnlock()
	if k > len(chunks) {
		k = len(chunks)
	}
	return chunks[:k]
}

// Save writes the index as JSONL.
func (v *VectorIndex) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create index directory: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	for _, entry := range v.Entries() {
		if err := encoder.Encode(entry); err != nil {
			return fmt.Errorf("write index entry: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush index: %w", err)
	}
	return nil
}

// LoadIndex reads a JSONL index written by Save.
func LoadIndex(path string) (*VectorIndex, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rag index: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 8*1024*1024)

	index := NewVectorIndex()
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry IndexEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("parse rag index line %d: %w", lineNo, err)
		}
		if err := index.Add(entry); err != nil {
			return nil, fmt.Errorf("rag index line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rag index: %w", err)
	}
	return index, nil
}

func scoreEntries(entries []IndexEntry, queryVec []float64) []RetrievedChunk {
	chunks := make([]RetrievedChunk, 0, len(entries))
	queryNorm := vectorNorm(queryVec)
	for _, entry := range entries {
		if len(entry.Embedding) != len(queryVec) {
			continue
		}
		chunks = append(chunks, RetrievedChunk{
			Entry: entry,
			Score: cosineSimilarity(queryVec, entry.Embedding, queryNorm),
		})
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})
	return chunks
}

func cosineSimilarity(a, b []float64, normA float64) float64 {
	if normA == 0 {
		return 0
	}
	normB := vectorNorm(b)
	if normB == 0 {
		return 0
	}
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

func vectorNorm(v []float64) float64 {
	sum := 0.0
	for _, val := range v {
		sum += val * val
	}
	return math.Sqrt(sum)
}
