package rag

import (
	"path/filepath"
	"testing"
)

func TestScoreEntriesOrdersBySimilarity(t *testing.T) {
	entries := []IndexEntry{
		{Doc: "a", Embedding: []float64{1, 0}},
		{Doc: "b", Embedding: []float64{0, 1}},
		{Doc: "c", Embedding: []float64{1, 1}},
	}
	query := []float64{1, 0}

	chunks := scoreEntries(entries, query)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Entry.Doc != "a" || chunks[1].Entry.Doc != "c" {
		t.Fatalf("unexpected order %s, %s", chunks[0].Entry.Doc, chunks[1].Entry.Doc)
	}
}

func TestVectorIndexSearch(t *testing.T) {
	index := NewVectorIndex()
	if err := index.Add(
		IndexEntry{ChunkID: "0", Text: "first", Embedding: []float64{1, 0}},
		IndexEntry{ChunkID: "1", Text: "tie", Embedding: []float64{0, 1}},
		IndexEntry{ChunkID: "2", Text: "tie too", Embedding: []float64{0, 2}},
	); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got := index.Search([]float64{0, 1}, 2)
	if len(got) != 2 || got[0].Entry.ChunkID != "1" || got[1].Entry.ChunkID != "2" {
		t.Fatalf("expected tied entries in insertion order, got %+v", got)
	}
	if all := index.Search([]float64{0, 1}, 10); len(all) != 3 {
		t.Fatalf("expected k to clamp to index size, got %d", len(all))
	}
	if none := index.Search([]float64{0, 1}, 0); none != nil {
		t.Fatalf("expected nil for k=0")
	}
}

func TestVectorIndexRejectsDimensionMismatch(t *testing.T) {
	index := NewVectorIndex()
	if err := index.Add(IndexEntry{ChunkID: "a", Embedding: []float64{1, 2, 3}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := index.Add(IndexEntry{ChunkID: "b", Embedding: []float64{1}}); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
	if err := index.Add(IndexEntry{ChunkID: "c"}); err == nil {
		t.Fatalf("expected error for missing embedding")
	}
	if index.Len() != 1 || index.Dimension() != 3 {
		t.Fatalf("unexpected index state len=%d dim=%d", index.Len(), index.Dimension())
	}
}

func TestVectorIndexSaveLoad(t *testing.T) {
	index := NewVectorIndex()
	if err := index.Add(
		IndexEntry{ChunkID: "policy.txt:0", Doc: "policy.txt", Text: "會議室 <A>", Embedding: []float64{0.5, 0.5}},
		IndexEntry{ChunkID: "policy.txt:1", Doc: "policy.txt", Text: "second", Embedding: []float64{1, 0}},
	); err != nil {
		t.Fatalf("Add: %v", err)
	}
	path := filepath.Join(t.TempDir(), "index", "rag.jsonl")
	if err := index.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadIndex(path)
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	entries := loaded.Entries()
	if len(entries) != 2 || entries[0].Text != "會議室 <A>" || entries[1].ChunkID != "policy.txt:1" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}
