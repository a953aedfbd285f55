package rag

import (
	"reflect"
	"strings"
	"testing"
)

func chunkTexts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

func TestSplitTextMergesWithOverlap(t *testing.T) {
	text := "aaaa\n\nbbbb\n\ncccc\n\ndddd"

	tests := []struct {
		name    string
		overlap int
		want    []string
	}{
		{name: "overlap carries previous piece", overlap: 4, want: []string{"aaaa\n\nbbbb", "bbbb\n\ncccc", "cccc\n\ndddd"}},
		{name: "no overlap", overlap: 0, want: []string{"aaaa\n\nbbbb", "cccc\n\ndddd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := SplitText(text, SplitOptions{ChunkSize: 10, Overlap: tt.overlap, Separator: "\n\n"})
			if err != nil {
				t.Fatalf("SplitText: %v", err)
			}
			if got := chunkTexts(chunks); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitTextOffsets(t *testing.T) {
	text := "aaaa\n\nbbbb\n\ncccc\n\ndddd"
	chunks, err := SplitText(text, SplitOptions{ChunkSize: 10, Overlap: 4, Separator: "\n\n"})
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	want := []int{0, 6, 12}
	for i, c := range chunks {
		if c.Offset != want[i] {
			t.Fatalf("chunk %d offset = %d, want %d", i, c.Offset, want[i])
		}
		if text[c.Offset:c.Offset+len(c.Text)] != c.Text {
			t.Fatalf("chunk %d does not match source at its offset", i)
		}
		if c.Tokens != 2 {
			t.Fatalf("chunk %d tokens = %d, want 2", i, c.Tokens)
		}
	}
}

func TestSplitTextKeepsOversizedPiece(t *testing.T) {
	long := strings.Repeat("x", 30)
	chunks, err := SplitText("short\n\n"+long+"\n\nend", SplitOptions{ChunkSize: 10, Overlap: 2, Separator: "\n\n"})
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	want := []string{"short", long, "end"}
	if got := chunkTexts(chunks); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSplitTextCountsRunes(t *testing.T) {
	chunks, err := SplitText("會議室\n\n預約系統\n\n上午十點", SplitOptions{ChunkSize: 8, Overlap: 3, Separator: "\n\n"})
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	want := []string{"會議室", "預約系統", "上午十點"}
	if got := chunkTexts(chunks); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSplitTextEmptySeparatorSplitsRunes(t *testing.T) {
	chunks, err := SplitText("abcdefgh", SplitOptions{ChunkSize: 4, Overlap: 1})
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	want := []string{"abcd", "defg", "gh"}
	if got := chunkTexts(chunks); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSplitTextCollapsedSeparatorsHaveNoOffset(t *testing.T) {
	chunks, err := SplitText("a\n\n\n\nb", SplitOptions{ChunkSize: 100, Overlap: 20, Separator: "\n\n"})
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Text != "a\n\nb" || chunks[0].Offset != -1 {
		t.Fatalf("unexpected chunks %+v", chunks)
	}
}

func TestSplitTextWhitespaceOnly(t *testing.T) {
	chunks, err := SplitText("  \n\n  ", SplitOptions{ChunkSize: 100, Overlap: 20, Separator: "\n\n"})
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %+v", chunks)
	}
}

func TestSplitTextRejectsBadOptions(t *testing.T) {
	for _, opts := range []SplitOptions{
		{ChunkSize: 0},
		{ChunkSize: 10, Overlap: -1},
		{ChunkSize: 10, Overlap: 10},
	} {
		if _, err := SplitText("text", opts); err == nil {
			t.Fatalf("expected error for %+v", opts)
		}
	}
}
