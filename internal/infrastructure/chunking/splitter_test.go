package chunking

import (
	"strings"
	"testing"
)

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	s := NewSplitter(900, 150)

	chunks := s.Split("Hükümlüye kurum dışına çıkma izni verilebilir.")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
}

func TestSplitEmptyTextReturnsNil(t *testing.T) {
	s := NewSplitter(900, 150)

	if got := s.Split(""); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := s.Split("   \n  "); len(got) != 0 {
		t.Fatalf("expected no chunks for whitespace, got %v", got)
	}
}

func TestSplitWindowsLongTextWithOverlap(t *testing.T) {
	s := NewSplitter(100, 20)

	word := "madde "
	text := strings.TrimSpace(strings.Repeat(word, 60))

	chunks := s.Split(text)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > 100 {
			t.Fatalf("chunk %d exceeds window: %d runes", i, n)
		}
		if strings.HasPrefix(c, "adde") || strings.HasSuffix(c, "mad") {
			t.Fatalf("chunk %d cut mid-word: %q", i, c)
		}
	}
}

func TestSplitCountsRunesNotBytes(t *testing.T) {
	s := NewSplitter(10, 0)

	// Each "çü" is 4 bytes but 2 runes.
	text := strings.Repeat("çü", 10)
	chunks := s.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != strings.Repeat("çü", 5) {
		t.Fatalf("first chunk broke a rune boundary: %q", chunks[0])
	}
}

func TestNewSplitterClampsBadConfig(t *testing.T) {
	s := NewSplitter(0, -5)
	if s.ChunkSize != 900 || s.Overlap != 0 {
		t.Fatalf("unexpected defaults: %+v", s)
	}

	s = NewSplitter(100, 100)
	if s.Overlap != 25 {
		t.Fatalf("expected overlap clamp to 25, got %d", s.Overlap)
	}
}
