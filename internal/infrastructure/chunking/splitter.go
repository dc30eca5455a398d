// Package chunking splits long article bodies into indexable passages.
// Most law articles fit one chunk; the splitter only matters for the long
// procedural articles.
package chunking

import "strings"

type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 900
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

// Split windows the text by rune count with the configured overlap. Window
// starts prefer a whitespace boundary so a legal term is not cut in half at
// the seam.
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		slice := runes[start:end]
		if end < len(runes) {
			if cut := lastBoundary(slice); cut > 0 {
				slice = slice[:cut]
			}
		}

		chunk := strings.TrimSpace(string(slice))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

// lastBoundary returns the index of the last whitespace rune in the trailing
// quarter of the window, or 0 when there is none worth cutting at.
func lastBoundary(runes []rune) int {
	limit := len(runes) * 3 / 4
	for i := len(runes) - 1; i >= limit; i-- {
		if runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t' {
			return i
		}
	}
	return 0
}
